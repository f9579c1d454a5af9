package constants

// 订单状态常量
const (
	OrderStatusPendingApproval = "pending_approval"
	OrderStatusCompleted       = "completed"
	OrderStatusRejected        = "rejected"
)

// 订单类型常量
const (
	OrderKindFirstPurchase = "first_purchase"
	OrderKindUpgrade       = "upgrade"
)

// 用户状态常量
const (
	UserStatusPending  = "pending"
	UserStatusActive   = "active"
	UserStatusRejected = "rejected"
	UserStatusDisabled = "disabled"
)

// 收益事件类型常量
const (
	EarningEventTypeCommission = "commission"
	EarningEventTypeCashback   = "cashback"
)

// 提现申请状态常量
const (
	WithdrawStatusPending   = "pending"
	WithdrawStatusCompleted = "completed"
	WithdrawStatusRejected  = "rejected"
)

// 提现审核动作常量
const (
	WithdrawActionApprove = "approve"
	WithdrawActionReject  = "reject"
)

// 台账流水类型常量
const (
	LedgerTxnTypeCommission = "commission"
	LedgerTxnTypeCashback   = "cashback"
	LedgerTxnTypeWithdrawal = "withdrawal"
)

// LedgerProductWithdrawal 提现出账流水的结算对象描述
const LedgerProductWithdrawal = "Withdrawal"

// 台账流水方向常量
const (
	LedgerTxnDirectionIn  = "in"
	LedgerTxnDirectionOut = "out"
)

// 邀请记录状态常量
const (
	ReferralInviteStatusPending  = "pending"
	ReferralInviteStatusAccepted = "accepted"
)

// 结算比例默认值
const (
	// DefaultCommissionPercent 套餐未配置或配置非法时使用的默认佣金比例
	DefaultCommissionPercent = 58
	// CashbackPercent 买家返现固定比例
	CashbackPercent = 10
)

// 排行榜窗口常量
const (
	LeaderboardWindowDaily    = "daily"
	LeaderboardWindowWeekly   = "weekly"
	LeaderboardWindowMonthly  = "monthly"
	LeaderboardWindowLifetime = "lifetime"
)

// 提现拒绝原因常量
const (
	WithdrawRejectReasonInsufficient = "insufficient_balance"
)

// 异步任务名称常量
const (
	TaskOrderSettledEmail     = "notify:order_settled"
	TaskWithdrawResolvedEmail = "notify:withdraw_resolved"
)

// QueueDefault 默认队列名称
const QueueDefault = "default"
