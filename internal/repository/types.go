package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	BuyerID     uint
	ReferrerID  uint
	PackageID   uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// WithdrawListFilter 查询提现申请列表的过滤条件
type WithdrawListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// EarningEventListFilter 查询收益事件列表的过滤条件
type EarningEventListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	OrderID     uint
	EventType   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// LedgerTransactionListFilter 查询台账流水列表的过滤条件
type LedgerTransactionListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Type        string
	Direction   string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// AuthzAuditLogListFilter 查询操作审计日志列表的过滤条件
type AuthzAuditLogListFilter struct {
	Page            int
	PageSize        int
	OperatorAdminID uint
	Action          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}
