package models

import (
	"time"
)

// LedgerTransaction 台账流水
// 说明：记录每次入账/扣减前后的余额快照，用于对账。
type LedgerTransaction struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                        // 主键
	UserID        uint      `gorm:"index;not null" json:"user_id"`                               // 用户ID
	OrderID       *uint     `gorm:"index" json:"order_id,omitempty"`                             // 关联订单ID
	WithdrawID    *uint     `gorm:"index" json:"withdraw_id,omitempty"`                          // 关联提现申请ID
	Type          string    `gorm:"type:varchar(32);index;not null" json:"type"`                 // 流水类型
	Direction     string    `gorm:"type:varchar(8);not null" json:"direction"`                   // 流水方向
	Amount        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`         // 流水金额（正数）
	BalanceBefore Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance_before"` // 变动前余额
	BalanceAfter  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"balance_after"`  // 变动后余额
	Product       string    `gorm:"type:varchar(100);default:''" json:"product"`                 // 结算对象描述
	Reference     string    `gorm:"type:varchar(120);index;default:''" json:"reference"`         // 幂等引用
	Remark        string    `gorm:"type:varchar(255);default:''" json:"remark"`                  // 备注
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                     // 创建时间
}

// TableName 指定表名
func (LedgerTransaction) TableName() string {
	return "ledger_transactions"
}
