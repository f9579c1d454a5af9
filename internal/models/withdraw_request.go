package models

import (
	"time"

	"gorm.io/gorm"
)

// WithdrawRequest 提现申请表
type WithdrawRequest struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                      // 主键
	UserID       uint           `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Amount       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`       // 申请金额
	Channel      string         `gorm:"type:varchar(50);default:''" json:"channel"`                // 收款渠道
	Account      string         `gorm:"type:varchar(200);default:''" json:"account"`               // 收款账号
	Status       string         `gorm:"type:varchar(20);index;not null" json:"status"`             // 申请状态
	RejectReason string         `gorm:"type:varchar(255);default:''" json:"reject_reason"`         // 拒绝原因
	ProcessedBy  string         `gorm:"type:varchar(64);default:''" json:"processed_by,omitempty"` // 处理操作员
	ProcessedAt  *time.Time     `gorm:"index" json:"processed_at,omitempty"`                       // 处理时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                   // 申请时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"` // 用户信息
}

// TableName 指定表名
func (WithdrawRequest) TableName() string {
	return "withdraw_requests"
}
