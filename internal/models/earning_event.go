package models

import (
	"time"
)

// EarningEvent 收益审计事件（佣金/返现）
// 说明：只追加不修改；(order_id, event_type) 唯一保证同一订单同类事件只记一次。
type EarningEvent struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                                                    // 主键
	OrderID    uint      `gorm:"not null;index;index:idx_earning_event_unique,unique" json:"order_id"`                    // 订单ID
	EventType  string    `gorm:"type:varchar(20);not null;index;index:idx_earning_event_unique,unique" json:"event_type"` // 事件类型
	UserID     uint      `gorm:"not null;index" json:"user_id"`                                                           // 入账用户（佣金为推荐人，返现为买家）
	ReferrerID uint      `gorm:"not null;index" json:"referrer_id"`                                                       // 推荐人ID
	BuyerID    uint      `gorm:"not null;index" json:"buyer_id"`                                                          // 买家ID
	PackageID  uint      `gorm:"not null;index" json:"package_id"`                                                        // 套餐ID
	Amount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`                                     // 入账金额
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                                                                 // 事件时间
}

// TableName 指定表名
func (EarningEvent) TableName() string {
	return "earning_events"
}
