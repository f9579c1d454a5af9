package models

import (
	"time"
)

// ReferralInvite 推荐邀请记录
// 说明：订单被驳回时，推荐人名下对应买家的待处理邀请会被移除。
type ReferralInvite struct {
	ID         uint      `gorm:"primarykey" json:"id"`                          // 主键
	ReferrerID uint      `gorm:"index;not null" json:"referrer_id"`             // 推荐人ID
	BuyerID    uint      `gorm:"index;not null" json:"buyer_id"`                // 被邀请买家ID
	Status     string    `gorm:"type:varchar(20);index;not null" json:"status"` // 邀请状态
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                       // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                       // 更新时间
}

// TableName 指定表名
func (ReferralInvite) TableName() string {
	return "referral_invites"
}
