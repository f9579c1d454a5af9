package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
// 说明：订单由前台下单创建，此处仅由结算状态机变更状态与结算金额。
type Order struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                           // 主键
	OrderNo          string         `gorm:"uniqueIndex;not null" json:"order_no"`                           // 订单编号
	BuyerID          uint           `gorm:"index;not null" json:"buyer_id"`                                 // 买家用户ID
	ReferrerID       *uint          `gorm:"index" json:"referrer_id,omitempty"`                             // 推荐人用户ID
	PackageID        uint           `gorm:"index;not null" json:"package_id"`                               // 套餐ID
	Kind             string         `gorm:"type:varchar(20);not null;default:'first_purchase'" json:"kind"` // 订单类型（首购/升级）
	Status           string         `gorm:"type:varchar(32);index;not null" json:"status"`                  // 订单状态
	CommissionAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"commission_amount"` // 结算佣金（结算后只写一次）
	CashbackAmount   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"cashback_amount"`   // 结算返现（结算后只写一次）
	SettledAt        *time.Time     `gorm:"index" json:"settled_at,omitempty"`                              // 结算时间
	SettledBy        string         `gorm:"type:varchar(64);default:''" json:"settled_by,omitempty"`        // 结算操作员
	RejectReason     string         `gorm:"type:varchar(255);default:''" json:"reject_reason,omitempty"`    // 驳回原因
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                        // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Buyer    User     `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`       // 买家信息
	Referrer *User    `gorm:"foreignKey:ReferrerID" json:"referrer,omitempty"` // 推荐人信息
	Package  *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"`   // 套餐信息
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
