package models

import (
	"time"

	"gorm.io/gorm"
)

// SpecialAccess 管理端授予的特殊佣金配置
// 说明：package_id 为空表示覆盖全部套餐；非空时仅覆盖对应套餐的结算。
type SpecialAccess struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                            // 主键
	UserID            uint           `gorm:"not null;index" json:"user_id"`                                   // 用户ID
	PackageID         *uint          `gorm:"index" json:"package_id,omitempty"`                               // 绑定套餐ID
	CommissionPercent Money          `gorm:"type:decimal(10,2);not null;default:0" json:"commission_percent"` // 覆盖佣金比例
	Active            bool           `gorm:"not null;default:true;index" json:"active"`                       // 是否生效
	GrantedBy         string         `gorm:"type:varchar(64);default:''" json:"granted_by"`                   // 授予操作员
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间

	User    User     `gorm:"foreignKey:UserID" json:"user,omitempty"`       // 用户信息
	Package *Package `gorm:"foreignKey:PackageID" json:"package,omitempty"` // 绑定套餐
}

// TableName 指定表名
func (SpecialAccess) TableName() string {
	return "special_accesses"
}
