package models

import (
	"time"

	"gorm.io/gorm"
)

// Package 课程套餐表
type Package struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                            // 主键
	Name              string         `gorm:"type:varchar(200);not null" json:"name"`                          // 套餐名称
	Slug              string         `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`              // 短标识
	Price             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`              // 售价
	CommissionPercent Money          `gorm:"type:decimal(10,2);not null;default:0" json:"commission_percent"` // 默认佣金比例（<=0 时按默认值处理）
	Active            bool           `gorm:"not null;default:true;index" json:"active"`                       // 是否在售
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                         // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                         // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                  // 软删除时间
}

// TableName 指定表名
func (Package) TableName() string {
	return "packages"
}
