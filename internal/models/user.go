package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
// 说明：balance / total_earnings / 各窗口滚动收益字段仅允许台账服务写入。
type User struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                        // 主键
	Email             string         `gorm:"uniqueIndex;not null" json:"email"`                           // 邮箱
	DisplayName       string         `gorm:"default:''" json:"display_name"`                              // 昵称
	Phone             string         `gorm:"type:varchar(32);default:''" json:"phone"`                    // 手机号
	Status            string         `gorm:"type:varchar(20);index;default:'pending'" json:"status"`      // 账号状态
	ReferrerID        *uint          `gorm:"index" json:"referrer_id,omitempty"`                          // 推荐人ID
	EnrolledPackageID *uint          `gorm:"index" json:"enrolled_package_id,omitempty"`                  // 已报名套餐ID
	Balance           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`        // 可提现余额
	TotalEarnings     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_earnings"` // 累计收益（只增不减）
	DailyEarnings     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"daily_earnings"` // 当日收益
	WeeklyEarnings    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"weekly_earnings"`
	MonthlyEarnings   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"monthly_earnings"`
	LastDailyReset    *time.Time     `json:"last_daily_reset,omitempty"`   // 当前日窗口起点
	LastWeeklyReset   *time.Time     `json:"last_weekly_reset,omitempty"`  // 当前周窗口起点（周日零点）
	LastMonthlyReset  *time.Time     `json:"last_monthly_reset,omitempty"` // 当前月窗口起点
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`      // 创建时间
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`      // 更新时间
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`               // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
