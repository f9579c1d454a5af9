package repository

import (
	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// PlatformTotals 平台级金额汇总，金额以字符串形式返回由上层解析
type PlatformTotals struct {
	TotalBalance    string `gorm:"column:total_balance"`
	TotalEarnings   string `gorm:"column:total_earnings"`
	TotalCommission string `gorm:"column:total_commission"`
	TotalCashback   string `gorm:"column:total_cashback"`
	TotalWithdrawn  string `gorm:"column:total_withdrawn"`
}

// DashboardRepository 后台看板聚合查询接口
type DashboardRepository interface {
	GetPlatformTotals() (*PlatformTotals, error)
}

// GormDashboardRepository GORM 看板仓储实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建看板仓储
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// GetPlatformTotals 汇总平台余额、累计收益、佣金、返现与已完成提现
func (r *GormDashboardRepository) GetPlatformTotals() (*PlatformTotals, error) {
	totals := &PlatformTotals{}

	row := struct {
		TotalBalance  string `gorm:"column:total_balance"`
		TotalEarnings string `gorm:"column:total_earnings"`
	}{}
	err := r.db.Model(&models.User{}).
		Select("COALESCE(SUM(balance), 0) AS total_balance, COALESCE(SUM(total_earnings), 0) AS total_earnings").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	totals.TotalBalance = row.TotalBalance
	totals.TotalEarnings = row.TotalEarnings

	var commission string
	err = r.db.Model(&models.EarningEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("event_type = ?", constants.EarningEventTypeCommission).
		Scan(&commission).Error
	if err != nil {
		return nil, err
	}
	totals.TotalCommission = commission

	var cashback string
	err = r.db.Model(&models.EarningEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("event_type = ?", constants.EarningEventTypeCashback).
		Scan(&cashback).Error
	if err != nil {
		return nil, err
	}
	totals.TotalCashback = cashback

	var withdrawn string
	err = r.db.Model(&models.WithdrawRequest{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", constants.WithdrawStatusCompleted).
		Scan(&withdrawn).Error
	if err != nil {
		return nil, err
	}
	totals.TotalWithdrawn = withdrawn

	return totals, nil
}
