package service

import (
	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"

	"github.com/shopspring/decimal"
)

// CommissionResult 佣金计算结果
type CommissionResult struct {
	// EffectivePercent 实际生效的佣金比例
	EffectivePercent decimal.Decimal
	// Commission 推荐人佣金，向下取整
	Commission models.Money
	// Cashback 买家返现，向下取整
	Cashback models.Money
	// FromOverride 比例是否来自专属分成配置
	FromOverride bool
}

var percentHundred = decimal.NewFromInt(100)

// clampPercent 比例收敛到 [0,100]
func clampPercent(percent decimal.Decimal) decimal.Decimal {
	if percent.IsNegative() {
		return decimal.Zero
	}
	if percent.GreaterThan(percentHundred) {
		return percentHundred
	}
	return percent
}

// EffectiveCommissionPercent 解析推荐人实际生效的佣金比例。
// 优先级：绑定所购套餐的专属配置 > 不限套餐的专属配置 > 套餐默认比例。
// 套餐比例缺失或 ≤0 时回落到默认值 58。
func EffectiveCommissionPercent(overrides []models.SpecialAccess, pkg *models.Package) (decimal.Decimal, bool) {
	if pkg != nil {
		for _, o := range overrides {
			if !o.Active {
				continue
			}
			if o.PackageID != nil && *o.PackageID == pkg.ID {
				return clampPercent(o.CommissionPercent.Decimal), true
			}
		}
	}
	for _, o := range overrides {
		if !o.Active {
			continue
		}
		if o.PackageID == nil {
			return clampPercent(o.CommissionPercent.Decimal), true
		}
	}
	percent := decimal.NewFromInt(constants.DefaultCommissionPercent)
	if pkg != nil && pkg.CommissionPercent.Decimal.IsPositive() {
		percent = pkg.CommissionPercent.Decimal
	}
	return clampPercent(percent), false
}

// CalculateCommission 计算订单的推荐佣金与买家返现。
// hasReferrer 为 false 时两项均为零；金额向下取整到整数，绝不为负。
func CalculateCommission(price models.Money, percent decimal.Decimal, hasReferrer bool) CommissionResult {
	result := CommissionResult{
		EffectivePercent: clampPercent(percent),
		Commission:       models.ZeroMoney(),
		Cashback:         models.ZeroMoney(),
	}
	if !hasReferrer || !price.Decimal.IsPositive() {
		return result
	}
	commission := price.Decimal.Mul(result.EffectivePercent).Div(percentHundred).Floor()
	cashback := price.Decimal.Mul(decimal.NewFromInt(constants.CashbackPercent)).Div(percentHundred).Floor()
	if commission.IsNegative() {
		commission = decimal.Zero
	}
	if cashback.IsNegative() {
		cashback = decimal.Zero
	}
	result.Commission = models.NewMoneyFromDecimal(commission)
	result.Cashback = models.NewMoneyFromDecimal(cashback)
	return result
}
