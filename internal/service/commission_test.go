package service

import (
	"testing"

	"github.com/courseplex-next/internal/models"

	"github.com/shopspring/decimal"
)

func moneyFromInt(v int64) models.Money {
	return models.NewMoneyFromInt(v)
}

func TestCalculateCommissionBasic(t *testing.T) {
	result := CalculateCommission(moneyFromInt(10000), decimal.NewFromInt(58), true)
	if got := result.Commission.String(); got != "5800.00" {
		t.Fatalf("commission = %s, want 5800.00", got)
	}
	if got := result.Cashback.String(); got != "1000.00" {
		t.Fatalf("cashback = %s, want 1000.00", got)
	}
}

func TestCalculateCommissionFloorsNotRounds(t *testing.T) {
	result := CalculateCommission(moneyFromInt(9999), decimal.NewFromInt(58), true)
	if got := result.Commission.String(); got != "5799.00" {
		t.Fatalf("commission = %s, want 5799.00", got)
	}
	if got := result.Cashback.String(); got != "999.00" {
		t.Fatalf("cashback = %s, want 999.00", got)
	}
}

func TestCalculateCommissionNoReferrer(t *testing.T) {
	result := CalculateCommission(moneyFromInt(10000), decimal.NewFromInt(58), false)
	if !result.Commission.IsZero() {
		t.Fatalf("commission without referrer = %s, want 0", result.Commission)
	}
	if !result.Cashback.IsZero() {
		t.Fatalf("cashback without referrer = %s, want 0", result.Cashback)
	}
}

func TestCalculateCommissionZeroOrNegativePrice(t *testing.T) {
	for _, price := range []int64{0, -100} {
		result := CalculateCommission(moneyFromInt(price), decimal.NewFromInt(58), true)
		if !result.Commission.IsZero() || !result.Cashback.IsZero() {
			t.Fatalf("price=%d: commission=%s cashback=%s, want both 0",
				price, result.Commission, result.Cashback)
		}
	}
}

func TestCalculateCommissionClampsPercent(t *testing.T) {
	result := CalculateCommission(moneyFromInt(1000), decimal.NewFromInt(150), true)
	if got := result.Commission.String(); got != "1000.00" {
		t.Fatalf("commission with percent>100 = %s, want 1000.00", got)
	}

	result = CalculateCommission(moneyFromInt(1000), decimal.NewFromInt(-5), true)
	if !result.Commission.IsZero() {
		t.Fatalf("commission with negative percent = %s, want 0", result.Commission)
	}
}

func TestCashbackIndependentOfPercent(t *testing.T) {
	for _, percent := range []int64{10, 58, 90} {
		result := CalculateCommission(moneyFromInt(5000), decimal.NewFromInt(percent), true)
		if got := result.Cashback.String(); got != "500.00" {
			t.Fatalf("percent=%d: cashback = %s, want 500.00", percent, got)
		}
	}
}

func uintPtr(v uint) *uint { return &v }

func TestEffectiveCommissionPercentPackageBoundOverrideWins(t *testing.T) {
	pkg := &models.Package{CommissionPercent: moneyFromInt(58)}
	pkg.ID = 7
	overrides := []models.SpecialAccess{
		{PackageID: nil, CommissionPercent: moneyFromInt(70), Active: true},
		{PackageID: uintPtr(7), CommissionPercent: moneyFromInt(80), Active: true},
	}
	percent, fromOverride := EffectiveCommissionPercent(overrides, pkg)
	if !fromOverride {
		t.Fatal("expected override to apply")
	}
	if !percent.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("percent = %s, want 80", percent)
	}
}

func TestEffectiveCommissionPercentUnboundOverrideAppliesToAll(t *testing.T) {
	pkg := &models.Package{CommissionPercent: moneyFromInt(58)}
	pkg.ID = 3
	overrides := []models.SpecialAccess{
		{PackageID: nil, CommissionPercent: moneyFromInt(75), Active: true},
	}
	percent, fromOverride := EffectiveCommissionPercent(overrides, pkg)
	if !fromOverride || !percent.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("percent = %s fromOverride=%v, want 75 true", percent, fromOverride)
	}
}

func TestEffectiveCommissionPercentOtherPackageOverrideIgnored(t *testing.T) {
	pkg := &models.Package{CommissionPercent: moneyFromInt(60)}
	pkg.ID = 3
	overrides := []models.SpecialAccess{
		{PackageID: uintPtr(9), CommissionPercent: moneyFromInt(90), Active: true},
	}
	percent, fromOverride := EffectiveCommissionPercent(overrides, pkg)
	if fromOverride {
		t.Fatal("override for another package must not apply")
	}
	if !percent.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("percent = %s, want 60", percent)
	}
}

func TestEffectiveCommissionPercentInactiveOverrideIgnored(t *testing.T) {
	pkg := &models.Package{CommissionPercent: moneyFromInt(60)}
	pkg.ID = 3
	overrides := []models.SpecialAccess{
		{PackageID: uintPtr(3), CommissionPercent: moneyFromInt(90), Active: false},
	}
	percent, fromOverride := EffectiveCommissionPercent(overrides, pkg)
	if fromOverride {
		t.Fatal("inactive override must not apply")
	}
	if !percent.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("percent = %s, want 60", percent)
	}
}

func TestEffectiveCommissionPercentDefaultWhenUnsetOrZero(t *testing.T) {
	pkg := &models.Package{CommissionPercent: moneyFromInt(0)}
	percent, _ := EffectiveCommissionPercent(nil, pkg)
	if !percent.Equal(decimal.NewFromInt(58)) {
		t.Fatalf("percent = %s, want default 58", percent)
	}

	percent, _ = EffectiveCommissionPercent(nil, nil)
	if !percent.Equal(decimal.NewFromInt(58)) {
		t.Fatalf("percent without package = %s, want default 58", percent)
	}
}
