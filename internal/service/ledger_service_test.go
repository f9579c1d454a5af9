package service

import (
	"errors"
	"testing"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"
)

func newLedgerService(t *testing.T) (*LedgerService, *models.User, func() *models.User) {
	t.Helper()
	db := newTestDB(t)
	user := createTestUser(t, db, "referrer@example.com")
	svc := NewLedgerService(repository.NewLedgerRepository(db))
	reload := func() *models.User {
		var u models.User
		if err := db.First(&u, user.ID).Error; err != nil {
			t.Fatalf("reload user: %v", err)
		}
		return &u
	}
	return svc, user, reload
}

func TestCreditUpdatesBalanceAndWindows(t *testing.T) {
	svc, user, reload := newLedgerService(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	txn, err := svc.Credit(nil, CreditInput{
		UserID:     user.ID,
		Amount:     models.NewMoneyFromInt(5800),
		Type:       constants.LedgerTxnTypeCommission,
		OccurredAt: now,
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if txn.Direction != constants.LedgerTxnDirectionIn {
		t.Fatalf("direction = %s, want in", txn.Direction)
	}
	if got := txn.BalanceAfter.String(); got != "5800.00" {
		t.Fatalf("balance_after = %s, want 5800.00", got)
	}

	u := reload()
	for name, got := range map[string]string{
		"balance": u.Balance.String(),
		"total":   u.TotalEarnings.String(),
		"daily":   u.DailyEarnings.String(),
		"weekly":  u.WeeklyEarnings.String(),
		"monthly": u.MonthlyEarnings.String(),
	} {
		if got != "5800.00" {
			t.Fatalf("%s = %s, want 5800.00", name, got)
		}
	}
}

func TestCreditRollsOverStaleWindows(t *testing.T) {
	svc, user, reload := newLedgerService(t)

	day1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Credit(nil, CreditInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(100),
		Type: constants.LedgerTxnTypeCommission, OccurredAt: day1,
	}); err != nil {
		t.Fatalf("first credit: %v", err)
	}

	// 次日入账：日窗口清零后只计入新金额，周/月窗口继续累加
	day2 := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	if _, err := svc.Credit(nil, CreditInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(30),
		Type: constants.LedgerTxnTypeCommission, OccurredAt: day2,
	}); err != nil {
		t.Fatalf("second credit: %v", err)
	}

	u := reload()
	if got := u.DailyEarnings.String(); got != "30.00" {
		t.Fatalf("daily after rollover = %s, want 30.00", got)
	}
	if got := u.WeeklyEarnings.String(); got != "130.00" {
		t.Fatalf("weekly = %s, want 130.00", got)
	}
	if got := u.MonthlyEarnings.String(); got != "130.00" {
		t.Fatalf("monthly = %s, want 130.00", got)
	}
	if got := u.TotalEarnings.String(); got != "130.00" {
		t.Fatalf("total = %s, want 130.00", got)
	}
}

func TestCreditSameWindowDoesNotReset(t *testing.T) {
	svc, user, reload := newLedgerService(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 2 * time.Hour} {
		if _, err := svc.Credit(nil, CreditInput{
			UserID: user.ID, Amount: models.NewMoneyFromInt(50),
			Type: constants.LedgerTxnTypeCommission, OccurredAt: base.Add(offset),
		}); err != nil {
			t.Fatalf("credit: %v", err)
		}
	}
	if got := reload().DailyEarnings.String(); got != "100.00" {
		t.Fatalf("daily = %s, want 100.00", got)
	}
}

func TestDebitReducesOnlyBalance(t *testing.T) {
	svc, user, reload := newLedgerService(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := svc.Credit(nil, CreditInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(1000),
		Type: constants.LedgerTxnTypeCommission, OccurredAt: now,
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}

	txn, err := svc.Debit(nil, DebitInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(400),
		Type: constants.LedgerTxnTypeWithdrawal, OccurredAt: now,
	})
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if txn.Direction != constants.LedgerTxnDirectionOut {
		t.Fatalf("direction = %s, want out", txn.Direction)
	}

	u := reload()
	if got := u.Balance.String(); got != "600.00" {
		t.Fatalf("balance = %s, want 600.00", got)
	}
	if got := u.TotalEarnings.String(); got != "1000.00" {
		t.Fatalf("total earnings must not shrink on debit, got %s", got)
	}
	if got := u.DailyEarnings.String(); got != "1000.00" {
		t.Fatalf("daily earnings must not shrink on debit, got %s", got)
	}
}

func TestDebitInsufficientBalance(t *testing.T) {
	svc, user, reload := newLedgerService(t)

	_, err := svc.Debit(nil, DebitInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(1),
		Type: constants.LedgerTxnTypeWithdrawal,
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if got := reload().Balance.String(); got != "0.00" {
		t.Fatalf("balance = %s, want unchanged 0.00", got)
	}
}

func TestListTransactionsFiltersByDirection(t *testing.T) {
	svc, user, _ := newLedgerService(t)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	if _, err := svc.Credit(nil, CreditInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(1000),
		Type: constants.LedgerTxnTypeCommission, OccurredAt: now,
	}); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if _, err := svc.Debit(nil, DebitInput{
		UserID: user.ID, Amount: models.NewMoneyFromInt(400),
		Type: constants.LedgerTxnTypeWithdrawal, OccurredAt: now,
	}); err != nil {
		t.Fatalf("debit: %v", err)
	}

	txns, total, err := svc.ListTransactions(repository.LedgerTransactionListFilter{
		UserID:    user.ID,
		Direction: constants.LedgerTxnDirectionOut,
		Page:      1,
		PageSize:  10,
	})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if total != 1 || len(txns) != 1 {
		t.Fatalf("out transactions = %d/%d, want 1/1", len(txns), total)
	}
	if txns[0].Type != constants.LedgerTxnTypeWithdrawal {
		t.Fatalf("type = %s, want withdrawal", txns[0].Type)
	}
}

func TestCreditRejectsNonPositiveAmount(t *testing.T) {
	svc, user, _ := newLedgerService(t)
	_, err := svc.Credit(nil, CreditInput{
		UserID: user.ID, Amount: models.ZeroMoney(),
		Type: constants.LedgerTxnTypeCommission,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestWeekStartIsSunday(t *testing.T) {
	// 2026-03-11 为周三，所在周的周日是 2026-03-08
	now := time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC)
	want := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	if got := WeekStart(now); !got.Equal(want) {
		t.Fatalf("WeekStart = %v, want %v", got, want)
	}

	// 周日当天不回退
	sunday := time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)
	if got := WeekStart(sunday); !got.Equal(want) {
		t.Fatalf("WeekStart on sunday = %v, want %v", got, want)
	}
}

func TestRolloverWindowsPure(t *testing.T) {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	user := &models.User{
		DailyEarnings:    models.NewMoneyFromInt(10),
		WeeklyEarnings:   models.NewMoneyFromInt(20),
		MonthlyEarnings:  models.NewMoneyFromInt(30),
		LastDailyReset:   &lastMonth,
		LastWeeklyReset:  &lastMonth,
		LastMonthlyReset: &lastMonth,
	}
	rolled := RolloverWindows(user, now)
	// 3-31 是周二，4-1 是周三，同周：仅日、月窗口滚动
	if len(rolled) != 2 {
		t.Fatalf("rolled = %v, want daily+monthly", rolled)
	}
	if !user.DailyEarnings.IsZero() || !user.MonthlyEarnings.IsZero() {
		t.Fatal("daily and monthly earnings should be reset")
	}
	if got := user.WeeklyEarnings.String(); got != "20.00" {
		t.Fatalf("weekly = %s, want untouched 20.00", got)
	}
}
