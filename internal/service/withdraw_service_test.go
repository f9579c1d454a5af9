package service

import (
	"errors"
	"testing"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

type withdrawFixture struct {
	db     *gorm.DB
	svc    *WithdrawService
	ledger *LedgerService
	user   *models.User
}

func newWithdrawFixture(t *testing.T) *withdrawFixture {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(repository.NewLedgerRepository(db))
	svc := NewWithdrawService(
		repository.NewWithdrawRepository(db),
		repository.NewUserRepository(db),
		ledger,
		nil,
	)
	return &withdrawFixture{
		db:     db,
		svc:    svc,
		ledger: ledger,
		user:   createTestUser(t, db, "earner@example.com"),
	}
}

func (f *withdrawFixture) credit(t *testing.T, amount int64) {
	t.Helper()
	_, err := f.ledger.Credit(nil, CreditInput{
		UserID:     f.user.ID,
		Amount:     models.NewMoneyFromInt(amount),
		Type:       constants.LedgerTxnTypeCommission,
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
}

func (f *withdrawFixture) balance(t *testing.T) string {
	t.Helper()
	var u models.User
	if err := f.db.First(&u, f.user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return u.Balance.String()
}

func TestReviewWithdrawApprove(t *testing.T) {
	f := newWithdrawFixture(t)
	f.credit(t, 2000)

	withdraw, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(1500),
		Channel: "alipay", Account: "earner@example.com",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	resolved, err := f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionApprove, Operator: "admin",
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if resolved.Status != constants.WithdrawStatusCompleted {
		t.Fatalf("status = %s, want completed", resolved.Status)
	}
	if got := f.balance(t); got != "500.00" {
		t.Fatalf("balance = %s, want 500.00", got)
	}

	var txn models.LedgerTransaction
	err = f.db.Where("withdraw_id = ?", withdraw.ID).First(&txn).Error
	if err != nil {
		t.Fatalf("ledger txn missing: %v", err)
	}
	if txn.Direction != constants.LedgerTxnDirectionOut || txn.Type != constants.LedgerTxnTypeWithdrawal {
		t.Fatalf("txn = %s/%s, want withdrawal/out", txn.Type, txn.Direction)
	}
	if txn.Product != constants.LedgerProductWithdrawal {
		t.Fatalf("txn product = %q, want %q", txn.Product, constants.LedgerProductWithdrawal)
	}
}

func TestReviewWithdrawApproveInsufficientBalanceDowngradesToRejected(t *testing.T) {
	f := newWithdrawFixture(t)
	f.credit(t, 2000)

	withdraw, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(1500), Channel: "alipay",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	// 审批前余额被另一笔出账消耗
	if _, err := f.ledger.Debit(nil, DebitInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(1000),
		Type: constants.LedgerTxnTypeWithdrawal,
	}); err != nil {
		t.Fatalf("debit: %v", err)
	}

	resolved, err := f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionApprove, Operator: "admin",
	})
	if err != nil {
		t.Fatalf("review should not error on shortfall: %v", err)
	}
	if resolved.Status != constants.WithdrawStatusRejected {
		t.Fatalf("status = %s, want rejected", resolved.Status)
	}
	if resolved.RejectReason != constants.WithdrawRejectReasonInsufficient {
		t.Fatalf("reason = %q, want %q", resolved.RejectReason, constants.WithdrawRejectReasonInsufficient)
	}
	if got := f.balance(t); got != "1000.00" {
		t.Fatalf("balance = %s, want untouched 1000.00", got)
	}
}

func TestReviewWithdrawReject(t *testing.T) {
	f := newWithdrawFixture(t)
	f.credit(t, 2000)

	withdraw, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(500), Channel: "alipay",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	resolved, err := f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionReject,
		Operator: "admin", Reason: "account mismatch",
	})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if resolved.Status != constants.WithdrawStatusRejected {
		t.Fatalf("status = %s, want rejected", resolved.Status)
	}
	if got := f.balance(t); got != "2000.00" {
		t.Fatalf("balance = %s, want untouched 2000.00", got)
	}
}

func TestReviewWithdrawAlreadyResolved(t *testing.T) {
	f := newWithdrawFixture(t)
	f.credit(t, 2000)

	withdraw, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(500), Channel: "alipay",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionApprove, Operator: "admin",
	}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err = f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionApprove, Operator: "admin",
	})
	if !errors.Is(err, ErrWithdrawNotPending) {
		t.Fatalf("second review err = %v, want ErrWithdrawNotPending", err)
	}
	if got := f.balance(t); got != "1500.00" {
		t.Fatalf("balance = %s, want 1500.00 (debited once)", got)
	}
}

func TestApplyWithdrawPrechecksBalance(t *testing.T) {
	f := newWithdrawFixture(t)
	f.credit(t, 100)

	_, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(500), Channel: "alipay",
	})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
}

func TestBalanceConservation(t *testing.T) {
	f := newWithdrawFixture(t)

	// balance == totalEarnings − Σ(已完成提现)
	f.credit(t, 3000)
	f.credit(t, 1500)

	withdraw, err := f.svc.ApplyWithdraw(ApplyWithdrawInput{
		UserID: f.user.ID, Amount: models.NewMoneyFromInt(1200), Channel: "alipay",
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := f.svc.ReviewWithdraw(ReviewWithdrawInput{
		WithdrawID: withdraw.ID, Action: constants.WithdrawActionApprove, Operator: "admin",
	}); err != nil {
		t.Fatalf("review: %v", err)
	}

	var u models.User
	if err := f.db.First(&u, f.user.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	var withdrawn struct {
		Total string
	}
	err = f.db.Model(&models.WithdrawRequest{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND status = ?", f.user.ID, constants.WithdrawStatusCompleted).
		Scan(&withdrawn).Error
	if err != nil {
		t.Fatalf("sum withdrawals: %v", err)
	}

	expected := u.TotalEarnings.Decimal.Sub(models.NewMoneyFromString(withdrawn.Total).Decimal)
	if !u.Balance.Decimal.Equal(expected) {
		t.Fatalf("balance %s != totalEarnings %s - withdrawn %s",
			u.Balance, u.TotalEarnings, withdrawn.Total)
	}
}
