package service

import (
	"errors"
	"testing"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

type settlementFixture struct {
	db       *gorm.DB
	svc      *SettlementService
	buyer    *models.User
	referrer *models.User
	pkg      *models.Package
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	db := newTestDB(t)
	ledger := NewLedgerService(repository.NewLedgerRepository(db))
	svc := NewSettlementService(
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewPackageRepository(db),
		repository.NewSpecialAccessRepository(db),
		repository.NewEarningEventRepository(db),
		repository.NewReferralInviteRepository(db),
		ledger,
		nil,
	)
	return &settlementFixture{
		db:       db,
		svc:      svc,
		buyer:    createTestUser(t, db, "buyer@example.com"),
		referrer: createTestUser(t, db, "referrer@example.com"),
		pkg:      createTestPackage(t, db, "pro", 10000, 58),
	}
}

func (f *settlementFixture) createOrder(t *testing.T, withReferrer bool) *models.Order {
	t.Helper()
	input := CreateOrderInput{BuyerID: f.buyer.ID, PackageID: f.pkg.ID}
	if withReferrer {
		input.ReferrerID = &f.referrer.ID
	}
	order, err := f.svc.CreateOrder(input)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}

func (f *settlementFixture) reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	var u models.User
	if err := f.db.First(&u, id).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &u
}

func TestApproveOrderCreditsCommissionAndCashback(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.createOrder(t, true)

	settled, err := f.svc.ApproveOrder(order.ID, "admin")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if settled.Status != constants.OrderStatusCompleted {
		t.Fatalf("status = %s, want completed", settled.Status)
	}
	if got := settled.CommissionAmount.String(); got != "5800.00" {
		t.Fatalf("commission = %s, want 5800.00", got)
	}
	if got := settled.CashbackAmount.String(); got != "1000.00" {
		t.Fatalf("cashback = %s, want 1000.00", got)
	}

	referrer := f.reloadUser(t, f.referrer.ID)
	if got := referrer.Balance.String(); got != "5800.00" {
		t.Fatalf("referrer balance = %s, want 5800.00", got)
	}
	buyer := f.reloadUser(t, f.buyer.ID)
	if got := buyer.Balance.String(); got != "1000.00" {
		t.Fatalf("buyer cashback balance = %s, want 1000.00", got)
	}
	if buyer.Status != constants.UserStatusActive {
		t.Fatalf("buyer status = %s, want active", buyer.Status)
	}
	if buyer.EnrolledPackageID == nil || *buyer.EnrolledPackageID != f.pkg.ID {
		t.Fatal("buyer enrolled package not set")
	}

	var events []models.EarningEvent
	if err := f.db.Where("order_id = ?", order.ID).Find(&events).Error; err != nil {
		t.Fatalf("load events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("earning events = %d, want 2", len(events))
	}
	for _, event := range events {
		if event.ReferrerID != f.referrer.ID {
			t.Fatalf("event %s referrer_id = %d, want %d", event.EventType, event.ReferrerID, f.referrer.ID)
		}
		if event.BuyerID != f.buyer.ID {
			t.Fatalf("event %s buyer_id = %d, want %d", event.EventType, event.BuyerID, f.buyer.ID)
		}
	}
}

func TestApproveOrderTwiceIsRejected(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.createOrder(t, true)

	if _, err := f.svc.ApproveOrder(order.ID, "admin"); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	_, err := f.svc.ApproveOrder(order.ID, "admin")
	if !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("second approve err = %v, want ErrOrderNotPending", err)
	}

	// 重复审批不得再次入账
	referrer := f.reloadUser(t, f.referrer.ID)
	if got := referrer.Balance.String(); got != "5800.00" {
		t.Fatalf("referrer balance after double approve = %s, want 5800.00", got)
	}
	var eventCount int64
	f.db.Model(&models.EarningEvent{}).Where("order_id = ?", order.ID).Count(&eventCount)
	if eventCount != 2 {
		t.Fatalf("earning events = %d, want exactly 2", eventCount)
	}
}

func TestApproveOrderWithoutReferrerNoCredits(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.createOrder(t, false)

	settled, err := f.svc.ApproveOrder(order.ID, "admin")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !settled.CommissionAmount.IsZero() || !settled.CashbackAmount.IsZero() {
		t.Fatalf("amounts = %s/%s, want 0/0", settled.CommissionAmount, settled.CashbackAmount)
	}
	buyer := f.reloadUser(t, f.buyer.ID)
	if got := buyer.Balance.String(); got != "0.00" {
		t.Fatalf("buyer balance = %s, want 0.00 (cashback requires referrer)", got)
	}
	var eventCount int64
	f.db.Model(&models.EarningEvent{}).Count(&eventCount)
	if eventCount != 0 {
		t.Fatalf("events = %d, want 0", eventCount)
	}
}

func TestApproveOrderUsesSpecialAccessOverride(t *testing.T) {
	f := newSettlementFixture(t)
	access := &models.SpecialAccess{
		UserID:            f.referrer.ID,
		PackageID:         &f.pkg.ID,
		CommissionPercent: models.NewMoneyFromInt(80),
		Active:            true,
	}
	if err := f.db.Create(access).Error; err != nil {
		t.Fatalf("create special access: %v", err)
	}

	order := f.createOrder(t, true)
	settled, err := f.svc.ApproveOrder(order.ID, "admin")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := settled.CommissionAmount.String(); got != "8000.00" {
		t.Fatalf("commission with override = %s, want 8000.00", got)
	}
	// 返现比例不受专属分成影响
	if got := settled.CashbackAmount.String(); got != "1000.00" {
		t.Fatalf("cashback = %s, want 1000.00", got)
	}
}

func TestRejectOrderHasNoFinancialEffect(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.createOrder(t, true)

	invite := &models.ReferralInvite{
		ReferrerID: f.referrer.ID,
		BuyerID:    f.buyer.ID,
		Status:     constants.ReferralInviteStatusPending,
	}
	if err := f.db.Create(invite).Error; err != nil {
		t.Fatalf("create invite: %v", err)
	}

	rejected, err := f.svc.RejectOrder(order.ID, "admin", "payment not received")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != constants.OrderStatusRejected {
		t.Fatalf("status = %s, want rejected", rejected.Status)
	}
	if rejected.RejectReason != "payment not received" {
		t.Fatalf("reason = %q", rejected.RejectReason)
	}

	for _, id := range []uint{f.buyer.ID, f.referrer.ID} {
		u := f.reloadUser(t, id)
		if !u.Balance.IsZero() || !u.TotalEarnings.IsZero() {
			t.Fatalf("user %d has balance %s / earnings %s after reject", id, u.Balance, u.TotalEarnings)
		}
	}

	// 首购被拒：账号标记为 rejected
	if got := f.reloadUser(t, f.buyer.ID).Status; got != constants.UserStatusRejected {
		t.Fatalf("buyer status = %s, want rejected", got)
	}

	// 待确认邀请被移除
	var inviteCount int64
	f.db.Model(&models.ReferralInvite{}).Where("id = ?", invite.ID).Count(&inviteCount)
	if inviteCount != 0 {
		t.Fatal("pending invite should be removed on rejection")
	}
}

func TestRejectThenApproveIsRejected(t *testing.T) {
	f := newSettlementFixture(t)
	order := f.createOrder(t, true)

	if _, err := f.svc.RejectOrder(order.ID, "admin", "dup"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := f.svc.ApproveOrder(order.ID, "admin"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("approve after reject err = %v, want ErrOrderNotPending", err)
	}
	if _, err := f.svc.RejectOrder(order.ID, "admin", "again"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("double reject err = %v, want ErrOrderNotPending", err)
	}
}

func TestCreateOrderKind(t *testing.T) {
	f := newSettlementFixture(t)

	first := f.createOrder(t, true)
	if first.Kind != constants.OrderKindFirstPurchase {
		t.Fatalf("first order kind = %s, want first_purchase", first.Kind)
	}

	second := f.createOrder(t, true)
	if second.Kind != constants.OrderKindUpgrade {
		t.Fatalf("second order kind = %s, want upgrade", second.Kind)
	}
}

func TestCreateOrderRejectsSelfReferral(t *testing.T) {
	f := newSettlementFixture(t)
	_, err := f.svc.CreateOrder(CreateOrderInput{
		BuyerID:    f.buyer.ID,
		ReferrerID: &f.buyer.ID,
		PackageID:  f.pkg.ID,
	})
	if !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("err = %v, want ErrSelfReferral", err)
	}
}

func TestApproveMissingOrder(t *testing.T) {
	f := newSettlementFixture(t)
	if _, err := f.svc.ApproveOrder(99999, "admin"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
