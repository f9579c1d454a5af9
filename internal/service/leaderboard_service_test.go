package service

import (
	"context"
	"testing"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

func newLeaderboardService(db *gorm.DB) *LeaderboardService {
	return NewLeaderboardService(
		repository.NewEarningEventRepository(db),
		repository.NewOrderRepository(db),
		repository.NewUserRepository(db),
		repository.NewPackageRepository(db),
		repository.NewSpecialAccessRepository(db),
		repository.NewWithdrawRepository(db),
		repository.NewDashboardRepository(db),
		60,
	)
}

func createEarningEvent(t *testing.T, db *gorm.DB, orderID, userID uint, amount int64, at time.Time) {
	t.Helper()
	event := &models.EarningEvent{
		OrderID:   orderID,
		EventType: constants.EarningEventTypeCommission,
		UserID:    userID,
		BuyerID:   userID + 1000,
		PackageID: 1,
		Amount:    models.NewMoneyFromInt(amount),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := db.Model(event).Update("created_at", at).Error; err != nil {
		t.Fatalf("set event time: %v", err)
	}
}

func TestTopEarnersSortsByAmountDesc(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")
	now := time.Now()

	createEarningEvent(t, db, 1, a.ID, 100, now)
	createEarningEvent(t, db, 2, b.ID, 300, now)
	createEarningEvent(t, db, 3, a.ID, 100, now)

	svc := newLeaderboardService(db)
	entries, err := svc.TopEarners(context.Background(), constants.LeaderboardWindowMonthly, 10)
	if err != nil {
		t.Fatalf("top earners: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].UserID != b.ID || entries[0].Rank != 1 {
		t.Fatalf("first = user %d rank %d, want user %d rank 1", entries[0].UserID, entries[0].Rank, b.ID)
	}
	if got := entries[0].Total.String(); got != "300.00" {
		t.Fatalf("first total = %s, want 300.00", got)
	}
	if entries[1].UserID != a.ID || entries[1].Total.String() != "200.00" {
		t.Fatalf("second = user %d total %s", entries[1].UserID, entries[1].Total)
	}
	if entries[0].Derived {
		t.Fatal("event-backed entries must not be flagged derived")
	}
}

func TestTopEarnersTieBreaksByUserID(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")
	now := time.Now()

	createEarningEvent(t, db, 1, b.ID, 500, now)
	createEarningEvent(t, db, 2, a.ID, 500, now)

	svc := newLeaderboardService(db)
	entries, err := svc.TopEarners(context.Background(), constants.LeaderboardWindowMonthly, 10)
	if err != nil {
		t.Fatalf("top earners: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// 金额相同按用户ID升序
	if entries[0].UserID != a.ID || entries[1].UserID != b.ID {
		t.Fatalf("order = [%d %d], want [%d %d]", entries[0].UserID, entries[1].UserID, a.ID, b.ID)
	}
}

func TestTopEarnersFiltersByWindow(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	now := time.Now()

	createEarningEvent(t, db, 1, a.ID, 100, now)
	createEarningEvent(t, db, 2, a.ID, 900, now.AddDate(0, -2, 0))

	svc := newLeaderboardService(db)
	entries, err := svc.TopEarners(context.Background(), constants.LeaderboardWindowMonthly, 10)
	if err != nil {
		t.Fatalf("top earners: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].Total.String(); got != "100.00" {
		t.Fatalf("monthly total = %s, want 100.00 (old event excluded)", got)
	}
}

func TestTopEarnersDerivedFallback(t *testing.T) {
	db := newTestDB(t)
	buyer := createTestUser(t, db, "buyer@example.com")
	referrer := createTestUser(t, db, "ref@example.com")
	pkg := createTestPackage(t, db, "pro", 10000, 58)

	// 只有已结算订单，没有事件流水：走推导兜底
	now := time.Now()
	order := &models.Order{
		OrderNo:    "CP1",
		BuyerID:    buyer.ID,
		ReferrerID: &referrer.ID,
		PackageID:  pkg.ID,
		Kind:       constants.OrderKindFirstPurchase,
		Status:     constants.OrderStatusCompleted,
		SettledAt:  &now,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	svc := newLeaderboardService(db)
	entries, err := svc.TopEarners(context.Background(), constants.LeaderboardWindowLifetime, 10)
	if err != nil {
		t.Fatalf("top earners: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if !entries[0].Derived {
		t.Fatal("fallback entries must be flagged derived")
	}
	if got := entries[0].Total.String(); got != "5800.00" {
		t.Fatalf("derived total = %s, want 5800.00", got)
	}
}

func TestLifetimeUsesStoredTotalEarnings(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	if err := db.Model(&models.User{}).Where("id = ?", a.ID).
		Update("total_earnings", models.NewMoneyFromInt(7777)).Error; err != nil {
		t.Fatalf("seed total earnings: %v", err)
	}
	createEarningEvent(t, db, 1, a.ID, 100, time.Now())

	svc := newLeaderboardService(db)
	entries, err := svc.TopEarners(context.Background(), constants.LeaderboardWindowLifetime, 10)
	if err != nil {
		t.Fatalf("top earners: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if got := entries[0].Total.String(); got != "7777.00" {
		t.Fatalf("lifetime total = %s, want stored 7777.00", got)
	}
}

func TestGetPlatformOverview(t *testing.T) {
	db := newTestDB(t)
	a := createTestUser(t, db, "a@example.com")
	b := createTestUser(t, db, "b@example.com")
	if err := db.Model(&models.User{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"balance":        models.NewMoneyFromInt(100),
		"total_earnings": models.NewMoneyFromInt(300),
	}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", b.ID).
		Update("status", constants.UserStatusPending).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := newLeaderboardService(db)
	overview, err := svc.GetPlatformOverview()
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if got := overview.TotalBalance.String(); got != "100.00" {
		t.Fatalf("total balance = %s, want 100.00", got)
	}
	if got := overview.TotalEarnings.String(); got != "300.00" {
		t.Fatalf("total earnings = %s, want 300.00", got)
	}
	if overview.ActiveUsers != 1 {
		t.Fatalf("active users = %d, want 1", overview.ActiveUsers)
	}
	if overview.TotalUsers != 2 {
		t.Fatalf("total users = %d, want 2", overview.TotalUsers)
	}
}
