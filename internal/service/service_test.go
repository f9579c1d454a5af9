package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/courseplex-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBSeq int64

// newTestDB 每个用例独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.Admin{},
		&models.AuthzAuditLog{},
		&models.User{},
		&models.Package{},
		&models.SpecialAccess{},
		&models.Order{},
		&models.EarningEvent{},
		&models.LedgerTransaction{},
		&models.WithdrawRequest{},
		&models.ReferralInvite{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:       email,
		DisplayName: email,
		Status:      "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}

func createTestPackage(t *testing.T, db *gorm.DB, slug string, price, percent int64) *models.Package {
	t.Helper()
	pkg := &models.Package{
		Name:              slug,
		Slug:              slug,
		Price:             models.NewMoneyFromInt(price),
		CommissionPercent: models.NewMoneyFromInt(percent),
		Active:            true,
	}
	if err := db.Create(pkg).Error; err != nil {
		t.Fatalf("create test package: %v", err)
	}
	return pkg
}
