package service

import (
	"errors"
	"testing"

	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (*CatalogService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewCatalogService(
		repository.NewPackageRepository(db),
		repository.NewSpecialAccessRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestGrantSpecialAccessRecordsOperator(t *testing.T) {
	svc, db := newCatalogService(t)
	user := createTestUser(t, db, "vip@example.com")
	pkg := createTestPackage(t, db, "pro", 10000, 58)

	pkgID := pkg.ID
	access, err := svc.GrantSpecialAccess(GrantSpecialAccessInput{
		UserID:            user.ID,
		PackageID:         &pkgID,
		CommissionPercent: models.NewMoneyFromInt(70),
		GrantedBy:         " admin ",
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if access.GrantedBy != "admin" {
		t.Fatalf("granted_by = %q, want admin", access.GrantedBy)
	}
	if !access.Active {
		t.Fatal("access should be active after grant")
	}

	var stored models.SpecialAccess
	if err := db.First(&stored, access.ID).Error; err != nil {
		t.Fatalf("reload access: %v", err)
	}
	if stored.GrantedBy != "admin" {
		t.Fatalf("stored granted_by = %q, want admin", stored.GrantedBy)
	}
}

func TestGrantSpecialAccessUnknownUser(t *testing.T) {
	svc, _ := newCatalogService(t)
	_, err := svc.GrantSpecialAccess(GrantSpecialAccessInput{
		UserID:            999,
		CommissionPercent: models.NewMoneyFromInt(70),
		GrantedBy:         "admin",
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
