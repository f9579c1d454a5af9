package service

import (
	"strings"

	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"
)

// CatalogService 套餐目录与专属分成配置服务
type CatalogService struct {
	packageRepo repository.PackageRepository
	accessRepo  repository.SpecialAccessRepository
	userRepo    repository.UserRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(packageRepo repository.PackageRepository,
	accessRepo repository.SpecialAccessRepository, userRepo repository.UserRepository) *CatalogService {
	return &CatalogService{
		packageRepo: packageRepo,
		accessRepo:  accessRepo,
		userRepo:    userRepo,
	}
}

// GetPackage 查询套餐
func (s *CatalogService) GetPackage(id uint) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// GetPackageBySlug 按 slug 查询套餐
func (s *CatalogService) GetPackageBySlug(slug string) (*models.Package, error) {
	pkg, err := s.packageRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	return pkg, nil
}

// ListPackages 套餐列表
func (s *CatalogService) ListPackages(activeOnly bool) ([]models.Package, error) {
	return s.packageRepo.List(activeOnly)
}

// CreatePackageInput 创建套餐参数
type CreatePackageInput struct {
	Name              string
	Slug              string
	Price             models.Money
	CommissionPercent models.Money
	Active            bool
}

// CreatePackage 创建套餐
func (s *CatalogService) CreatePackage(input CreatePackageInput) (*models.Package, error) {
	if input.Price.Decimal.IsNegative() {
		return nil, ErrInvalidAmount
	}
	slug := strings.TrimSpace(input.Slug)
	existing, err := s.packageRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateSlug
	}

	pkg := &models.Package{
		Name:              strings.TrimSpace(input.Name),
		Slug:              slug,
		Price:             input.Price,
		CommissionPercent: input.CommissionPercent,
		Active:            input.Active,
	}
	if err := s.packageRepo.Create(pkg); err != nil {
		return nil, err
	}
	logger.Infow("套餐创建", "slug", pkg.Slug, "price", pkg.Price.String())
	return pkg, nil
}

// UpdatePackage 更新套餐字段
func (s *CatalogService) UpdatePackage(id uint, updates map[string]interface{}) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	if err := s.packageRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	return s.packageRepo.GetByID(id)
}

// GrantSpecialAccessInput 授予专属分成参数
type GrantSpecialAccessInput struct {
	UserID            uint
	PackageID         *uint // nil 表示对全部套餐生效
	CommissionPercent models.Money
	GrantedBy         string
}

// GrantSpecialAccess 授予用户专属分成比例
func (s *CatalogService) GrantSpecialAccess(input GrantSpecialAccessInput) (*models.SpecialAccess, error) {
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if input.PackageID != nil {
		pkg, err := s.packageRepo.GetByID(*input.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, ErrPackageNotFound
		}
	}

	access := &models.SpecialAccess{
		UserID:            input.UserID,
		PackageID:         input.PackageID,
		CommissionPercent: input.CommissionPercent,
		Active:            true,
		GrantedBy:         strings.TrimSpace(input.GrantedBy),
	}
	if err := s.accessRepo.Create(access); err != nil {
		return nil, err
	}
	logger.Infow("专属分成授予",
		"user_id", access.UserID,
		"percent", access.CommissionPercent.String(),
		"granted_by", access.GrantedBy)
	return access, nil
}

// RevokeSpecialAccess 停用专属分成配置
func (s *CatalogService) RevokeSpecialAccess(id uint) error {
	access, err := s.accessRepo.GetByID(id)
	if err != nil {
		return err
	}
	if access == nil {
		return ErrNotFound
	}
	return s.accessRepo.UpdateFields(id, map[string]interface{}{"active": false})
}

// ListSpecialAccess 查询用户的专属分成配置
func (s *CatalogService) ListSpecialAccess(userID uint) ([]models.SpecialAccess, error) {
	return s.accessRepo.ListByUser(userID)
}
