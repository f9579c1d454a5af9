package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// PackageRepository 课程套餐数据访问接口
type PackageRepository interface {
	GetByID(id uint) (*models.Package, error)
	GetBySlug(slug string) (*models.Package, error)
	List(activeOnly bool) ([]models.Package, error)
	Create(pkg *models.Package) error
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) PackageRepository
}

// GormPackageRepository GORM 套餐仓储实现
type GormPackageRepository struct {
	db *gorm.DB
}

// NewPackageRepository 创建套餐仓储
func NewPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPackageRepository) WithTx(tx *gorm.DB) PackageRepository {
	if tx == nil {
		return r
	}
	return &GormPackageRepository{db: tx}
}

// GetByID 按ID获取套餐
func (r *GormPackageRepository) GetByID(id uint) (*models.Package, error) {
	if id == 0 {
		return nil, nil
	}
	var pkg models.Package
	if err := r.db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// GetBySlug 按标识获取套餐
func (r *GormPackageRepository) GetBySlug(slug string) (*models.Package, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var pkg models.Package
	if err := r.db.Where("slug = ?", slug).First(&pkg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pkg, nil
}

// List 获取套餐列表，按价格升序
func (r *GormPackageRepository) List(activeOnly bool) ([]models.Package, error) {
	query := r.db.Model(&models.Package{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var pkgs []models.Package
	if err := query.Order("price ASC").Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

// Create 创建套餐
func (r *GormPackageRepository) Create(pkg *models.Package) error {
	return r.db.Create(pkg).Error
}

// UpdateFields 更新套餐字段
func (r *GormPackageRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.Package{}).Where("id = ?", id).Updates(updates).Error
}
