package repository

import (
	"errors"
	"time"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// SpecialAccessRepository 专属分成配置数据访问接口
type SpecialAccessRepository interface {
	GetByID(id uint) (*models.SpecialAccess, error)
	ListActiveByUser(userID uint) ([]models.SpecialAccess, error)
	ListByUser(userID uint) ([]models.SpecialAccess, error)
	Create(access *models.SpecialAccess) error
	UpdateFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) SpecialAccessRepository
}

// GormSpecialAccessRepository GORM 专属分成仓储实现
type GormSpecialAccessRepository struct {
	db *gorm.DB
}

// NewSpecialAccessRepository 创建专属分成仓储
func NewSpecialAccessRepository(db *gorm.DB) *GormSpecialAccessRepository {
	return &GormSpecialAccessRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSpecialAccessRepository) WithTx(tx *gorm.DB) SpecialAccessRepository {
	if tx == nil {
		return r
	}
	return &GormSpecialAccessRepository{db: tx}
}

// GetByID 按ID获取配置
func (r *GormSpecialAccessRepository) GetByID(id uint) (*models.SpecialAccess, error) {
	if id == 0 {
		return nil, nil
	}
	var access models.SpecialAccess
	if err := r.db.First(&access, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &access, nil
}

// ListActiveByUser 获取用户当前生效的专属分成配置
func (r *GormSpecialAccessRepository) ListActiveByUser(userID uint) ([]models.SpecialAccess, error) {
	if userID == 0 {
		return []models.SpecialAccess{}, nil
	}
	var accesses []models.SpecialAccess
	err := r.db.Where("user_id = ? AND active = ?", userID, true).
		Order("id DESC").Find(&accesses).Error
	if err != nil {
		return nil, err
	}
	return accesses, nil
}

// ListByUser 获取用户全部专属分成配置
func (r *GormSpecialAccessRepository) ListByUser(userID uint) ([]models.SpecialAccess, error) {
	if userID == 0 {
		return []models.SpecialAccess{}, nil
	}
	var accesses []models.SpecialAccess
	if err := r.db.Where("user_id = ?", userID).Order("id DESC").Find(&accesses).Error; err != nil {
		return nil, err
	}
	return accesses, nil
}

// Create 创建配置
func (r *GormSpecialAccessRepository) Create(access *models.SpecialAccess) error {
	return r.db.Create(access).Error
}

// UpdateFields 更新配置字段
func (r *GormSpecialAccessRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now()
	}
	return r.db.Model(&models.SpecialAccess{}).Where("id = ?", id).Updates(updates).Error
}
