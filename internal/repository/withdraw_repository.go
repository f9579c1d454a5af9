package repository

import (
	"errors"
	"strings"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WithdrawRepository 提现申请数据访问接口
type WithdrawRepository interface {
	GetByID(id uint) (*models.WithdrawRequest, error)
	GetByIDForUpdate(id uint) (*models.WithdrawRequest, error)
	List(filter WithdrawListFilter) ([]models.WithdrawRequest, int64, error)
	Create(withdraw *models.WithdrawRequest) error
	UpdateFields(id uint, updates map[string]interface{}) error
	CountByStatus(status string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) WithdrawRepository
}

// GormWithdrawRepository GORM 提现仓储实现
type GormWithdrawRepository struct {
	db *gorm.DB
}

// NewWithdrawRepository 创建提现仓储
func NewWithdrawRepository(db *gorm.DB) *GormWithdrawRepository {
	return &GormWithdrawRepository{db: db}
}

// WithTx 绑定事务
func (r *GormWithdrawRepository) WithTx(tx *gorm.DB) WithdrawRepository {
	if tx == nil {
		return r
	}
	return &GormWithdrawRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormWithdrawRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetByID 按ID获取提现申请
func (r *GormWithdrawRepository) GetByID(id uint) (*models.WithdrawRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var withdraw models.WithdrawRequest
	if err := r.db.First(&withdraw, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &withdraw, nil
}

// GetByIDForUpdate 加行锁获取提现申请
func (r *GormWithdrawRepository) GetByIDForUpdate(id uint) (*models.WithdrawRequest, error) {
	if id == 0 {
		return nil, nil
	}
	var withdraw models.WithdrawRequest
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&withdraw, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &withdraw, nil
}

// List 分页查询提现申请
func (r *GormWithdrawRepository) List(filter WithdrawListFilter) ([]models.WithdrawRequest, int64, error) {
	query := r.db.Model(&models.WithdrawRequest{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query.Order("id DESC"), filter.Page, filter.PageSize)
	var withdraws []models.WithdrawRequest
	if err := query.Find(&withdraws).Error; err != nil {
		return nil, 0, err
	}
	return withdraws, total, nil
}

// Create 创建提现申请
func (r *GormWithdrawRepository) Create(withdraw *models.WithdrawRequest) error {
	return r.db.Create(withdraw).Error
}

// UpdateFields 更新提现申请字段
func (r *GormWithdrawRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.WithdrawRequest{}).Where("id = ?", id).Updates(updates).Error
}

// CountByStatus 按状态统计提现申请数
func (r *GormWithdrawRepository) CountByStatus(status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.WithdrawRequest{})
	if strings.TrimSpace(status) != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
