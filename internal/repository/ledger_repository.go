package repository

import (
	"errors"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository 收益台账数据访问接口
// 说明：用户余额与窗口收益字段的唯一写入入口。所有写操作都应在事务内、
// 持有用户行锁的前提下进行。
type LedgerRepository interface {
	GetUserForUpdate(id uint) (*models.User, error)
	UpdateUserLedgerFields(id uint, updates map[string]interface{}) error
	CreateTransaction(txn *models.LedgerTransaction) error
	ListTransactions(filter LedgerTransactionListFilter) ([]models.LedgerTransaction, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) LedgerRepository
}

// GormLedgerRepository GORM 台账仓储实现
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository 创建台账仓储
func NewLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// WithTx 绑定事务
func (r *GormLedgerRepository) WithTx(tx *gorm.DB) LedgerRepository {
	if tx == nil {
		return r
	}
	return &GormLedgerRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormLedgerRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetUserForUpdate 加行锁获取用户，用于余额变更
func (r *GormLedgerRepository) GetUserForUpdate(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUserLedgerFields 更新用户余额及窗口收益字段
func (r *GormLedgerRepository) UpdateUserLedgerFields(id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// CreateTransaction 追加一条台账流水
func (r *GormLedgerRepository) CreateTransaction(txn *models.LedgerTransaction) error {
	return r.db.Create(txn).Error
}

// ListTransactions 分页查询台账流水
func (r *GormLedgerRepository) ListTransactions(filter LedgerTransactionListFilter) ([]models.LedgerTransaction, int64, error) {
	query := r.db.Model(&models.LedgerTransaction{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Direction != "" {
		query = query.Where("direction = ?", filter.Direction)
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
	var txns []models.LedgerTransaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}
