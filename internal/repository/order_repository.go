package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	GetByID(id uint) (*models.Order, error)
	GetByIDForUpdate(id uint) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	Create(order *models.Order) error
	// MarkSettledIfPending 条件更新：仅当订单仍处于待审核状态时写入终态。
	// 返回 true 表示本次更新生效，false 表示订单已被并发处理。
	MarkSettledIfPending(id uint, updates map[string]interface{}) (bool, error)
	ListCompletedWithReferrerSince(since *time.Time) ([]models.Order, error)
	CountByBuyer(buyerID uint) (int64, error)
	CountByStatus(status string) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 订单仓储实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 在事务中执行
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetByID 按ID获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByIDForUpdate 加行锁获取订单
func (r *GormOrderRepository) GetByIDForUpdate(id uint) (*models.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var order models.Order
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 按订单号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, nil
	}
	var order models.Order
	if err := r.db.Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 分页查询订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.BuyerID > 0 {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.ReferrerID > 0 {
		query = query.Where("referrer_id = ?", filter.ReferrerID)
	}
	if filter.PackageID > 0 {
		query = query.Where("package_id = ?", filter.PackageID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
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
	var orders []models.Order
	if err := query.Preload("Buyer").Preload("Referrer").Preload("Package").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Create 创建订单
func (r *GormOrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// MarkSettledIfPending 以状态条件更新订单终态
func (r *GormOrderRepository) MarkSettledIfPending(id uint, updates map[string]interface{}) (bool, error) {
	if id == 0 || len(updates) == 0 {
		return false, nil
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, constants.OrderStatusPendingApproval).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListCompletedWithReferrerSince 获取窗口内带推荐人的已结算订单，用于收益兜底推导
func (r *GormOrderRepository) ListCompletedWithReferrerSince(since *time.Time) ([]models.Order, error) {
	query := r.db.Model(&models.Order{}).
		Where("status = ? AND referrer_id IS NOT NULL", constants.OrderStatusCompleted)
	if since != nil {
		query = query.Where("settled_at >= ?", *since)
	}
	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByBuyer 统计买家订单数
func (r *GormOrderRepository) CountByBuyer(buyerID uint) (int64, error) {
	if buyerID == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&models.Order{}).Where("buyer_id = ?", buyerID).Count(&count).Error
	return count, err
}

// CountByStatus 按状态统计订单数
func (r *GormOrderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Order{})
	if strings.TrimSpace(status) != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}
