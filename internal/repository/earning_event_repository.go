package repository

import (
	"errors"
	"time"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// EarnerTotal 收益聚合结果，按用户汇总
type EarnerTotal struct {
	UserID uint   `json:"user_id"`
	Total  string `json:"total" gorm:"column:total"`
	Count  int64  `json:"count" gorm:"column:count"`
}

// EarningEventRepository 收益事件数据访问接口，事件只增不改
type EarningEventRepository interface {
	Create(event *models.EarningEvent) error
	GetByOrderAndType(orderID uint, eventType string) (*models.EarningEvent, error)
	List(filter EarningEventListFilter) ([]models.EarningEvent, int64, error)
	// TopEarnersSince 按窗口起点聚合各用户佣金收益，按金额降序
	TopEarnersSince(eventType string, since *time.Time, limit int) ([]EarnerTotal, error)
	SumByUserSince(userID uint, eventType string, since *time.Time) (string, error)
	WithTx(tx *gorm.DB) EarningEventRepository
}

// GormEarningEventRepository GORM 收益事件仓储实现
type GormEarningEventRepository struct {
	db *gorm.DB
}

// NewEarningEventRepository 创建收益事件仓储
func NewEarningEventRepository(db *gorm.DB) *GormEarningEventRepository {
	return &GormEarningEventRepository{db: db}
}

// WithTx 绑定事务
func (r *GormEarningEventRepository) WithTx(tx *gorm.DB) EarningEventRepository {
	if tx == nil {
		return r
	}
	return &GormEarningEventRepository{db: tx}
}

// Create 追加收益事件
func (r *GormEarningEventRepository) Create(event *models.EarningEvent) error {
	return r.db.Create(event).Error
}

// GetByOrderAndType 按订单与事件类型获取事件，用于幂等校验
func (r *GormEarningEventRepository) GetByOrderAndType(orderID uint, eventType string) (*models.EarningEvent, error) {
	if orderID == 0 || eventType == "" {
		return nil, nil
	}
	var event models.EarningEvent
	err := r.db.Where("order_id = ? AND event_type = ?", orderID, eventType).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// List 分页查询收益事件
func (r *GormEarningEventRepository) List(filter EarningEventListFilter) ([]models.EarningEvent, int64, error) {
	query := r.db.Model(&models.EarningEvent{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
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
	var events []models.EarningEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// TopEarnersSince 聚合窗口内各用户收益
func (r *GormEarningEventRepository) TopEarnersSince(eventType string, since *time.Time, limit int) ([]EarnerTotal, error) {
	if limit <= 0 {
		limit = 10
	}
	query := r.db.Model(&models.EarningEvent{}).
		Select("user_id, SUM(amount) AS total, COUNT(*) AS count").
		Group("user_id").
		Order("total DESC, user_id ASC").
		Limit(limit)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var rows []EarnerTotal
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumByUserSince 统计单个用户窗口内收益
func (r *GormEarningEventRepository) SumByUserSince(userID uint, eventType string, since *time.Time) (string, error) {
	if userID == 0 {
		return "0", nil
	}
	query := r.db.Model(&models.EarningEvent{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	var sum string
	if err := query.Scan(&sum).Error; err != nil {
		return "0", err
	}
	if sum == "" {
		sum = "0"
	}
	return sum, nil
}
