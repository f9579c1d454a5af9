package service

import (
	"fmt"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

// LedgerService 收益台账服务。用户余额与窗口收益字段的唯一写入方：
// 入账、出账都在持有用户行锁的事务内完成，并同步追加台账流水。
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
}

// NewLedgerService 创建台账服务
func NewLedgerService(ledgerRepo repository.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// DayStart 当天零点
func DayStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// WeekStart 最近一个周日零点
func WeekStart(now time.Time) time.Time {
	day := DayStart(now)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// MonthStart 当月一号零点
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// windowStart 按窗口类型取起点，终身窗口返回 nil
func windowStart(window string, now time.Time) *time.Time {
	var start time.Time
	switch window {
	case constants.LeaderboardWindowDaily:
		start = DayStart(now)
	case constants.LeaderboardWindowWeekly:
		start = WeekStart(now)
	case constants.LeaderboardWindowMonthly:
		start = MonthStart(now)
	default:
		return nil
	}
	return &start
}

// RolloverWindows 窗口滚动：上次重置时间早于当前窗口起点时清零对应窗口。
// 纯函数，直接修改传入的用户对象，不触库。
func RolloverWindows(user *models.User, now time.Time) []string {
	if user == nil {
		return nil
	}
	var rolled []string

	dayStart := DayStart(now)
	if user.LastDailyReset == nil || user.LastDailyReset.Before(dayStart) {
		user.DailyEarnings = models.ZeroMoney()
		user.LastDailyReset = &dayStart
		rolled = append(rolled, constants.LeaderboardWindowDaily)
	}

	weekStart := WeekStart(now)
	if user.LastWeeklyReset == nil || user.LastWeeklyReset.Before(weekStart) {
		user.WeeklyEarnings = models.ZeroMoney()
		user.LastWeeklyReset = &weekStart
		rolled = append(rolled, constants.LeaderboardWindowWeekly)
	}

	monthStart := MonthStart(now)
	if user.LastMonthlyReset == nil || user.LastMonthlyReset.Before(monthStart) {
		user.MonthlyEarnings = models.ZeroMoney()
		user.LastMonthlyReset = &monthStart
		rolled = append(rolled, constants.LeaderboardWindowMonthly)
	}

	return rolled
}

// CreditInput 入账参数
type CreditInput struct {
	UserID     uint
	Amount     models.Money
	Type       string
	OrderID    *uint
	Product    string
	Reference  string
	Remark     string
	OccurredAt time.Time
}

// DebitInput 出账参数
type DebitInput struct {
	UserID     uint
	Amount     models.Money
	Type       string
	WithdrawID *uint
	Product    string
	Reference  string
	Remark     string
	OccurredAt time.Time
}

// Credit 入账：先滚动窗口，再累加余额、累计收益与各窗口收益，并追加流水。
// 应在外层事务内通过 WithTx 调用；金额必须为正。
func (s *LedgerService) Credit(tx *gorm.DB, input CreditInput) (*models.LedgerTransaction, error) {
	if !input.Amount.Decimal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	repo := s.ledgerRepo.WithTx(tx)

	user, err := repo.GetUserForUpdate(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock user %d: %w", input.UserID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := input.OccurredAt
	if now.IsZero() {
		now = time.Now()
	}
	if rolled := RolloverWindows(user, now); len(rolled) > 0 {
		logger.Debugw("收益窗口滚动", "user_id", user.ID, "windows", rolled)
	}

	before := user.Balance
	after := models.NewMoneyFromDecimal(before.Decimal.Add(input.Amount.Decimal))

	updates := map[string]interface{}{
		"balance":            after,
		"total_earnings":     models.NewMoneyFromDecimal(user.TotalEarnings.Decimal.Add(input.Amount.Decimal)),
		"daily_earnings":     models.NewMoneyFromDecimal(user.DailyEarnings.Decimal.Add(input.Amount.Decimal)),
		"weekly_earnings":    models.NewMoneyFromDecimal(user.WeeklyEarnings.Decimal.Add(input.Amount.Decimal)),
		"monthly_earnings":   models.NewMoneyFromDecimal(user.MonthlyEarnings.Decimal.Add(input.Amount.Decimal)),
		"last_daily_reset":   user.LastDailyReset,
		"last_weekly_reset":  user.LastWeeklyReset,
		"last_monthly_reset": user.LastMonthlyReset,
		"updated_at":         now,
	}
	if err := repo.UpdateUserLedgerFields(user.ID, updates); err != nil {
		return nil, fmt.Errorf("update ledger fields: %w", err)
	}

	txn := &models.LedgerTransaction{
		UserID:        user.ID,
		OrderID:       input.OrderID,
		Type:          input.Type,
		Direction:     constants.LedgerTxnDirectionIn,
		Amount:        input.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Product:       input.Product,
		Reference:     input.Reference,
		Remark:        input.Remark,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, fmt.Errorf("append ledger transaction: %w", err)
	}
	return txn, nil
}

// Debit 出账：仅扣减余额，不回退累计与窗口收益。余额不足返回 ErrInsufficientBalance。
func (s *LedgerService) Debit(tx *gorm.DB, input DebitInput) (*models.LedgerTransaction, error) {
	if !input.Amount.Decimal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	repo := s.ledgerRepo.WithTx(tx)

	user, err := repo.GetUserForUpdate(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock user %d: %w", input.UserID, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	before := user.Balance
	if before.Decimal.LessThan(input.Amount.Decimal) {
		return nil, ErrInsufficientBalance
	}
	after := models.NewMoneyFromDecimal(before.Decimal.Sub(input.Amount.Decimal))

	now := input.OccurredAt
	if now.IsZero() {
		now = time.Now()
	}
	err = repo.UpdateUserLedgerFields(user.ID, map[string]interface{}{
		"balance":    after,
		"updated_at": now,
	})
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	txn := &models.LedgerTransaction{
		UserID:        user.ID,
		WithdrawID:    input.WithdrawID,
		Type:          input.Type,
		Direction:     constants.LedgerTxnDirectionOut,
		Amount:        input.Amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Product:       input.Product,
		Reference:     input.Reference,
		Remark:        input.Remark,
	}
	if err := repo.CreateTransaction(txn); err != nil {
		return nil, fmt.Errorf("append ledger transaction: %w", err)
	}
	return txn, nil
}

// Transaction 暴露底层事务入口，供结算等跨仓储操作复用
func (s *LedgerService) Transaction(fn func(tx *gorm.DB) error) error {
	return s.ledgerRepo.Transaction(fn)
}

// ListTransactions 查询台账流水
func (s *LedgerService) ListTransactions(filter repository.LedgerTransactionListFilter) ([]models.LedgerTransaction, int64, error) {
	return s.ledgerRepo.ListTransactions(filter)
}
