package service

import (
	"context"
	"sort"
	"time"

	"github.com/courseplex-next/internal/cache"
	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"github.com/shopspring/decimal"
)

// DefaultLeaderboardLimit 排行榜默认条数
const DefaultLeaderboardLimit = 10

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank        int          `json:"rank"`
	UserID      uint         `json:"user_id"`
	DisplayName string       `json:"display_name"`
	Total       models.Money `json:"total"`
	Orders      int64        `json:"orders"`
	// Derived 为 true 表示金额由订单按当前比例推导，非入账时的权威数值
	Derived bool `json:"derived"`
}

// PlatformOverview 平台总览
type PlatformOverview struct {
	TotalEarnings    models.Money `json:"total_earnings"`
	TotalBalance     models.Money `json:"total_balance"`
	TotalCommission  models.Money `json:"total_commission"`
	TotalCashback    models.Money `json:"total_cashback"`
	TotalWithdrawn   models.Money `json:"total_withdrawn"`
	ActiveUsers      int64        `json:"active_users"`
	TotalUsers       int64        `json:"total_users"`
	PendingOrders    int64        `json:"pending_orders"`
	CompletedOrders  int64        `json:"completed_orders"`
	PendingWithdraws int64        `json:"pending_withdraws"`
}

// LeaderboardService 收益排行与平台总览服务，纯读侧计算
type LeaderboardService struct {
	eventRepo     repository.EarningEventRepository
	orderRepo     repository.OrderRepository
	userRepo      repository.UserRepository
	packageRepo   repository.PackageRepository
	accessRepo    repository.SpecialAccessRepository
	withdrawRepo  repository.WithdrawRepository
	dashboardRepo repository.DashboardRepository
	cacheTTL      time.Duration
}

// NewLeaderboardService 创建排行榜服务
func NewLeaderboardService(
	eventRepo repository.EarningEventRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	packageRepo repository.PackageRepository,
	accessRepo repository.SpecialAccessRepository,
	withdrawRepo repository.WithdrawRepository,
	dashboardRepo repository.DashboardRepository,
	cacheSeconds int,
) *LeaderboardService {
	ttl := time.Duration(cacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LeaderboardService{
		eventRepo:     eventRepo,
		orderRepo:     orderRepo,
		userRepo:      userRepo,
		packageRepo:   packageRepo,
		accessRepo:    accessRepo,
		withdrawRepo:  withdrawRepo,
		dashboardRepo: dashboardRepo,
		cacheTTL:      ttl,
	}
}

// TopEarners 按窗口汇总佣金收益排行。
// 优先读收益事件流水；事件为空时按已结算订单以当前比例推导并打 Derived 标记。
// 终身窗口直接读用户累计收益字段。
func (s *LeaderboardService) TopEarners(ctx context.Context, window string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	if cached, hit, err := cache.GetLeaderboard(ctx, window, limit); err == nil && hit {
		return fromCachedEntries(cached), nil
	}

	var entries []LeaderboardEntry
	var err error
	if window == constants.LeaderboardWindowLifetime {
		entries, err = s.lifetimeEntries(limit)
	} else {
		entries, err = s.windowEntries(window, limit)
	}
	if err != nil {
		return nil, err
	}

	if err := cache.SetLeaderboard(ctx, window, limit, toCachedEntries(entries), s.cacheTTL); err != nil {
		logger.Warnw("leaderboard_cache_write_failed", "window", window, "error", err)
	}
	return entries, nil
}

func (s *LeaderboardService) windowEntries(window string, limit int) ([]LeaderboardEntry, error) {
	since := windowStart(window, time.Now())

	rows, err := s.eventRepo.TopEarnersSince(constants.EarningEventTypeCommission, since, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return s.decorate(rows, false)
	}

	// 事件流水为空：按当前比例从已结算订单推导，结果标记为 Derived
	derived, err := s.deriveFromOrders(since, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(derived, true)
}

func (s *LeaderboardService) lifetimeEntries(limit int) ([]LeaderboardEntry, error) {
	rows, err := s.eventRepo.TopEarnersSince(constants.EarningEventTypeCommission, nil, limit)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		derived, err := s.deriveFromOrders(nil, limit)
		if err != nil {
			return nil, err
		}
		return s.decorate(derived, true)
	}

	// 终身榜单金额走用户累计收益字段，事件聚合只用于选人
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	userByID := make(map[uint]models.User, len(users))
	for _, u := range users {
		userByID[u.ID] = u
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry := LeaderboardEntry{
			UserID: row.UserID,
			Orders: row.Count,
			Total:  models.NewMoneyFromString(row.Total),
		}
		if u, ok := userByID[row.UserID]; ok {
			entry.DisplayName = u.DisplayName
			entry.Total = u.TotalEarnings
		}
		entries = append(entries, entry)
	}
	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// deriveFromOrders 无事件流水时的兜底：按当前生效比例重算各推荐人收益
func (s *LeaderboardService) deriveFromOrders(since *time.Time, limit int) ([]repository.EarnerTotal, error) {
	orders, err := s.orderRepo.ListCompletedWithReferrerSince(since)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}

	pkgCache := map[uint]*models.Package{}
	overrideCache := map[uint][]models.SpecialAccess{}
	totals := map[uint]decimal.Decimal{}
	counts := map[uint]int64{}

	for _, order := range orders {
		referrerID := *order.ReferrerID
		pkg, ok := pkgCache[order.PackageID]
		if !ok {
			pkg, err = s.packageRepo.GetByID(order.PackageID)
			if err != nil {
				return nil, err
			}
			pkgCache[order.PackageID] = pkg
		}
		if pkg == nil {
			continue
		}
		overrides, ok := overrideCache[referrerID]
		if !ok {
			overrides, err = s.accessRepo.ListActiveByUser(referrerID)
			if err != nil {
				return nil, err
			}
			overrideCache[referrerID] = overrides
		}
		percent, _ := EffectiveCommissionPercent(overrides, pkg)
		result := CalculateCommission(pkg.Price, percent, true)
		totals[referrerID] = totals[referrerID].Add(result.Commission.Decimal)
		counts[referrerID]++
	}

	rows := make([]repository.EarnerTotal, 0, len(totals))
	for userID, total := range totals {
		rows = append(rows, repository.EarnerTotal{
			UserID: userID,
			Total:  total.StringFixed(2),
			Count:  counts[userID],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		ti := models.NewMoneyFromString(rows[i].Total).Decimal
		tj := models.NewMoneyFromString(rows[j].Total).Decimal
		if !ti.Equal(tj) {
			return ti.GreaterThan(tj)
		}
		return rows[i].UserID < rows[j].UserID
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// decorate 回填用户昵称并定序
func (s *LeaderboardService) decorate(rows []repository.EarnerTotal, derived bool) ([]LeaderboardEntry, error) {
	if len(rows) == 0 {
		return []LeaderboardEntry{}, nil
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	users, err := s.userRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[uint]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.DisplayName
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			UserID:      row.UserID,
			DisplayName: nameByID[row.UserID],
			Total:       models.NewMoneyFromString(row.Total),
			Orders:      row.Count,
			Derived:     derived,
		})
	}
	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// sortEntries 金额降序，金额相同按用户ID升序保证确定性
func sortEntries(entries []LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Total.Decimal.Equal(entries[j].Total.Decimal) {
			return entries[i].Total.Decimal.GreaterThan(entries[j].Total.Decimal)
		}
		return entries[i].UserID < entries[j].UserID
	})
}

func toCachedEntries(entries []LeaderboardEntry) []cache.LeaderboardEntry {
	cached := make([]cache.LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		cached = append(cached, cache.LeaderboardEntry{
			Rank:        e.Rank,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			Total:       e.Total.String(),
			Orders:      e.Orders,
			Derived:     e.Derived,
		})
	}
	return cached
}

func fromCachedEntries(cached []cache.LeaderboardEntry) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(cached))
	for _, e := range cached {
		entries = append(entries, LeaderboardEntry{
			Rank:        e.Rank,
			UserID:      e.UserID,
			DisplayName: e.DisplayName,
			Total:       models.NewMoneyFromString(e.Total),
			Orders:      e.Orders,
			Derived:     e.Derived,
		})
	}
	return entries
}

// GetPlatformOverview 平台总览：余额、累计收益、订单与提现计数
func (s *LeaderboardService) GetPlatformOverview() (*PlatformOverview, error) {
	totals, err := s.dashboardRepo.GetPlatformTotals()
	if err != nil {
		return nil, err
	}
	overview := &PlatformOverview{
		TotalBalance:    models.NewMoneyFromString(totals.TotalBalance),
		TotalEarnings:   models.NewMoneyFromString(totals.TotalEarnings),
		TotalCommission: models.NewMoneyFromString(totals.TotalCommission),
		TotalCashback:   models.NewMoneyFromString(totals.TotalCashback),
		TotalWithdrawn:  models.NewMoneyFromString(totals.TotalWithdrawn),
	}

	if overview.ActiveUsers, err = s.userRepo.CountByStatus(constants.UserStatusActive); err != nil {
		return nil, err
	}
	if overview.TotalUsers, err = s.userRepo.CountByStatus(""); err != nil {
		return nil, err
	}
	if overview.PendingOrders, err = s.orderRepo.CountByStatus(constants.OrderStatusPendingApproval); err != nil {
		return nil, err
	}
	if overview.CompletedOrders, err = s.orderRepo.CountByStatus(constants.OrderStatusCompleted); err != nil {
		return nil, err
	}
	if overview.PendingWithdraws, err = s.withdrawRepo.CountByStatus(constants.WithdrawStatusPending); err != nil {
		return nil, err
	}
	return overview, nil
}

// UserEarningsSummary 单个用户的收益概览
type UserEarningsSummary struct {
	UserID          uint         `json:"user_id"`
	Balance         models.Money `json:"balance"`
	TotalEarnings   models.Money `json:"total_earnings"`
	DailyEarnings   models.Money `json:"daily_earnings"`
	WeeklyEarnings  models.Money `json:"weekly_earnings"`
	MonthlyEarnings models.Money `json:"monthly_earnings"`
}

// GetUserSummary 读取用户收益概览。
// 读侧视图：窗口字段若已跨期，按滚动语义显示为零但不回写。
func (s *LeaderboardService) GetUserSummary(userID uint) (*UserEarningsSummary, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	view := *user
	RolloverWindows(&view, time.Now())
	return &UserEarningsSummary{
		UserID:          user.ID,
		Balance:         user.Balance,
		TotalEarnings:   user.TotalEarnings,
		DailyEarnings:   view.DailyEarnings,
		WeeklyEarnings:  view.WeeklyEarnings,
		MonthlyEarnings: view.MonthlyEarnings,
	}, nil
}
