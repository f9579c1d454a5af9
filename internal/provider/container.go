package provider

import (
	"github.com/courseplex-next/internal/authz"
	"github.com/courseplex-next/internal/cache"
	"github.com/courseplex-next/internal/config"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/queue"
	"github.com/courseplex-next/internal/repository"
	"github.com/courseplex-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	UserRepo          repository.UserRepository
	PackageRepo       repository.PackageRepository
	SpecialAccessRepo repository.SpecialAccessRepository
	OrderRepo         repository.OrderRepository
	EarningEventRepo  repository.EarningEventRepository
	LedgerRepo        repository.LedgerRepository
	WithdrawRepo      repository.WithdrawRepository
	InviteRepo        repository.ReferralInviteRepository
	AuthzAuditLogRepo repository.AuthzAuditLogRepository
	DashboardRepo     repository.DashboardRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	EmailService        *service.EmailService
	NotificationService *service.NotificationService
	LedgerService       *service.LedgerService
	SettlementService   *service.SettlementService
	WithdrawService     *service.WithdrawService
	LeaderboardService  *service.LeaderboardService
	CatalogService      *service.CatalogService
	UserService         *service.UserService
	AuthzAuditService   *service.AuthzAuditService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.PackageRepo = repository.NewPackageRepository(db)
	c.SpecialAccessRepo = repository.NewSpecialAccessRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.EarningEventRepo = repository.NewEarningEventRepository(db)
	c.LedgerRepo = repository.NewLedgerRepository(db)
	c.WithdrawRepo = repository.NewWithdrawRepository(db)
	c.InviteRepo = repository.NewReferralInviteRepository(db)
	c.AuthzAuditLogRepo = repository.NewAuthzAuditLogRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.NotificationService = service.NewNotificationService(
		c.QueueClient, c.EmailService, c.UserRepo, c.Config.Settlement.NotifyEnabled)
	c.LedgerService = service.NewLedgerService(c.LedgerRepo)
	c.SettlementService = service.NewSettlementService(
		c.OrderRepo, c.UserRepo, c.PackageRepo, c.SpecialAccessRepo,
		c.EarningEventRepo, c.InviteRepo, c.LedgerService, c.NotificationService)
	c.WithdrawService = service.NewWithdrawService(
		c.WithdrawRepo, c.UserRepo, c.LedgerService, c.NotificationService)
	c.LeaderboardService = service.NewLeaderboardService(
		c.EarningEventRepo, c.OrderRepo, c.UserRepo, c.PackageRepo,
		c.SpecialAccessRepo, c.WithdrawRepo, c.DashboardRepo,
		c.Config.Settlement.LeaderboardCacheSeconds)
	c.CatalogService = service.NewCatalogService(c.PackageRepo, c.SpecialAccessRepo, c.UserRepo)
	c.UserService = service.NewUserService(c.UserRepo, c.InviteRepo)
	c.AuthzAuditService = service.NewAuthzAuditService(c.AuthzAuditLogRepo)
}

// Close 释放容器持有的外部资源
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_client_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
