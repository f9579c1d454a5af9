package router

import (
	"fmt"
	"strings"

	"github.com/courseplex-next/internal/cache"
	"github.com/courseplex-next/internal/config"
	adminhandlers "github.com/courseplex-next/internal/http/handlers/admin"
	publichandlers "github.com/courseplex-next/internal/http/handlers/public"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "cp"
	}
	redisClient := cache.Client()
	registerRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:register", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 公开接口
		public := apiV1.Group("/public")
		{
			public.GET("/packages", publicHandler.GetPackages)
			public.GET("/packages/:slug", publicHandler.GetPackageBySlug)
			public.GET("/leaderboard", publicHandler.GetLeaderboard)
			public.POST("/register", RateLimitMiddleware(redisClient, registerRule, KeyByIPAndJSONField("email")), publicHandler.Register)
			public.POST("/orders", publicHandler.CreateOrder)
			public.GET("/orders/by-order-no/:order_no", publicHandler.GetOrderByOrderNo)
			public.POST("/withdraws", publicHandler.ApplyWithdraw)
			public.GET("/users/:id/summary", publicHandler.GetUserSummary)
			public.GET("/users/:id/invites", publicHandler.GetUserInvites)
			public.GET("/users/:id/withdraws", publicHandler.GetUserWithdraws)
			public.GET("/users/:id/transactions", publicHandler.GetUserTransactions)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)

			// 需要鉴权的接口
			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.UpdateAdminPassword)
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)

				// 仪表盘
				authorized.GET("/dashboard/overview", adminHandler.GetDashboardOverview)
				authorized.GET("/dashboard/rankings", adminHandler.GetDashboardRankings)

				// 订单结算
				authorized.GET("/orders", adminHandler.AdminListOrders)
				authorized.GET("/orders/:id", adminHandler.AdminGetOrder)
				authorized.POST("/orders/:id/approve", adminHandler.AdminApproveOrder)
				authorized.POST("/orders/:id/reject", adminHandler.AdminRejectOrder)

				// 提现审核
				authorized.GET("/withdraws", adminHandler.AdminListWithdraws)
				authorized.GET("/withdraws/:id", adminHandler.AdminGetWithdraw)
				authorized.POST("/withdraws/:id/review", adminHandler.AdminReviewWithdraw)

				// 套餐与专属分成
				authorized.GET("/packages", adminHandler.AdminListPackages)
				authorized.POST("/packages", adminHandler.AdminCreatePackage)
				authorized.GET("/packages/:id", adminHandler.AdminGetPackage)
				authorized.PUT("/packages/:id", adminHandler.AdminUpdatePackage)
				authorized.GET("/special-access", adminHandler.AdminListSpecialAccess)
				authorized.POST("/special-access", adminHandler.AdminGrantSpecialAccess)
				authorized.DELETE("/special-access/:id", adminHandler.AdminRevokeSpecialAccess)

				// 用户管理
				authorized.GET("/users", adminHandler.AdminListUsers)
				authorized.GET("/users/:id", adminHandler.AdminGetUser)
				authorized.PUT("/users/:id/status", adminHandler.AdminUpdateUserStatus)

				// 台账与收益事件
				authorized.GET("/ledger/transactions", adminHandler.AdminListLedgerTransactions)
				authorized.GET("/earning-events", adminHandler.AdminListEarningEvents)

				// 权限管理
				authorized.POST("/authz/roles", adminHandler.AdminCreateAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.AdminGetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.AdminGrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.AdminRevokeAuthzPolicy)
				authorized.GET("/authz/admins/:id/roles", adminHandler.AdminGetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.AdminSetAuthzAdminRoles)
				authorized.GET("/authz/audit-logs", adminHandler.AdminListAuthzAuditLogs)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
