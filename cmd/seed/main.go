package main

import (
	"github.com/courseplex-next/internal/config"
	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 默认管理员
	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 课程套餐
	packages := []models.Package{
		{
			Name:              "入门套餐",
			Slug:              "starter",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(3000)),
			CommissionPercent: models.NewMoneyFromInt(constants.DefaultCommissionPercent),
			Active:            true,
		},
		{
			Name:              "进阶套餐",
			Slug:              "advanced",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(6800)),
			CommissionPercent: models.NewMoneyFromInt(constants.DefaultCommissionPercent),
			Active:            true,
		},
		{
			Name:              "旗舰套餐",
			Slug:              "flagship",
			Price:             models.NewMoneyFromDecimal(decimal.NewFromInt(12800)),
			CommissionPercent: models.NewMoneyFromInt(60),
			Active:            true,
		},
	}

	for _, pkg := range packages {
		var existing models.Package
		if err := models.DB.Where("slug = ?", pkg.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&pkg).Error; err != nil {
				stdLog.Printf("Failed to create package %s: %v", pkg.Slug, err)
			} else {
				stdLog.Printf("Created package: %s", pkg.Slug)
			}
		} else {
			stdLog.Printf("Package already exists: %s", pkg.Slug)
		}
	}

	// 演示用户
	users := []models.User{
		{
			Email:       "alice@example.com",
			DisplayName: "Alice",
			Status:      constants.UserStatusActive,
		},
		{
			Email:       "bob@example.com",
			DisplayName: "Bob",
			Status:      constants.UserStatusActive,
		},
	}

	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
			} else {
				stdLog.Printf("Created user: %s", user.Email)
			}
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
		}
	}

	stdLog.Println("Seed finished")
}
