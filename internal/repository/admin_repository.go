package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByID(id uint) (*models.Admin, error)
	GetByUsername(username string) (*models.Admin, error)
	Create(admin *models.Admin) error
	UpdateLastLogin(id uint, at time.Time) error
	BumpTokenVersion(id uint) error
	UpdatePassword(id uint, passwordHash string) error
}

// GormAdminRepository GORM 管理员仓储实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓储
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByID 按ID获取管理员
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	if id == 0 {
		return nil, nil
	}
	var admin models.Admin
	if err := r.db.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// GetByUsername 按用户名获取管理员
func (r *GormAdminRepository) GetByUsername(username string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	var admin models.Admin
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// Create 创建管理员
func (r *GormAdminRepository) Create(admin *models.Admin) error {
	return r.db.Create(admin).Error
}

// UpdateLastLogin 更新最近登录时间
func (r *GormAdminRepository) UpdateLastLogin(id uint, at time.Time) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// BumpTokenVersion 令牌版本自增，旧令牌随之全部失效
func (r *GormAdminRepository) BumpTokenVersion(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Update("token_version", gorm.Expr("token_version + 1")).Error
}

// UpdatePassword 更新密码哈希
func (r *GormAdminRepository) UpdatePassword(id uint, passwordHash string) error {
	if id == 0 || passwordHash == "" {
		return nil
	}
	return r.db.Model(&models.Admin{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}
