package repository

import (
	"errors"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"

	"gorm.io/gorm"
)

// ReferralInviteRepository 推荐邀请数据访问接口
type ReferralInviteRepository interface {
	GetPending(referrerID, buyerID uint) (*models.ReferralInvite, error)
	ListByReferrer(referrerID uint) ([]models.ReferralInvite, error)
	Create(invite *models.ReferralInvite) error
	UpdateStatus(id uint, status string) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) ReferralInviteRepository
}

// GormReferralInviteRepository GORM 推荐邀请仓储实现
type GormReferralInviteRepository struct {
	db *gorm.DB
}

// NewReferralInviteRepository 创建推荐邀请仓储
func NewReferralInviteRepository(db *gorm.DB) *GormReferralInviteRepository {
	return &GormReferralInviteRepository{db: db}
}

// WithTx 绑定事务
func (r *GormReferralInviteRepository) WithTx(tx *gorm.DB) ReferralInviteRepository {
	if tx == nil {
		return r
	}
	return &GormReferralInviteRepository{db: tx}
}

// GetPending 获取待确认的邀请记录
func (r *GormReferralInviteRepository) GetPending(referrerID, buyerID uint) (*models.ReferralInvite, error) {
	if referrerID == 0 || buyerID == 0 {
		return nil, nil
	}
	var invite models.ReferralInvite
	err := r.db.Where("referrer_id = ? AND buyer_id = ? AND status = ?",
		referrerID, buyerID, constants.ReferralInviteStatusPending).First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invite, nil
}

// ListByReferrer 获取推荐人的全部邀请记录
func (r *GormReferralInviteRepository) ListByReferrer(referrerID uint) ([]models.ReferralInvite, error) {
	if referrerID == 0 {
		return []models.ReferralInvite{}, nil
	}
	var invites []models.ReferralInvite
	if err := r.db.Where("referrer_id = ?", referrerID).Order("id DESC").Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// Create 创建邀请记录
func (r *GormReferralInviteRepository) Create(invite *models.ReferralInvite) error {
	return r.db.Create(invite).Error
}

// UpdateStatus 更新邀请状态
func (r *GormReferralInviteRepository) UpdateStatus(id uint, status string) error {
	if id == 0 || status == "" {
		return nil
	}
	return r.db.Model(&models.ReferralInvite{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除邀请记录
func (r *GormReferralInviteRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.ReferralInvite{}, id).Error
}
