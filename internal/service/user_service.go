package service

import (
	"strings"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"
)

// UserService 用户与推荐关系服务
type UserService struct {
	userRepo   repository.UserRepository
	inviteRepo repository.ReferralInviteRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository, inviteRepo repository.ReferralInviteRepository) *UserService {
	return &UserService{userRepo: userRepo, inviteRepo: inviteRepo}
}

// RegisterUserInput 用户注册参数
type RegisterUserInput struct {
	Email       string
	DisplayName string
	Phone       string
	ReferrerID  *uint
}

// RegisterUser 注册用户：挂接推荐关系并建立待确认邀请记录。
// 账号初始为 pending，首购结算通过后才激活。
func (s *UserService) RegisterUser(input RegisterUserInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, ErrInvalidEmail
	}
	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if input.ReferrerID != nil {
		referrer, err := s.userRepo.GetByID(*input.ReferrerID)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrUserNotFound
		}
	}

	user := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Phone:       strings.TrimSpace(input.Phone),
		Status:      constants.UserStatusPending,
		ReferrerID:  input.ReferrerID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if input.ReferrerID != nil {
		invite := &models.ReferralInvite{
			ReferrerID: *input.ReferrerID,
			BuyerID:    user.ID,
			Status:     constants.ReferralInviteStatusPending,
		}
		if err := s.inviteRepo.Create(invite); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// GetUser 查询用户
func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers 分页查询用户
func (s *UserService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// ListInvites 查询推荐人名下邀请记录
func (s *UserService) ListInvites(referrerID uint) ([]models.ReferralInvite, error) {
	return s.inviteRepo.ListByReferrer(referrerID)
}

// SetUserStatus 管理端调整用户状态
func (s *UserService) SetUserStatus(id uint, status string) error {
	switch status {
	case constants.UserStatusPending, constants.UserStatusActive,
		constants.UserStatusRejected, constants.UserStatusDisabled:
	default:
		return ErrInvalidAction
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.userRepo.UpdateFields(id, map[string]interface{}{"status": status})
}
