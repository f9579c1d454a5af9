package service

import (
	"errors"
	"strings"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

// WithdrawService 提现结算服务
type WithdrawService struct {
	withdrawRepo repository.WithdrawRepository
	userRepo     repository.UserRepository
	ledger       *LedgerService
	notifier     *NotificationService
}

// NewWithdrawService 创建提现服务
func NewWithdrawService(withdrawRepo repository.WithdrawRepository, userRepo repository.UserRepository,
	ledger *LedgerService, notifier *NotificationService) *WithdrawService {
	return &WithdrawService{
		withdrawRepo: withdrawRepo,
		userRepo:     userRepo,
		ledger:       ledger,
		notifier:     notifier,
	}
}

// ApplyWithdrawInput 提现申请参数
type ApplyWithdrawInput struct {
	UserID  uint
	Amount  models.Money
	Channel string
	Account string
}

// ApplyWithdraw 提交提现申请。仅做余额预检，实际扣款在审核通过时执行。
func (s *WithdrawService) ApplyWithdraw(input ApplyWithdrawInput) (*models.WithdrawRequest, error) {
	if !input.Amount.Decimal.IsPositive() {
		return nil, ErrInvalidAmount
	}
	user, err := s.userRepo.GetByID(input.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Balance.Decimal.LessThan(input.Amount.Decimal) {
		return nil, ErrInsufficientBalance
	}

	withdraw := &models.WithdrawRequest{
		UserID:  input.UserID,
		Amount:  input.Amount,
		Channel: strings.TrimSpace(input.Channel),
		Account: strings.TrimSpace(input.Account),
		Status:  constants.WithdrawStatusPending,
	}
	if err := s.withdrawRepo.Create(withdraw); err != nil {
		return nil, err
	}
	logger.Infow("提现申请创建", "withdraw_id", withdraw.ID, "user_id", withdraw.UserID, "amount", withdraw.Amount.String())
	return withdraw, nil
}

// ReviewWithdrawInput 提现审核参数
type ReviewWithdrawInput struct {
	WithdrawID uint
	Action     string // approve / reject
	Operator   string
	Reason     string
}

// ReviewWithdraw 审核提现申请。
// 通过：在事务内再次校验余额并扣款；此刻余额不足时直接落为拒绝态，
// 拒绝原因固定为 insufficient_balance，调用方以返回的申请状态为准。
// 拒绝：仅记录终态与原因，余额不动。
func (s *WithdrawService) ReviewWithdraw(input ReviewWithdrawInput) (*models.WithdrawRequest, error) {
	switch input.Action {
	case constants.WithdrawActionApprove, constants.WithdrawActionReject:
	default:
		return nil, ErrInvalidAction
	}

	var resolved *models.WithdrawRequest
	err := s.withdrawRepo.Transaction(func(tx *gorm.DB) error {
		withdrawRepo := s.withdrawRepo.WithTx(tx)

		withdraw, err := withdrawRepo.GetByIDForUpdate(input.WithdrawID)
		if err != nil {
			return err
		}
		if withdraw == nil {
			return ErrWithdrawNotFound
		}
		if withdraw.Status != constants.WithdrawStatusPending {
			return ErrWithdrawNotPending
		}

		now := time.Now()
		updates := map[string]interface{}{
			"processed_by": input.Operator,
			"processed_at": now,
			"updated_at":   now,
		}

		if input.Action == constants.WithdrawActionReject {
			reason := strings.TrimSpace(input.Reason)
			updates["status"] = constants.WithdrawStatusRejected
			updates["reject_reason"] = reason
			if err := withdrawRepo.UpdateFields(withdraw.ID, updates); err != nil {
				return err
			}
			withdraw.Status = constants.WithdrawStatusRejected
			withdraw.RejectReason = reason
			withdraw.ProcessedBy = input.Operator
			withdraw.ProcessedAt = &now
			resolved = withdraw
			return nil
		}

		withdrawID := withdraw.ID
		_, err = s.ledger.Debit(tx, DebitInput{
			UserID:     withdraw.UserID,
			Amount:     withdraw.Amount,
			Type:       constants.LedgerTxnTypeWithdrawal,
			WithdrawID: &withdrawID,
			Product:    constants.LedgerProductWithdrawal,
			Remark:     withdraw.Channel + " " + withdraw.Account,
			OccurredAt: now,
		})
		if errors.Is(err, ErrInsufficientBalance) {
			// 审批时余额已被其他出账消耗，申请落为拒绝态而非报错
			updates["status"] = constants.WithdrawStatusRejected
			updates["reject_reason"] = constants.WithdrawRejectReasonInsufficient
			if err := withdrawRepo.UpdateFields(withdraw.ID, updates); err != nil {
				return err
			}
			withdraw.Status = constants.WithdrawStatusRejected
			withdraw.RejectReason = constants.WithdrawRejectReasonInsufficient
			withdraw.ProcessedBy = input.Operator
			withdraw.ProcessedAt = &now
			resolved = withdraw
			return nil
		}
		if err != nil {
			return err
		}

		updates["status"] = constants.WithdrawStatusCompleted
		if err := withdrawRepo.UpdateFields(withdraw.ID, updates); err != nil {
			return err
		}
		withdraw.Status = constants.WithdrawStatusCompleted
		withdraw.ProcessedBy = input.Operator
		withdraw.ProcessedAt = &now
		resolved = withdraw
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("提现审核完成",
		"withdraw_id", resolved.ID,
		"status", resolved.Status,
		"operator", input.Operator)
	if s.notifier != nil {
		s.notifier.NotifyWithdrawResolved(resolved)
	}
	return resolved, nil
}

// GetWithdraw 查询提现申请
func (s *WithdrawService) GetWithdraw(id uint) (*models.WithdrawRequest, error) {
	withdraw, err := s.withdrawRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if withdraw == nil {
		return nil, ErrWithdrawNotFound
	}
	return withdraw, nil
}

// ListWithdraws 分页查询提现申请
func (s *WithdrawService) ListWithdraws(filter repository.WithdrawListFilter) ([]models.WithdrawRequest, int64, error) {
	return s.withdrawRepo.List(filter)
}
