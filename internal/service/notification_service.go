package service

import (
	"context"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/queue"
	"github.com/courseplex-next/internal/repository"

	"github.com/hibiken/asynq"
)

// NotificationService 结算通知服务。
// 入队失败只记日志不回传错误：通知是结算的附属动作，不能影响结算结果。
type NotificationService struct {
	queueClient  *queue.Client
	emailService *EmailService
	userRepo     repository.UserRepository
	enabled      bool
}

// NewNotificationService 创建通知服务
func NewNotificationService(queueClient *queue.Client, emailService *EmailService,
	userRepo repository.UserRepository, enabled bool) *NotificationService {
	return &NotificationService{
		queueClient:  queueClient,
		emailService: emailService,
		userRepo:     userRepo,
		enabled:      enabled,
	}
}

// NotifyOrderSettled 推送订单结算通知任务
func (s *NotificationService) NotifyOrderSettled(order *models.Order) {
	if s == nil || !s.enabled || order == nil {
		return
	}
	payload := queue.OrderSettledPayload{
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		BuyerID:    order.BuyerID,
		ReferrerID: order.ReferrerID,
		Commission: order.CommissionAmount.String(),
		Cashback:   order.CashbackAmount.String(),
	}
	if err := s.queueClient.EnqueueOrderSettled(payload, asynq.MaxRetry(5)); err != nil {
		logger.Warnw("order_settled_notify_enqueue_failed", "order_no", order.OrderNo, "error", err)
	}
}

// NotifyWithdrawResolved 推送提现审核结果通知任务
func (s *NotificationService) NotifyWithdrawResolved(withdraw *models.WithdrawRequest) {
	if s == nil || !s.enabled || withdraw == nil {
		return
	}
	payload := queue.WithdrawResolvedPayload{
		WithdrawID:   withdraw.ID,
		UserID:       withdraw.UserID,
		Status:       withdraw.Status,
		Amount:       withdraw.Amount.String(),
		RejectReason: withdraw.RejectReason,
	}
	if err := s.queueClient.EnqueueWithdrawResolved(payload, asynq.MaxRetry(5)); err != nil {
		logger.Warnw("withdraw_resolved_notify_enqueue_failed", "withdraw_id", withdraw.ID, "error", err)
	}
}

// HandleOrderSettled 消费订单结算通知任务，分别给推荐人与买家发信
func (s *NotificationService) HandleOrderSettled(ctx context.Context, payload queue.OrderSettledPayload) error {
	if s == nil || s.emailService == nil {
		return nil
	}

	if payload.ReferrerID != nil && payload.Commission != "" && payload.Commission != "0.00" {
		referrer, err := s.userRepo.GetByID(*payload.ReferrerID)
		if err != nil {
			return err
		}
		if referrer != nil && referrer.Email != "" {
			err = s.emailService.SendOrderSettledEmail(referrer.Email, OrderSettledEmailInput{
				OrderNo:    payload.OrderNo,
				Commission: models.NewMoneyFromString(payload.Commission),
				IsReferrer: true,
			})
			if err != nil && err != ErrEmailServiceDisabled {
				logger.Warnw("order_settled_email_failed",
					"order_no", payload.OrderNo, "user_id", referrer.ID, "error", err)
			}
		}
	}

	if payload.Cashback != "" && payload.Cashback != "0.00" {
		buyer, err := s.userRepo.GetByID(payload.BuyerID)
		if err != nil {
			return err
		}
		if buyer != nil && buyer.Email != "" {
			err = s.emailService.SendOrderSettledEmail(buyer.Email, OrderSettledEmailInput{
				OrderNo:  payload.OrderNo,
				Cashback: models.NewMoneyFromString(payload.Cashback),
			})
			if err != nil && err != ErrEmailServiceDisabled {
				logger.Warnw("order_settled_email_failed",
					"order_no", payload.OrderNo, "user_id", buyer.ID, "error", err)
			}
		}
	}
	return nil
}

// HandleWithdrawResolved 消费提现审核结果通知任务
func (s *NotificationService) HandleWithdrawResolved(ctx context.Context, payload queue.WithdrawResolvedPayload) error {
	if s == nil || s.emailService == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(payload.UserID)
	if err != nil {
		return err
	}
	if user == nil || user.Email == "" {
		return nil
	}
	status := payload.Status
	if status != constants.WithdrawStatusCompleted {
		status = constants.WithdrawStatusRejected
	}
	err = s.emailService.SendWithdrawResolvedEmail(user.Email, WithdrawResolvedEmailInput{
		Amount:       models.NewMoneyFromString(payload.Amount),
		Status:       status,
		RejectReason: payload.RejectReason,
	})
	if err != nil && err != ErrEmailServiceDisabled {
		logger.Warnw("withdraw_resolved_email_failed",
			"withdraw_id", payload.WithdrawID, "user_id", user.ID, "error", err)
	}
	return nil
}
