package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"gorm.io/gorm"
)

// SettlementService 订单结算服务。
// 审核通过时在单个事务内完成：订单条件更新到终态、佣金与返现计算、
// 收益事件落库、台账入账、买家套餐变更。
type SettlementService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	packageRepo repository.PackageRepository
	accessRepo  repository.SpecialAccessRepository
	eventRepo   repository.EarningEventRepository
	inviteRepo  repository.ReferralInviteRepository
	ledger      *LedgerService
	notifier    *NotificationService
}

// NewSettlementService 创建结算服务
func NewSettlementService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	packageRepo repository.PackageRepository,
	accessRepo repository.SpecialAccessRepository,
	eventRepo repository.EarningEventRepository,
	inviteRepo repository.ReferralInviteRepository,
	ledger *LedgerService,
	notifier *NotificationService,
) *SettlementService {
	return &SettlementService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		packageRepo: packageRepo,
		accessRepo:  accessRepo,
		eventRepo:   eventRepo,
		inviteRepo:  inviteRepo,
		ledger:      ledger,
		notifier:    notifier,
	}
}

// CreateOrderInput 创建订单参数
type CreateOrderInput struct {
	BuyerID    uint
	ReferrerID *uint
	PackageID  uint
	OrderNo    string
}

// CreateOrder 创建待审核订单。买家已有历史订单记为升级单，否则为首购单。
func (s *SettlementService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	buyer, err := s.userRepo.GetByID(input.BuyerID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, ErrUserNotFound
	}
	pkg, err := s.packageRepo.GetByID(input.PackageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil || !pkg.Active {
		return nil, ErrPackageNotFound
	}
	if input.ReferrerID != nil {
		if *input.ReferrerID == input.BuyerID {
			return nil, ErrSelfReferral
		}
		referrer, err := s.userRepo.GetByID(*input.ReferrerID)
		if err != nil {
			return nil, err
		}
		if referrer == nil {
			return nil, ErrUserNotFound
		}
	}

	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		orderNo = newOrderNo()
	} else {
		existing, err := s.orderRepo.GetByOrderNo(orderNo)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateOrderNo
		}
	}

	kind := constants.OrderKindFirstPurchase
	count, err := s.orderRepo.CountByBuyer(input.BuyerID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		kind = constants.OrderKindUpgrade
	}

	order := &models.Order{
		OrderNo:    orderNo,
		BuyerID:    input.BuyerID,
		ReferrerID: input.ReferrerID,
		PackageID:  input.PackageID,
		Kind:       kind,
		Status:     constants.OrderStatusPendingApproval,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	logger.Infow("订单创建", "order_no", order.OrderNo, "buyer_id", order.BuyerID, "kind", kind)
	return order, nil
}

// ApproveOrder 审核通过：幂等结算订单并发放佣金与返现。
// 已处于终态的订单返回 ErrOrderNotPending；并发审批仅一方生效。
func (s *SettlementService) ApproveOrder(orderID uint, operator string) (*models.Order, error) {
	var settled *models.Order

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status != constants.OrderStatusPendingApproval {
			return ErrOrderNotPending
		}

		pkg, err := s.packageRepo.WithTx(tx).GetByID(order.PackageID)
		if err != nil {
			return err
		}
		if pkg == nil {
			return ErrPackageNotFound
		}

		now := time.Now()
		result := CommissionResult{
			Commission: models.ZeroMoney(),
			Cashback:   models.ZeroMoney(),
		}
		hasReferrer := order.ReferrerID != nil
		if hasReferrer {
			overrides, err := s.accessRepo.WithTx(tx).ListActiveByUser(*order.ReferrerID)
			if err != nil {
				return err
			}
			percent, _ := EffectiveCommissionPercent(overrides, pkg)
			result = CalculateCommission(pkg.Price, percent, true)
		}

		updates := map[string]interface{}{
			"status":            constants.OrderStatusCompleted,
			"commission_amount": result.Commission,
			"cashback_amount":   result.Cashback,
			"settled_at":        now,
			"settled_by":        operator,
			"updated_at":        now,
		}
		ok, err := orderRepo.MarkSettledIfPending(order.ID, updates)
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentSettlement
		}

		if hasReferrer && result.Commission.Decimal.IsPositive() {
			if err := s.creditEarning(tx, order, pkg, *order.ReferrerID,
				constants.EarningEventTypeCommission, result.Commission, now); err != nil {
				return err
			}
		}
		if hasReferrer && result.Cashback.Decimal.IsPositive() {
			if err := s.creditEarning(tx, order, pkg, order.BuyerID,
				constants.EarningEventTypeCashback, result.Cashback, now); err != nil {
				return err
			}
		}

		// 首购激活账号并绑定套餐，升级单只变更套餐
		buyerUpdates := map[string]interface{}{
			"enrolled_package_id": order.PackageID,
		}
		if order.Kind == constants.OrderKindFirstPurchase {
			buyerUpdates["status"] = constants.UserStatusActive
		}
		if err := s.userRepo.WithTx(tx).UpdateFields(order.BuyerID, buyerUpdates); err != nil {
			return err
		}

		if hasReferrer {
			invite, err := s.inviteRepo.WithTx(tx).GetPending(*order.ReferrerID, order.BuyerID)
			if err != nil {
				return err
			}
			if invite != nil {
				if err := s.inviteRepo.WithTx(tx).UpdateStatus(invite.ID, constants.ReferralInviteStatusAccepted); err != nil {
					return err
				}
			}
		}

		order.Status = constants.OrderStatusCompleted
		order.CommissionAmount = result.Commission
		order.CashbackAmount = result.Cashback
		order.SettledAt = &now
		order.SettledBy = operator
		settled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("订单结算完成",
		"order_no", settled.OrderNo,
		"commission", settled.CommissionAmount.String(),
		"cashback", settled.CashbackAmount.String(),
		"operator", operator)
	if s.notifier != nil {
		s.notifier.NotifyOrderSettled(settled)
	}
	return settled, nil
}

// creditEarning 落收益事件并入账。唯一索引兜底同单同类型事件不重复。
func (s *SettlementService) creditEarning(tx *gorm.DB, order *models.Order, pkg *models.Package,
	userID uint, eventType string, amount models.Money, now time.Time) error {
	eventRepo := s.eventRepo.WithTx(tx)

	existing, err := eventRepo.GetByOrderAndType(order.ID, eventType)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	event := &models.EarningEvent{
		OrderID:    order.ID,
		EventType:  eventType,
		UserID:     userID,
		ReferrerID: *order.ReferrerID,
		BuyerID:    order.BuyerID,
		PackageID:  order.PackageID,
		Amount:     amount,
	}
	if err := eventRepo.Create(event); err != nil {
		return fmt.Errorf("create earning event: %w", err)
	}

	txnType := constants.LedgerTxnTypeCommission
	if eventType == constants.EarningEventTypeCashback {
		txnType = constants.LedgerTxnTypeCashback
	}
	orderID := order.ID
	_, err = s.ledger.Credit(tx, CreditInput{
		UserID:     userID,
		Amount:     amount,
		Type:       txnType,
		OrderID:    &orderID,
		Product:    pkg.Name,
		Reference:  order.OrderNo,
		OccurredAt: now,
	})
	return err
}

// RejectOrder 审核拒绝：记录原因，不产生任何收益
func (s *SettlementService) RejectOrder(orderID uint, operator, reason string) (*models.Order, error) {
	var rejected *models.Order

	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)

		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if order.Status != constants.OrderStatusPendingApproval {
			return ErrOrderNotPending
		}

		now := time.Now()
		ok, err := orderRepo.MarkSettledIfPending(order.ID, map[string]interface{}{
			"status":        constants.OrderStatusRejected,
			"reject_reason": reason,
			"settled_at":    now,
			"settled_by":    operator,
			"updated_at":    now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return ErrConcurrentSettlement
		}

		// 首购被拒：账号标记为已拒绝（不删除）
		if order.Kind == constants.OrderKindFirstPurchase {
			err = s.userRepo.WithTx(tx).UpdateFields(order.BuyerID, map[string]interface{}{
				"status": constants.UserStatusRejected,
			})
			if err != nil {
				return err
			}
		}
		// 移除推荐人名下对应的待确认邀请
		if order.ReferrerID != nil {
			invite, err := s.inviteRepo.WithTx(tx).GetPending(*order.ReferrerID, order.BuyerID)
			if err != nil {
				return err
			}
			if invite != nil {
				if err := s.inviteRepo.WithTx(tx).Delete(invite.ID); err != nil {
					return err
				}
			}
		}

		order.Status = constants.OrderStatusRejected
		order.RejectReason = reason
		order.SettledAt = &now
		order.SettledBy = operator
		rejected = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("订单审核拒绝", "order_no", rejected.OrderNo, "reason", reason, "operator", operator)
	return rejected, nil
}

// GetOrder 查询订单
func (s *SettlementService) GetOrder(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 分页查询订单
func (s *SettlementService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}
