package worker

import (
	"context"
	"encoding/json"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/logger"
	"github.com/courseplex-next/internal/provider"
	"github.com/courseplex-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(constants.TaskOrderSettledEmail, c.handleOrderSettled)
	mux.HandleFunc(constants.TaskWithdrawResolvedEmail, c.handleWithdrawResolved)
}

func (c *Consumer) handleOrderSettled(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderSettledPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_settled_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_settled_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	return c.NotificationService.HandleOrderSettled(ctx, payload)
}

func (c *Consumer) handleWithdrawResolved(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.WithdrawResolvedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_withdraw_resolved_unmarshal_failed", "error", err)
		return err
	}
	if payload.WithdrawID == 0 {
		logger.Debugw("worker_withdraw_resolved_skip_invalid_payload", "withdraw_id", payload.WithdrawID)
		return nil
	}
	return c.NotificationService.HandleWithdrawResolved(ctx, payload)
}
