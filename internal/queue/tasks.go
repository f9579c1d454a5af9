package queue

import (
	"encoding/json"

	"github.com/courseplex-next/internal/constants"

	"github.com/hibiken/asynq"
)

// OrderSettledPayload 订单结算通知任务载荷
type OrderSettledPayload struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	BuyerID    uint   `json:"buyer_id"`
	ReferrerID *uint  `json:"referrer_id,omitempty"`
	Commission string `json:"commission"`
	Cashback   string `json:"cashback"`
}

// WithdrawResolvedPayload 提现审核结果通知任务载荷
type WithdrawResolvedPayload struct {
	WithdrawID   uint   `json:"withdraw_id"`
	UserID       uint   `json:"user_id"`
	Status       string `json:"status"`
	Amount       string `json:"amount"`
	RejectReason string `json:"reject_reason,omitempty"`
}

// NewOrderSettledTask 构造订单结算通知任务
func NewOrderSettledTask(payload OrderSettledPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskOrderSettledEmail, data), nil
}

// NewWithdrawResolvedTask 构造提现结果通知任务
func NewWithdrawResolvedTask(payload WithdrawResolvedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(constants.TaskWithdrawResolvedEmail, data), nil
}
