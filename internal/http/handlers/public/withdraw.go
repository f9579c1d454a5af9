package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"
	"github.com/courseplex-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ApplyWithdrawRequest 提现申请请求
type ApplyWithdrawRequest struct {
	UserID  uint         `json:"user_id" binding:"required"`
	Amount  models.Money `json:"amount"`
	Channel string       `json:"channel"`
	Account string       `json:"account"`
}

// ApplyWithdraw 提交提现申请
func (h *Handler) ApplyWithdraw(c *gin.Context) {
	var req ApplyWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	withdraw, err := h.WithdrawService.ApplyWithdraw(service.ApplyWithdrawInput{
		UserID:  req.UserID,
		Amount:  req.Amount,
		Channel: strings.TrimSpace(req.Channel),
		Account: strings.TrimSpace(req.Account),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(c, response.CodeBadRequest, "提现金额非法", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "用户不存在", nil)
		case errors.Is(err, service.ErrInsufficientBalance):
			respondError(c, response.CodeBadRequest, "余额不足", nil)
		default:
			respondError(c, response.CodeInternal, "提现申请失败", err)
		}
		return
	}
	response.Success(c, withdraw)
}

// GetUserWithdraws 用户提现记录
func (h *Handler) GetUserWithdraws(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	withdraws, total, err := h.WithdrawService.ListWithdraws(repository.WithdrawListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   id,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询提现记录失败", err)
		return
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, withdraws, pagination)
}

// GetUserTransactions 用户台账流水
func (h *Handler) GetUserTransactions(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	txns, total, err := h.LedgerService.ListTransactions(repository.LedgerTransactionListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   id,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "查询台账流水失败", err)
		return
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, txns, pagination)
}
