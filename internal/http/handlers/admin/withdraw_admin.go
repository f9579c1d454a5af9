package admin

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

// AdminListWithdraws 提现申请列表 (Admin)
func (h *Handler) AdminListWithdraws(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.WithdrawListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	withdraws, total, err := h.WithdrawService.ListWithdraws(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询提现申请失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, withdraws, pagination)
}

// AdminGetWithdraw 提现申请详情 (Admin)
func (h *Handler) AdminGetWithdraw(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	withdraw, err := h.WithdrawService.GetWithdraw(id)
	if err != nil {
		if errors.Is(err, service.ErrWithdrawNotFound) {
			respondError(c, response.CodeNotFound, "提现申请不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询提现申请失败", err)
		return
	}
	response.Success(c, withdraw)
}

// ReviewWithdrawRequest 提现审核请求
type ReviewWithdrawRequest struct {
	Action string `json:"action" binding:"required"` // approve / reject
	Reason string `json:"reason"`
}

// AdminReviewWithdraw 审核提现申请
func (h *Handler) AdminReviewWithdraw(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	operator := getAdminUsername(c)

	var req ReviewWithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	withdraw, err := h.WithdrawService.ReviewWithdraw(service.ReviewWithdrawInput{
		WithdrawID: id,
		Action:     strings.TrimSpace(req.Action),
		Operator:   operator,
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawNotFound):
			respondError(c, response.CodeNotFound, "提现申请不存在", nil)
		case errors.Is(err, service.ErrWithdrawNotPending):
			respondError(c, response.CodeConflict, "提现申请已处理", nil)
		case errors.Is(err, service.ErrInvalidAction):
			respondError(c, response.CodeBadRequest, "审核动作非法", nil)
		default:
			respondError(c, response.CodeInternal, "提现审核失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, operator, "withdraw.review", strconv.FormatUint(uint64(withdraw.ID), 10), models.JSON{
		"withdraw_id": withdraw.ID,
		"action":      req.Action,
		"status":      withdraw.Status,
		"amount":      withdraw.Amount.String(),
	})
	response.Success(c, withdraw)
}
