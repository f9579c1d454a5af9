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

// AdminListUsers 用户列表 (Admin)
func (h *Handler) AdminListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     strings.TrimSpace(c.Query("keyword")),
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	users, total, err := h.UserService.ListUsers(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询用户失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// AdminGetUser 用户详情 (Admin)
func (h *Handler) AdminGetUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	user, err := h.UserService.GetUser(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "用户不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询用户失败", err)
		return
	}
	response.Success(c, user)
}

// UpdateUserStatusRequest 更新用户状态请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AdminUpdateUserStatus 更新用户账号状态
func (h *Handler) AdminUpdateUserStatus(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.UserService.SetUserStatus(id, strings.TrimSpace(req.Status)); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "用户不存在", nil)
		case errors.Is(err, service.ErrInvalidAction):
			respondError(c, response.CodeBadRequest, "用户状态非法", nil)
		default:
			respondError(c, response.CodeInternal, "更新用户状态失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "user.set_status", strconv.FormatUint(uint64(id), 10), models.JSON{
		"status": req.Status,
	})
	response.SuccessWithMsg(c, "用户状态已更新", nil)
}

// AdminListLedgerTransactions 台账流水列表 (Admin)
func (h *Handler) AdminListLedgerTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.LedgerTransactionListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		Type:        strings.TrimSpace(c.Query("type")),
		Direction:   strings.TrimSpace(c.Query("direction")),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	txns, total, err := h.LedgerService.ListTransactions(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询台账流水失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, txns, pagination)
}

// AdminListEarningEvents 收益事件列表 (Admin)
func (h *Handler) AdminListEarningEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.EarningEventListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseUintQuery(c, "user_id"),
		OrderID:     parseUintQuery(c, "order_id"),
		EventType:   strings.TrimSpace(c.Query("event_type")),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	events, total, err := h.EarningEventRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询收益事件失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, events, pagination)
}
