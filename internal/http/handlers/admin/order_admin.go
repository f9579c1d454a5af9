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

// AdminListOrders 订单列表 (Admin)
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		BuyerID:     parseUintQuery(c, "buyer_id"),
		ReferrerID:  parseUintQuery(c, "referrer_id"),
		PackageID:   parseUintQuery(c, "package_id"),
		Status:      strings.TrimSpace(c.Query("status")),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: parseTimeQuery(c, "created_from"),
		CreatedTo:   parseTimeQuery(c, "created_to"),
	}

	orders, total, err := h.SettlementService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询订单失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, orders, pagination)
}

// AdminGetOrder 订单详情 (Admin)
func (h *Handler) AdminGetOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.SettlementService.GetOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "订单不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询订单失败", err)
		return
	}
	response.Success(c, order)
}

// AdminApproveOrder 订单审核通过并结算
func (h *Handler) AdminApproveOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	operator := getAdminUsername(c)

	order, err := h.SettlementService.ApproveOrder(id, operator)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderNotPending):
			respondError(c, response.CodeConflict, "订单已处理", nil)
		case errors.Is(err, service.ErrConcurrentSettlement):
			respondError(c, response.CodeConflict, "订单正在被其他操作处理", nil)
		default:
			respondError(c, response.CodeInternal, "订单结算失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, operator, "order.approve", order.OrderNo, models.JSON{
		"order_id":   order.ID,
		"commission": order.CommissionAmount.String(),
		"cashback":   order.CashbackAmount.String(),
	})
	response.Success(c, order)
}

// RejectOrderRequest 订单拒绝请求
type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

// AdminRejectOrder 订单审核拒绝
func (h *Handler) AdminRejectOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	operator := getAdminUsername(c)

	var req RejectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.SettlementService.RejectOrder(id, operator, strings.TrimSpace(req.Reason))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "订单不存在", nil)
		case errors.Is(err, service.ErrOrderNotPending):
			respondError(c, response.CodeConflict, "订单已处理", nil)
		case errors.Is(err, service.ErrConcurrentSettlement):
			respondError(c, response.CodeConflict, "订单正在被其他操作处理", nil)
		default:
			respondError(c, response.CodeInternal, "订单审核失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, operator, "order.reject", order.OrderNo, models.JSON{
		"order_id": order.ID,
		"reason":   order.RejectReason,
	})
	response.Success(c, order)
}

// recordAudit 落操作审计，失败只记日志不阻断响应
func (h *Handler) recordAudit(c *gin.Context, adminID uint, username, action, object string, detail models.JSON) {
	if h.AuthzAuditService == nil {
		return
	}
	err := h.AuthzAuditService.Record(service.AuthzAuditRecordInput{
		OperatorAdminID:  adminID,
		OperatorUsername: username,
		Action:           action,
		Object:           object,
		RequestID:        getRequestID(c),
		Detail:           detail,
	})
	if err != nil {
		requestLog(c).Warnw("authz_audit_record_failed", "action", action, "error", err)
	}
}
