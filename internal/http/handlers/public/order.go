package public

import (
	"errors"
	"strings"

	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	BuyerID    uint   `json:"buyer_id" binding:"required"`
	PackageID  uint   `json:"package_id" binding:"required"`
	ReferrerID *uint  `json:"referrer_id"`
	OrderNo    string `json:"order_no"`
}

// CreateOrder 创建待审核订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.SettlementService.CreateOrder(service.CreateOrderInput{
		BuyerID:    req.BuyerID,
		ReferrerID: req.ReferrerID,
		PackageID:  req.PackageID,
		OrderNo:    strings.TrimSpace(req.OrderNo),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeBadRequest, "买家或推荐人不存在", nil)
		case errors.Is(err, service.ErrPackageNotFound):
			respondError(c, response.CodeBadRequest, "套餐不存在或已下架", nil)
		case errors.Is(err, service.ErrSelfReferral):
			respondError(c, response.CodeBadRequest, "不能推荐自己", nil)
		case errors.Is(err, service.ErrDuplicateOrderNo):
			respondError(c, response.CodeConflict, "订单编号已存在", nil)
		default:
			respondError(c, response.CodeInternal, "下单失败", err)
		}
		return
	}

	requestLog(c).Infow("order_created",
		"order_no", order.OrderNo, "buyer_id", order.BuyerID, "package_id", order.PackageID)
	response.Success(c, order)
}

// GetOrderByOrderNo 按订单编号查询订单
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	orderNo := strings.TrimSpace(c.Param("order_no"))
	if orderNo == "" {
		respondError(c, response.CodeBadRequest, "参数非法", nil)
		return
	}

	order, err := h.OrderRepo.GetByOrderNo(orderNo)
	if err != nil {
		respondError(c, response.CodeInternal, "查询订单失败", err)
		return
	}
	if order == nil {
		respondError(c, response.CodeNotFound, "订单不存在", nil)
		return
	}
	response.Success(c, order)
}
