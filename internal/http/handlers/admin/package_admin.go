package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListPackages 套餐列表 (Admin)
func (h *Handler) AdminListPackages(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	packages, err := h.CatalogService.ListPackages(activeOnly)
	if err != nil {
		respondError(c, response.CodeInternal, "查询套餐失败", err)
		return
	}
	response.Success(c, packages)
}

// AdminGetPackage 套餐详情 (Admin)
func (h *Handler) AdminGetPackage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	pkg, err := h.CatalogService.GetPackage(id)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询套餐失败", err)
		return
	}
	response.Success(c, pkg)
}

// CreatePackageRequest 创建套餐请求
type CreatePackageRequest struct {
	Name              string       `json:"name" binding:"required"`
	Slug              string       `json:"slug" binding:"required"`
	Price             models.Money `json:"price"`
	CommissionPercent models.Money `json:"commission_percent"`
	Active            bool         `json:"active"`
}

// AdminCreatePackage 创建套餐
func (h *Handler) AdminCreatePackage(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	pkg, err := h.CatalogService.CreatePackage(service.CreatePackageInput{
		Name:              req.Name,
		Slug:              req.Slug,
		Price:             req.Price,
		CommissionPercent: req.CommissionPercent,
		Active:            req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateSlug):
			respondError(c, response.CodeConflict, "套餐 slug 已存在", nil)
		case errors.Is(err, service.ErrInvalidAmount):
			respondError(c, response.CodeBadRequest, "套餐价格非法", nil)
		default:
			respondError(c, response.CodeInternal, "创建套餐失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "package.create", pkg.Slug, models.JSON{
		"package_id": pkg.ID,
		"price":      pkg.Price.String(),
	})
	response.Success(c, pkg)
}

// UpdatePackageRequest 更新套餐请求
type UpdatePackageRequest struct {
	Name              *string       `json:"name"`
	Price             *models.Money `json:"price"`
	CommissionPercent *models.Money `json:"commission_percent"`
	Active            *bool         `json:"active"`
}

// AdminUpdatePackage 更新套餐
func (h *Handler) AdminUpdatePackage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if req.Price.Decimal.IsNegative() {
			respondError(c, response.CodeBadRequest, "套餐价格非法", nil)
			return
		}
		updates["price"] = *req.Price
	}
	if req.CommissionPercent != nil {
		updates["commission_percent"] = *req.CommissionPercent
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有需要更新的字段", nil)
		return
	}

	pkg, err := h.CatalogService.UpdatePackage(id, updates)
	if err != nil {
		if errors.Is(err, service.ErrPackageNotFound) {
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "更新套餐失败", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "package.update", pkg.Slug, models.JSON{
		"package_id": pkg.ID,
	})
	response.Success(c, pkg)
}

// GrantSpecialAccessRequest 授予专属分成请求
type GrantSpecialAccessRequest struct {
	UserID            uint         `json:"user_id" binding:"required"`
	PackageID         *uint        `json:"package_id"` // 空表示对全部套餐生效
	CommissionPercent models.Money `json:"commission_percent"`
}

// AdminGrantSpecialAccess 授予用户专属分成比例
func (h *Handler) AdminGrantSpecialAccess(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	operator := getAdminUsername(c)

	var req GrantSpecialAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	access, err := h.CatalogService.GrantSpecialAccess(service.GrantSpecialAccessInput{
		UserID:            req.UserID,
		PackageID:         req.PackageID,
		CommissionPercent: req.CommissionPercent,
		GrantedBy:         operator,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeNotFound, "用户不存在", nil)
		case errors.Is(err, service.ErrPackageNotFound):
			respondError(c, response.CodeNotFound, "套餐不存在", nil)
		default:
			respondError(c, response.CodeInternal, "授予专属分成失败", err)
		}
		return
	}

	h.recordAudit(c, adminID, operator, "special_access.grant", strconv.FormatUint(uint64(access.ID), 10), models.JSON{
		"user_id": access.UserID,
		"percent": access.CommissionPercent.String(),
	})
	response.Success(c, access)
}

// AdminRevokeSpecialAccess 停用专属分成配置
func (h *Handler) AdminRevokeSpecialAccess(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	if err := h.CatalogService.RevokeSpecialAccess(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "专属分成配置不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "停用专属分成失败", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "special_access.revoke", strconv.FormatUint(uint64(id), 10), nil)
	response.SuccessWithMsg(c, "已停用", nil)
}

// AdminListSpecialAccess 查询用户的专属分成配置
func (h *Handler) AdminListSpecialAccess(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	if userID == 0 {
		respondError(c, response.CodeBadRequest, "缺少 user_id", nil)
		return
	}

	accesses, err := h.CatalogService.ListSpecialAccess(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "查询专属分成失败", err)
		return
	}
	response.Success(c, accesses)
}
