package admin

import (
	"strconv"
	"strings"

	"github.com/courseplex-next/internal/authz"
	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/models"
	"github.com/courseplex-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// CreateRoleRequest 创建角色请求
type CreateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// AdminCreateAuthzRole 创建空角色
func (h *Handler) AdminCreateAuthzRole(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "角色名非法", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "authz.role_create", role, nil)
	response.Success(c, gin.H{"role": role})
}

// AdminGetAuthzRolePolicies 查询角色权限
func (h *Handler) AdminGetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "参数非法", nil)
		return
	}

	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "查询角色权限失败", err)
		return
	}
	response.Success(c, policies)
}

// PolicyRequest 角色权限变更请求
type PolicyRequest struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// AdminGrantAuthzPolicy 授予角色权限
func (h *Handler) AdminGrantAuthzPolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "授予权限失败", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "authz.policy_grant", req.Role, models.JSON{
		"object": authz.NormalizeObject(req.Object),
		"action": authz.NormalizeAction(req.Action),
	})
	response.SuccessWithMsg(c, "权限已授予", nil)
}

// AdminRevokeAuthzPolicy 撤销角色权限
func (h *Handler) AdminRevokeAuthzPolicy(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "撤销权限失败", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "authz.policy_revoke", req.Role, models.JSON{
		"object": authz.NormalizeObject(req.Object),
		"action": authz.NormalizeAction(req.Action),
	})
	response.SuccessWithMsg(c, "权限已撤销", nil)
}

// AdminGetAuthzAdminRoles 查询管理员角色
func (h *Handler) AdminGetAuthzAdminRoles(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "查询管理员角色失败", err)
		return
	}
	response.Success(c, gin.H{"admin_id": id, "roles": roles})
}

// SetAdminRolesRequest 设置管理员角色请求
type SetAdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// AdminSetAuthzAdminRoles 覆盖设置管理员角色
func (h *Handler) AdminSetAuthzAdminRoles(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req SetAdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "设置管理员角色失败", err)
		return
	}

	h.recordAudit(c, adminID, getAdminUsername(c), "authz.admin_roles_set", strconv.FormatUint(uint64(id), 10), models.JSON{
		"roles": req.Roles,
	})
	response.SuccessWithMsg(c, "管理员角色已更新", nil)
}

// AdminListAuthzAuditLogs 操作审计日志列表
func (h *Handler) AdminListAuthzAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.AuthzAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: parseUintQuery(c, "operator_admin_id"),
		Action:          strings.TrimSpace(c.Query("action")),
		CreatedFrom:     parseTimeQuery(c, "created_from"),
		CreatedTo:       parseTimeQuery(c, "created_to"),
	}

	logs, total, err := h.AuthzAuditService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "查询审计日志失败", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, logs, pagination)
}
