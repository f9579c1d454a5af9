package public

import (
	"errors"

	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/service"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	ReferrerID  *uint  `json:"referrer_id"`
}

// Register 用户注册。带推荐人时同时建立待确认邀请记录。
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	user, err := h.UserService.RegisterUser(service.RegisterUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		ReferrerID:  req.ReferrerID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, response.CodeConflict, "邮箱已被注册", nil)
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "邮箱格式非法", nil)
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, response.CodeBadRequest, "推荐人不存在", nil)
		default:
			respondError(c, response.CodeInternal, "注册失败", err)
		}
		return
	}

	requestLog(c).Infow("user_registered", "user_id", user.ID, "referrer_id", req.ReferrerID)
	response.Success(c, user)
}

// GetUserSummary 用户收益概览
func (h *Handler) GetUserSummary(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.LeaderboardService.GetUserSummary(id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "用户不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "查询收益概览失败", err)
		return
	}
	response.Success(c, summary)
}

// GetUserInvites 用户名下邀请记录
func (h *Handler) GetUserInvites(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	invites, err := h.UserService.ListInvites(id)
	if err != nil {
		respondError(c, response.CodeInternal, "查询邀请记录失败", err)
		return
	}
	response.Success(c, invites)
}
