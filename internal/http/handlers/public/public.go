package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/http/response"
	"github.com/courseplex-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPackages 在售套餐列表
func (h *Handler) GetPackages(c *gin.Context) {
	packages, err := h.CatalogService.ListPackages(true)
	if err != nil {
		respondError(c, response.CodeInternal, "查询套餐失败", err)
		return
	}
	response.Success(c, packages)
}

// GetPackageBySlug 按 slug 查询套餐
func (h *Handler) GetPackageBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "参数非法", nil)
		return
	}

	pkg, err := h.CatalogService.GetPackageBySlug(slug)
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

// GetLeaderboard 收益排行榜
func (h *Handler) GetLeaderboard(c *gin.Context) {
	window := c.DefaultQuery("window", constants.LeaderboardWindowWeekly)
	switch window {
	case constants.LeaderboardWindowDaily, constants.LeaderboardWindowWeekly,
		constants.LeaderboardWindowMonthly, constants.LeaderboardWindowLifetime:
	default:
		respondError(c, response.CodeBadRequest, "排行榜窗口非法", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.LeaderboardService.TopEarners(c.Request.Context(), window, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "查询排行榜失败", err)
		return
	}
	response.Success(c, gin.H{
		"window":  window,
		"entries": entries,
	})
}
