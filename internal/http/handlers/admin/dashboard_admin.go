package admin

import (
	"strconv"

	"github.com/courseplex-next/internal/constants"
	"github.com/courseplex-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboardOverview 平台收益总览
func (h *Handler) GetDashboardOverview(c *gin.Context) {
	overview, err := h.LeaderboardService.GetPlatformOverview()
	if err != nil {
		respondError(c, response.CodeInternal, "查询平台总览失败", err)
		return
	}
	response.Success(c, overview)
}

// GetDashboardRankings 收益排行榜 (Admin)
func (h *Handler) GetDashboardRankings(c *gin.Context) {
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
