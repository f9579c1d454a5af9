package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/courseplex-next/internal/http/handlers/shared"
	"github.com/courseplex-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "admin_id", "管理员 ID 非法", "管理员 ID 类型错误")
}

func getAdminUsername(c *gin.Context) string {
	value, ok := c.Get("username")
	if !ok {
		return ""
	}
	if username, ok := value.(string); ok {
		return username
	}
	return ""
}

func getRequestID(c *gin.Context) string {
	value, ok := c.Get("request_id")
	if !ok {
		return ""
	}
	if id, ok := value.(string); ok {
		return id
	}
	return ""
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "参数非法", nil)
		return 0, false
	}
	return uint(value), true
}

func parseUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

func parseTimeQuery(c *gin.Context, name string) *time.Time {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
