package public

import (
	"strconv"
	"strings"

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

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		respondError(c, response.CodeBadRequest, "参数非法", nil)
		return 0, false
	}
	return uint(value), true
}
