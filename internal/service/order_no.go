package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// newOrderNo 生成订单号：时间戳 + UUID 片段
func newOrderNo() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return "CP" + time.Now().Format("20060102150405") + strings.ToUpper(suffix)
}
