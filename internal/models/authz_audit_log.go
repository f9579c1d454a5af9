package models

import "time"

// AuthzAuditLog 管理端操作审计日志
// 说明：记录结算/提现等关键管理动作，支持按管理员与时间范围检索。
type AuthzAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator_username"`
	Action           string    `gorm:"type:varchar(100);index;not null" json:"action"`
	Object           string    `gorm:"type:varchar(255);index;not null;default:''" json:"object"`
	RequestID        string    `gorm:"type:varchar(64);index;not null;default:''" json:"request_id"`
	DetailJSON       JSON      `gorm:"type:json" json:"detail"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
