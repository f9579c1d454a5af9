package service

import "errors"

// 服务层通用错误定义
var (
	ErrNotFound             = errors.New("record not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrPackageNotFound      = errors.New("package not found")
	ErrOrderNotFound        = errors.New("order not found")
	ErrWithdrawNotFound     = errors.New("withdraw request not found")
	ErrOrderNotPending      = errors.New("order is not pending approval")
	ErrWithdrawNotPending   = errors.New("withdraw request is not pending")
	ErrConcurrentSettlement = errors.New("order settled by another operator")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAction        = errors.New("invalid review action")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrWeakPassword         = errors.New("password too weak")
	ErrDuplicateSlug        = errors.New("package slug already exists")
	ErrDuplicateOrderNo     = errors.New("order no already exists")
	ErrSelfReferral         = errors.New("buyer and referrer are the same user")
	ErrEmailTaken           = errors.New("email already registered")
)

// 邮件服务错误定义
var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)
