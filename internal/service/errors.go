package service

import "errors"

// 业务错误，handler 根据这些错误返回对应的 HTTP 状态码
var (
	ErrNotFound           = errors.New("show not found")
	ErrForbidden          = errors.New("content not available for your age")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
