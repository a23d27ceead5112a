package model

import "errors"

// ErrConflict 写入违反唯一约束（例如邮箱已注册）
var ErrConflict = errors.New("conflict")
