package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"not null"`
	Age          int       `json:"age" db:"age"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID    int
	Email string
	Age   int
}
