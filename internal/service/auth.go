package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/fletnix/internal/model"
)

// UserStore 用户存储
type UserStore interface {
	Create(ctx context.Context, email, password string, age int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	CheckPassword(user *model.User, password string) bool
}

// RegisterInput 注册参数
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Age      *int   `json:"age" validate:"required,min=0,max=150"`
}

// LoginInput 登录参数
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService 用户认证服务
type AuthService struct {
	users UserStore
}

// NewAuthService 创建认证服务
func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register 注册新用户
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	// 检查邮箱是否已存在
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	user, err := s.users.Create(ctx, in.Email, in.Password, *in.Age)
	if errors.Is(err, model.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}
	return user, nil
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*model.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}
	if user == nil || !s.users.CheckPassword(user, in.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FindUser 根据 ID 获取用户，不存在返回 nil
func (s *AuthService) FindUser(ctx context.Context, id int) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
