package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/fletnix/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(ctx context.Context, email, password string, age int) (*model.User, error) {
	// DefaultCost 为 10，bcrypt 只使用密码前 72 字节，注册时已限制长度
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Age:          age,
		CreatedAt:    time.Now(),
	}

	// 并发注册同一邮箱时，后到的请求在唯一索引上失败
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, translateCreateErr(err)
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户，邮箱在服务层已转为小写
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByID 根据 ID 查找用户，鉴权中间件每个请求调用一次
func (r *UserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

// first 按条件取一条记录，不存在返回 (nil, nil)
func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// translateCreateErr 把唯一约束冲突转换为 model.ErrConflict
func translateCreateErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", model.ErrConflict, err)
	}
	return err
}
