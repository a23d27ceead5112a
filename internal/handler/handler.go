package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/user/fletnix/internal/config"
	"github.com/user/fletnix/internal/service"
	"github.com/user/fletnix/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Config  *config.Config
	Catalog *service.CatalogService
	Auth    *service.AuthService
}

// NewHandler 创建处理器
func NewHandler(cfg *config.Config, catalog *service.CatalogService, auth *service.AuthService) *Handler {
	return &Handler{
		Config:  cfg,
		Catalog: catalog,
		Auth:    auth,
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError 把业务错误映射为 HTTP 响应，未知错误只记录日志
func (h *Handler) respondError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, "Show not found")
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, "Content not available for your age")
	case errors.Is(err, service.ErrInvalidInput):
		utils.BadRequest(c, strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": "))
	case errors.Is(err, service.ErrEmailTaken):
		utils.Conflict(c, "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid email or password")
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("op", op).Msg("请求处理失败")
		utils.InternalServerError(c)
	}
}
