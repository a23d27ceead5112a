package router

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/user/fletnix/internal/handler"
	"github.com/user/fletnix/internal/middleware"
	"github.com/user/fletnix/internal/model"
)

// NewEngine 创建 Gin 实例并挂载中间件和路由
func NewEngine(h *handler.Handler) *gin.Engine {
	// 注册 Session 模型
	gob.Register(model.SessionUser{})

	if h.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// 启用 gzip，默认压缩级别
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 设置 Session 中间件
	store := cookie.NewStore([]byte(h.Config.AppSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(h.Config.JWTExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("fletnix_session", store))

	// 中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Security())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterRoutes(r, h)
	return r
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	api := r.Group("/api")

	// 健康检查
	api.GET("/health", h.Health)

	// ==================== 认证 ====================
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}

	requireAuth := middleware.RequireAuth(h.Config.AppSecret, h.Auth)

	// ==================== 用户 ====================
	user := api.Group("/user")
	user.Use(requireAuth)
	{
		user.GET("/me", h.Me)
	}

	// ==================== 节目目录 ====================
	shows := api.Group("/shows")
	shows.Use(requireAuth)
	{
		shows.GET("", h.ListShows)
		shows.GET("/:id", h.GetShow)
		shows.GET("/:id/recommendations", h.Recommendations)
	}
}
