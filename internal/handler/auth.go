package handler

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/user/fletnix/internal/middleware"
	"github.com/user/fletnix/internal/model"
	"github.com/user/fletnix/internal/service"
	"github.com/user/fletnix/internal/utils"
)

// userResponse 对外暴露的用户信息
type userResponse struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Age   int    `json:"age"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Age: u.Age}
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "register")
		return
	}

	h.login(c, http.StatusCreated, user)
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var in service.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err, "login")
		return
	}

	h.login(c, http.StatusOK, user)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearTokenCookie(c)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("清理 Session 失败")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me 当前登录用户
func (h *Handler) Me(c *gin.Context) {
	user := middleware.GetUser(c)
	c.JSON(http.StatusOK, toUserResponse(user))
}

// login 生成 JWT，写入 Cookie 和 Session
func (h *Handler) login(c *gin.Context, status int, user *model.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		h.respondError(c, err, "generate token")
		return
	}
	middleware.SetTokenCookie(c, token, h.Config.JWTExpiry)

	// 保存 UserInfo 到 Session
	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:    user.ID,
		Email: user.Email,
		Age:   user.Age,
	})
	if err := session.Save(); err != nil {
		log.Warn().Err(err).Msg("保存 Session 失败")
	}

	c.JSON(status, authResponse{User: toUserResponse(user), Token: token})
}
