package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/fletnix/internal/middleware"
	"github.com/user/fletnix/internal/service"
)

// ListShows 节目列表（分页、搜索、类型和题材过滤）
func (h *Handler) ListShows(c *gin.Context) {
	user := middleware.GetUser(c)

	// 非法或小于 1 的页码统一按第一页处理
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	list, err := h.Catalog.ListShows(c.Request.Context(), service.ListQuery{
		UserAge: user.Age,
		Page:    page,
		Search:  c.Query("q"),
		Type:    c.Query("type"),
		Genre:   c.Query("genre"),
	})
	if err != nil {
		h.respondError(c, err, "list shows")
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetShow 节目详情，id 可以是主键或 show_id
func (h *Handler) GetShow(c *gin.Context) {
	user := middleware.GetUser(c)

	show, err := h.Catalog.GetShow(c.Request.Context(), user.Age, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get show")
		return
	}

	c.JSON(http.StatusOK, show)
}

// Recommendations 同题材推荐
func (h *Handler) Recommendations(c *gin.Context) {
	user := middleware.GetUser(c)

	shows, err := h.Catalog.Recommend(c.Request.Context(), user.Age, c.Param("id"))
	if err != nil {
		h.respondError(c, err, "get recommendations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": shows})
}
