package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/videorating/internal/ratelater/application"
	"github.com/wyfcoding/videorating/internal/ratelater/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"github.com/wyfcoding/videorating/pkg/pagination"
)

// Handler 待评视频 HTTP 处理器
type Handler struct {
	svc *application.RateLaterService
}

// NewHandler 创建待评视频 HTTP 处理器
func NewHandler(svc *application.RateLaterService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由，所有端点都要求登录
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/users/me/video_rate_later", authRequired)
	g.GET("/", h.List)
	g.POST("/", h.Add)
	g.GET("/:video_id/", h.Get)
	g.DELETE("/:video_id/", h.Remove)
}

// List 分页列出当前用户的待评视频
func (h *Handler) List(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	params, err := pagination.FromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries, total, err := h.svc.List(c.Request.Context(), principal.UserID, params.Limit, params.Offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list rate-later videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: entries})
}

// Add 将视频加入当前用户的待评列表
func (h *Handler) Add(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		VideoID string `json:"video_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"video_id": "'video_id' field is required"})
		return
	}

	entry, err := h.svc.Add(c.Request.Context(), principal.UserID, req.VideoID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownVideo), errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"video_id": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to add rate-later video", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Get 获取当前用户待评列表中的某一视频
func (h *Handler) Get(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), principal.UserID, c.Param("video_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found in rate-later list"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get rate-later video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Remove 将视频从当前用户的待评列表移除
func (h *Handler) Remove(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.svc.Remove(c.Request.Context(), principal.UserID, c.Param("video_id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found in rate-later list"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to remove rate-later video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
