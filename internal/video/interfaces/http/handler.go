package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/videorating/internal/video/application"
	"github.com/wyfcoding/videorating/internal/video/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/pagination"
)

// Handler 视频目录 HTTP 处理器
type Handler struct {
	svc *application.VideoService
}

// NewHandler 创建视频 HTTP 处理器
func NewHandler(svc *application.VideoService) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册路由，authRequired 用于需要登录的端点
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/video")
	g.GET("/", h.List)
	g.GET("/:video_id/", h.Get)
	g.POST("/", authRequired, h.Create)
}

// List 分页列出视频
func (h *Handler) List(c *gin.Context) {
	params, err := pagination.FromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	videos, total, err := h.svc.List(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list videos", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: videos})
}

// Get 按外部标识获取视频
func (h *Handler) Get(c *gin.Context) {
	video, err := h.svc.Get(c.Request.Context(), c.Param("video_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get video", "video_id", c.Param("video_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// Create 登记一个新视频
func (h *Handler) Create(c *gin.Context) {
	var req struct {
		VideoID  string `json:"video_id" binding:"required"`
		Name     string `json:"name"`
		Uploader string `json:"uploader"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	video, err := h.svc.Create(c.Request.Context(), application.CreateVideoCommand{
		VideoID:  req.VideoID,
		Name:     req.Name,
		Uploader: req.Uploader,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidVideoID), errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to create video", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, video)
}
