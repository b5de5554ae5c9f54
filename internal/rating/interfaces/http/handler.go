package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/videorating/internal/rating/application"
	"github.com/wyfcoding/videorating/internal/rating/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/metrics"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"github.com/wyfcoding/videorating/pkg/pagination"
)

// Handler 评分 API HTTP 处理器
type Handler struct {
	cmd     *application.RatingCommandService
	query   *application.RatingQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建评分 HTTP 处理器
func NewHandler(cmd *application.RatingCommandService, query *application.RatingQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，所有端点都要求登录
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/users/me/contributor_ratings", authRequired)
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.PATCH("/_all/", h.UpdateAll)
	g.GET("/:video_id/", h.Get)
	g.PUT("/:video_id/", h.Update)
	g.PATCH("/:video_id/", h.Update)
}

// List 分页列出当前用户的评分，可按 is_public 过滤
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

	q := application.ListRatingsQuery{
		UserID: principal.UserID,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	switch c.Query("is_public") {
	case "":
	case "true":
		isPublic := true
		q.IsPublic = &isPublic
	case "false":
		isPublic := false
		q.IsPublic = &isPublic
	default:
		c.JSON(http.StatusBadRequest, gin.H{"is_public": "'is_public' query param must be 'true' or 'false'"})
		return
	}

	ratings, total, err := h.query.List(c.Request.Context(), q)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list contributor ratings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: ratings})
}

// Create 初始化当前用户对某一视频的评分记录
func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		VideoID  string `json:"video_id" binding:"required"`
		IsPublic bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"video_id": "'video_id' field is required"})
		return
	}

	rating, err := h.cmd.Create(c.Request.Context(), application.CreateRatingCommand{
		UserID:   principal.UserID,
		VideoID:  req.VideoID,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownVideo):
			c.JSON(http.StatusBadRequest, gin.H{"video_id": err.Error()})
		case errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"video_id": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to create contributor rating", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.RatingsCreatedTotal.Inc()
	}
	c.JSON(http.StatusCreated, rating)
}

// Get 获取当前用户对某一视频的评分
func (h *Handler) Get(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	rating, err := h.query.Get(c.Request.Context(), principal.UserID, c.Param("video_id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contributor rating not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get contributor rating", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, rating)
}

// Update 更新当前用户对某一视频评分的公开状态。
// PUT 要求提供 is_public；PATCH 缺省时保持现状并返回当前表示。
func (h *Handler) Update(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"is_public": "'is_public' must be a boolean"})
		return
	}

	videoID := c.Param("video_id")

	if req.IsPublic == nil {
		if c.Request.Method == http.MethodPut {
			c.JSON(http.StatusBadRequest, gin.H{"is_public": "'is_public' field is required"})
			return
		}
		rating, err := h.query.Get(c.Request.Context(), principal.UserID, videoID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "contributor rating not found"})
				return
			}
			logger.Error(c.Request.Context(), "Failed to get contributor rating", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusOK, rating)
		return
	}

	rating, err := h.cmd.UpdateVisibility(c.Request.Context(), application.UpdateVisibilityCommand{
		UserID:   principal.UserID,
		VideoID:  videoID,
		IsPublic: *req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "contributor rating not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to update contributor rating", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.metrics != nil {
		h.metrics.RatingVisibilityUpdates.Inc()
	}
	c.JSON(http.StatusOK, rating)
}

// UpdateAll 将当前用户的全部评分置为公开或私有
func (h *Handler) UpdateAll(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		IsPublic *bool `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPublic == nil {
		c.JSON(http.StatusBadRequest, gin.H{"is_public": "'is_public' field is required and must be a boolean"})
		return
	}

	if err := h.cmd.UpdateAllVisibility(c.Request.Context(), principal.UserID, *req.IsPublic); err != nil {
		logger.Error(c.Request.Context(), "Failed to bulk update contributor ratings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.metrics != nil {
		h.metrics.RatingVisibilityUpdates.Inc()
	}
	c.JSON(http.StatusOK, gin.H{"is_public": *req.IsPublic})
}
