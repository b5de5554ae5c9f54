package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/videorating/internal/comparison/application"
	"github.com/wyfcoding/videorating/internal/comparison/domain"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/metrics"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"github.com/wyfcoding/videorating/pkg/pagination"
)

// Handler 比较 API HTTP 处理器
type Handler struct {
	cmd     *application.ComparisonCommandService
	query   *application.ComparisonQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建比较 HTTP 处理器
func NewHandler(cmd *application.ComparisonCommandService, query *application.ComparisonQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，所有端点都要求登录
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	g := r.Group("/users/me/comparisons", authRequired)
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:video_id_a/", h.ListForVideo)
	g.GET("/:video_id_a/:video_id_b/", h.GetPair)
}

// List 分页列出当前用户的比较记录
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

	comparisons, total, err := h.query.ListByUser(c.Request.Context(), principal.UserID, params.Limit, params.Offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list comparisons", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: comparisons})
}

// Create 创建比较记录
func (h *Handler) Create(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		VideoA         string  `json:"video_id_a" binding:"required"`
		VideoB         string  `json:"video_id_b" binding:"required"`
		DurationMS     float64 `json:"duration_ms"`
		CriteriaScores []struct {
			Criteria string  `json:"criteria" binding:"required"`
			Score    float64 `json:"score"`
			Weight   float64 `json:"weight"`
		} `json:"criteria_scores" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.CreateComparisonCommand{
		UserID:     principal.UserID,
		VideoA:     req.VideoA,
		VideoB:     req.VideoB,
		DurationMS: req.DurationMS,
	}
	for _, cs := range req.CriteriaScores {
		cmd.CriteriaScores = append(cmd.CriteriaScores, application.CriteriaScoreInput{
			Criteria: cs.Criteria,
			Score:    cs.Score,
			Weight:   cs.Weight,
		})
	}

	comparison, err := h.cmd.Create(c.Request.Context(), cmd)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrSameVideo),
			errors.Is(err, application.ErrUnknownVideo),
			errors.Is(err, application.ErrNoCriteriaScores),
			errors.Is(err, application.ErrInvalidCriteria),
			errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error(c.Request.Context(), "Failed to create comparison", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if h.metrics != nil {
		h.metrics.ComparisonsCreatedTotal.Inc()
	}
	c.JSON(http.StatusCreated, comparison)
}

// ListForVideo 分页列出当前用户涉及某一视频的比较记录
func (h *Handler) ListForVideo(c *gin.Context) {
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

	comparisons, total, err := h.query.ListByUserAndVideo(
		c.Request.Context(), principal.UserID, c.Param("video_id_a"), params.Limit, params.Offset)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "video not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to list comparisons for video", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: comparisons})
}

// GetPair 获取当前用户对某一有序视频对的比较记录
func (h *Handler) GetPair(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	comparison, err := h.query.GetByUserAndPair(
		c.Request.Context(), principal.UserID, c.Param("video_id_a"), c.Param("video_id_b"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comparison not found"})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get comparison", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, comparison)
}
