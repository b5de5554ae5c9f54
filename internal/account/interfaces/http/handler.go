package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/videorating/internal/account/application"
	"github.com/wyfcoding/videorating/internal/account/domain"
	authapp "github.com/wyfcoding/videorating/internal/auth/application"
	"github.com/wyfcoding/videorating/pkg/logger"
	"github.com/wyfcoding/videorating/pkg/metrics"
	"github.com/wyfcoding/videorating/pkg/middleware"
	"github.com/wyfcoding/videorating/pkg/pagination"
)

// Handler 账户 API HTTP 处理器
type Handler struct {
	cmd     *application.AccountCommandService
	query   *application.AccountQueryService
	tokens  *authapp.TokenService
	metrics *metrics.Metrics
}

// NewHandler 创建账户 HTTP 处理器
func NewHandler(cmd *application.AccountCommandService, query *application.AccountQueryService, tokens *authapp.TokenService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, tokens: tokens, metrics: m}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authRequired gin.HandlerFunc) {
	accounts := r.Group("/accounts")
	accounts.POST("/register/", h.Register)
	accounts.POST("/login/", h.Login)
	accounts.GET("/profile/", authRequired, h.Profile)
	accounts.POST("/register-email/", authRequired, h.RequestEmailChange)
	accounts.GET("/verify-email/", h.VerifyEmail)

	r.DELETE("/users/me/", authRequired, h.DeleteAccount)
	r.GET("/domains/", h.ListDomains)
}

// Register 注册新用户
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"password_confirm"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := h.cmd.Register(c.Request.Context(), application.RegisterCommand{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		var fieldErrs application.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, fieldErrs)
			return
		}
		logger.Error(c.Request.Context(), "Failed to register user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.metrics != nil {
		h.metrics.UsersRegisteredTotal.Inc()
	}
	c.JSON(http.StatusCreated, profile)
}

// Login 校验凭证并签发访问令牌
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'username' and 'password' fields are required"})
		return
	}

	user, err := h.cmd.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to log in user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	token, expiresIn, err := h.tokens.Issue(user.ID, user.Username)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to issue access token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	})
}

// Profile 返回当前用户的账户信息
func (h *Handler) Profile(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	profile, err := h.query.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to load profile", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RequestEmailChange 向新邮箱发送验证链接
func (h *Handler) RequestEmailChange(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.cmd.RequestEmailChange(c.Request.Context(), principal.UserID, req.Email); err != nil {
		var fieldErrs application.FieldErrors
		if errors.As(err, &fieldErrs) {
			c.JSON(http.StatusBadRequest, fieldErrs)
			return
		}
		logger.Error(c.Request.Context(), "Failed to request email change", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "verification email sent"})
}

// VerifyEmail 消费验证令牌并更新邮箱
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("verification_key")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"verification_key": "'verification_key' query param is required"})
		return
	}

	if err := h.cmd.VerifyEmail(c.Request.Context(), token); err != nil {
		if errors.Is(err, domain.ErrVerificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"email": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to verify email", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "email address verified"})
}

// DeleteAccount 注销当前用户并删除其全部数据
func (h *Handler) DeleteAccount(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	if err := h.cmd.DeleteAccount(c.Request.Context(), principal.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to delete account", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if h.metrics != nil {
		h.metrics.UsersDeletedTotal.Inc()
	}
	c.Status(http.StatusNoContent)
}

// ListDomains 分页列出邮箱域名，status 取 accepted 或 rejected，缺省为 accepted
func (h *Handler) ListDomains(c *gin.Context) {
	params, err := pagination.FromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var status string
	switch c.DefaultQuery("status", "accepted") {
	case "accepted":
		status = domain.DomainStatusAccepted
	case "rejected":
		status = domain.DomainStatusRejected
	default:
		c.JSON(http.StatusBadRequest, gin.H{"status": "'status' query param must be 'accepted' or 'rejected'"})
		return
	}

	domains, total, err := h.query.ListDomains(c.Request.Context(), status, params.Limit, params.Offset)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list email domains", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, pagination.Page{Count: total, Results: domains})
}
