package v1

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/service"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

func (h *Handler) initDemoRoutes(api *gin.RouterGroup) {
	demos := api.Group("/demos")

	demos.Use(h.tenantActivityMiddleware)

	demos.POST("/request", h.requestDemo)
	demos.GET("/verify/:token", h.verifyToken)
	demos.POST("/upgrade", h.requestUpgrade)
	demos.POST("/track", h.trackFeature)
	demos.POST("/login-events", h.recordLogin)
}

type requestDemoInput struct {
	Name               string  `json:"name" binding:"required,min=2,max=100"`
	Email              string  `json:"email" binding:"required,email"`
	Company            *string `json:"company" binding:"omitempty,max=100"`
	Phone              *string `json:"phone" binding:"omitempty,max=32"`
	PreferredSubdomain *string `json:"preferred_subdomain" binding:"omitempty,subdomain"`
}

func (h *Handler) requestDemo(c *gin.Context) {
	var input requestDemoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	err := h.services.Gateway.RequestDemo(c.Request.Context(), service.RequestDemoInput{
		Email:              input.Email,
		Name:               input.Name,
		Company:            input.Company,
		Phone:              input.Phone,
		PreferredSubdomain: input.PreferredSubdomain,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"pending": true})
}

type verifyTokenResponse struct {
	Subdomain     string    `json:"subdomain"`
	AccessURL     string    `json:"access_url"`
	AdminEmail    string    `json:"admin_email"`
	AdminPassword string    `json:"admin_password,omitempty"`
	AccessToken   string    `json:"access_token"`
	SessionToken  string    `json:"session_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// demoCookie is readable by the frontend for the countdown banner, so it is
// deliberately not HTTP-only and carries no credentials.
type demoCookie struct {
	ID        string    `json:"id"`
	Subdomain string    `json:"subdomain"`
	ExpiresAt time.Time `json:"expires_at"`
}

const demoCookieName = "demo_session"

func (h *Handler) verifyToken(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		errorResponse(c, http.StatusBadRequest, InvalidTokenCode)
		return
	}

	creds, err := h.services.Gateway.VerifyToken(c.Request.Context(), token)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	sessionToken, _, err := h.tokenManager.NewTenantJWT(creds.TenantID)
	if err != nil {
		logger.Error("issue tenant session token failed", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode)
		return
	}

	h.setDemoCookie(c, creds)

	if err := h.services.Activity.OpenSession(c.Request.Context(), creds.TenantID, c.Request.UserAgent(), c.ClientIP()); err != nil {
		logger.Warn("record demo session failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, verifyTokenResponse{
		Subdomain:     creds.Subdomain,
		AccessURL:     creds.AccessURL,
		AdminEmail:    creds.AdminEmail,
		AdminPassword: creds.AdminPassword,
		AccessToken:   creds.AccessToken,
		SessionToken:  sessionToken,
		ExpiresAt:     creds.ExpiresAt,
	})
}

func (h *Handler) setDemoCookie(c *gin.Context, creds *service.TenantCredentials) {
	payload, err := json.Marshal(demoCookie{
		ID:        creds.TenantID.String(),
		Subdomain: creds.Subdomain,
		ExpiresAt: creds.ExpiresAt,
	})
	if err != nil {
		logger.Error("marshal demo cookie failed", zap.Error(err))
		return
	}

	maxAge := int(time.Until(creds.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}

	c.SetCookie(demoCookieName, base64.RawURLEncoding.EncodeToString(payload), maxAge, "/", "", true, false)
}

type requestUpgradeInput struct {
	AccessToken string  `json:"access_token" binding:"required"`
	Notes       *string `json:"notes" binding:"omitempty,max=2000"`
}

func (h *Handler) requestUpgrade(c *gin.Context) {
	var input requestUpgradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Lifecycle.RequestUpgrade(c.Request.Context(), input.AccessToken, input.Notes); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

type trackFeatureInput struct {
	AccessToken string  `json:"access_token" binding:"required"`
	Feature     string  `json:"feature" binding:"required,max=100"`
	Action      string  `json:"action" binding:"required,max=100"`
	Metadata    *string `json:"metadata" binding:"omitempty,max=4000"`
}

// trackFeature is fire-and-forget: the caller always gets an ack, failures
// only make it into the logs.
func (h *Handler) trackFeature(c *gin.Context) {
	var input trackFeatureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	err := h.services.Activity.TrackFeature(c.Request.Context(), input.AccessToken, input.Feature, input.Action, input.Metadata)
	if err != nil {
		logger.Warn("track feature failed",
			zap.String("feature", input.Feature),
			zap.Error(err),
		)
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}

type recordLoginInput struct {
	AccessToken string `json:"access_token" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Success     bool   `json:"success"`
	IP          string `json:"ip" binding:"omitempty,ip"`
}

// recordLogin ingests admin login attempts reported by demo instances. Same
// fire-and-forget contract as trackFeature.
func (h *Handler) recordLogin(c *gin.Context) {
	var input recordLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	ip := input.IP
	if ip == "" {
		ip = c.ClientIP()
	}

	err := h.services.Activity.RecordLogin(c.Request.Context(), input.AccessToken, input.Email, input.Success, ip)
	if err != nil {
		logger.Warn("record login attempt failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true})
}
