package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nodepress/demo-control-plane/internal/domain"
	"github.com/nodepress/demo-control-plane/internal/repository"
)

func (h *Handler) initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin", h.adminIdentityMiddleware)

	demos := admin.Group("/demos")
	demos.GET("", h.listDemos)
	demos.GET("/analytics", h.demoAnalytics)
	demos.GET("/:id", h.getDemo)
	demos.POST("/:id/extend", h.extendDemo)
	demos.DELETE("/:id", h.terminateDemo)
}

type tenantResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Subdomain          string              `json:"subdomain"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Company            *string             `json:"company,omitempty"`
	Phone              *string             `json:"phone,omitempty"`
	ResourcePort       int                 `json:"resource_port"`
	Status             domain.TenantStatus `json:"status"`
	ExpiresAt          time.Time           `json:"expires_at"`
	CreatedAt          time.Time           `json:"created_at"`
	StartedAt          *time.Time          `json:"started_at,omitempty"`
	LastAccessedAt     *time.Time          `json:"last_accessed_at,omitempty"`
	RequestCount       int64               `json:"request_count"`
	UpgradeRequested   bool                `json:"upgrade_requested"`
	UpgradeRequestedAt *time.Time          `json:"upgrade_requested_at,omitempty"`
	UpgradeNotes       *string             `json:"upgrade_notes,omitempty"`
	FailureReason      *string             `json:"failure_reason,omitempty"`
}

func toTenantResponse(t *domain.Tenant) tenantResponse {
	return tenantResponse{
		ID:                 t.ID,
		Subdomain:          t.Subdomain,
		Name:               t.Name,
		Email:              t.Email,
		Company:            t.Company,
		Phone:              t.Phone,
		ResourcePort:       t.ResourcePort,
		Status:             t.Status,
		ExpiresAt:          t.ExpiresAt,
		CreatedAt:          t.CreatedAt,
		StartedAt:          t.StartedAt,
		LastAccessedAt:     t.LastAccessedAt,
		RequestCount:       t.RequestCount,
		UpgradeRequested:   t.UpgradeRequested,
		UpgradeRequestedAt: t.UpgradeRequestedAt,
		UpgradeNotes:       t.UpgradeNotes,
		FailureReason:      t.FailureReason,
	}
}

type listDemosQuery struct {
	Status *string `form:"status" binding:"omitempty,oneof=PENDING PROVISIONING RUNNING PAUSED EXPIRED TERMINATED FAILED"`
	Email  *string `form:"email" binding:"omitempty,email"`
	Limit  int     `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int     `form:"offset" binding:"min=0"`
}

func (h *Handler) listDemos(c *gin.Context) {
	var query listDemosQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		validationErrorResponse(c, err)
		return
	}

	filters := &repository.TenantFilters{
		Email:  query.Email,
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if query.Status != nil {
		status := domain.TenantStatus(*query.Status)
		filters.Status = &status
	}

	tenants, err := h.services.Lifecycle.ListTenants(c.Request.Context(), filters)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	out := make([]tenantResponse, len(tenants))
	for i, t := range tenants {
		out[i] = toTenantResponse(t)
	}

	c.JSON(http.StatusOK, gin.H{"demos": out})
}

func (h *Handler) getDemo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, TenantNotFoundCode)
		return
	}

	detail, err := h.services.Lifecycle.GetTenantDetail(c.Request.Context(), id)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"demo":          toTenantResponse(detail.Tenant),
		"content_count": detail.ContentCount,
	})
}

type extendDemoInput struct {
	Hours int `json:"hours" binding:"required,min=1,max=72"`
}

func (h *Handler) extendDemo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, TenantNotFoundCode)
		return
	}

	var input extendDemoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tenant, err := h.services.Lifecycle.ExtendTenant(c.Request.Context(), id, input.Hours)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"demo": toTenantResponse(tenant)})
}

func (h *Handler) terminateDemo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusNotFound, TenantNotFoundCode)
		return
	}

	if err := h.services.Lifecycle.TerminateTenant(c.Request.Context(), id); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) demoAnalytics(c *gin.Context) {
	summary, err := h.services.Lifecycle.GetAnalyticsSummary(c.Request.Context())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenants_by_status": summary.TenantsByStatus,
		"feature_usage":     summary.FeatureUsage,
		"total_tenants":     summary.TotalTenants,
		"upgrade_requests":  summary.UpgradeRequests,
		"conversion_rate":   summary.ConversionRate,
	})
}
