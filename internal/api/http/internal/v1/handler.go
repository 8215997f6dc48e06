package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/nodepress/demo-control-plane/internal/config"
	"github.com/nodepress/demo-control-plane/internal/service"
	"github.com/nodepress/demo-control-plane/pkg/auth"
)

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initDemoRoutes(v1)
	h.initAdminRoutes(v1)
}
