package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/pkg/auth"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

const authorizationHeader = "Authorization"

// adminIdentityMiddleware admits staff sessions only. Tenant-tagged tokens
// are rejected outright so a trial session can never reach the control
// plane, regardless of which claims it carries otherwise.
func (h *Handler) adminIdentityMiddleware(c *gin.Context) {
	claims, err := h.parseAuthHeader(c)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			logger.Error("parse auth header failed", zap.Error(err))
		}
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if claims.IsTenant {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	c.Next()
}

// tenantActivityMiddleware appends an access-log row for requests that carry
// a tenant session token. Public requests pass through untouched, and a
// failed write never affects the response.
func (h *Handler) tenantActivityMiddleware(c *gin.Context) {
	c.Next()

	claims, err := h.parseAuthHeader(c)
	if err != nil || !claims.IsTenant {
		return
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return
	}

	err = h.services.Activity.RecordAccess(
		c.Request.Context(),
		tenantID,
		c.Request.Method,
		c.FullPath(),
		c.Writer.Status(),
	)
	if err != nil {
		logger.Warn("record tenant access failed", zap.Error(err))
	}
}

func (h *Handler) parseAuthHeader(c *gin.Context) (*auth.SessionClaims, error) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		return nil, errors.New("empty auth header")
	}

	headerParts := strings.Split(header, " ")
	if len(headerParts) != 2 || headerParts[0] != "Bearer" {
		return nil, errors.New("invalid auth header")
	}

	if len(headerParts[1]) == 0 {
		return nil, errors.New("token is empty")
	}

	return h.tokenManager.Parse(headerParts[1])
}
