package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/nodepress/demo-control-plane/internal/service"
)

func errorResponse(c *gin.Context, status int, code ErrorCode) {
	c.AbortWithStatusJSON(status, getErrorStruct(code))
}

// serviceErrorResponse maps service sentinels onto the HTTP taxonomy. A
// tenant mismatch is reported exactly like absence, so existence of other
// tenants' environments never leaks.
func serviceErrorResponse(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmailDomain):
		errorResponse(c, http.StatusBadRequest, InvalidEmailDomainCode)
	case errors.Is(err, service.ErrUnreachableDomain):
		errorResponse(c, http.StatusBadRequest, UnreachableDomainCode)
	case errors.Is(err, service.ErrRateLimited):
		errorResponse(c, http.StatusTooManyRequests, RateLimitedCode)
	case errors.Is(err, service.ErrInvalidToken):
		errorResponse(c, http.StatusNotFound, InvalidTokenCode)
	case errors.Is(err, service.ErrVerificationExpired):
		errorResponse(c, http.StatusForbidden, VerificationExpiredCode)
	case errors.Is(err, service.ErrVerificationBlocked):
		errorResponse(c, http.StatusForbidden, VerificationBlockedCode)
	case errors.Is(err, service.ErrProvisioningFailed):
		errorResponse(c, http.StatusInternalServerError, ProvisioningFailedCode)
	case errors.Is(err, service.ErrTenantConflict):
		errorResponse(c, http.StatusConflict, TenantConflictCode)
	case errors.Is(err, service.ErrCapacityExceeded), errors.Is(err, service.ErrNoFreePort):
		errorResponse(c, http.StatusTooManyRequests, CapacityExceededCode)
	case errors.Is(err, service.ErrTenantNotFound):
		errorResponse(c, http.StatusNotFound, TenantNotFoundCode)
	case errors.Is(err, service.ErrTenantNotActive):
		errorResponse(c, http.StatusForbidden, TenantNotActiveCode)
	default:
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode)
	}
}

func validationErrorResponse(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		response := ValidationErrorStruct{
			ErrorCode:    6000,
			ErrorMessage: "Validation error",
		}
		response.Errors = out
		c.AbortWithStatusJSON(http.StatusBadRequest, response)
		return
	}

	errorResponse(c, http.StatusBadRequest, UnknownErrorCode)
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	case "subdomain":
		return "Subdomain may only contain lowercase letters, digits and hyphens"
	}
	return tag
}
