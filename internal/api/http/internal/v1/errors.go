package v1

// Error codes surfaced in the response envelope alongside the HTTP status.
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	InvalidEmailDomainCode     = 2001
	InvalidEmailDomainMessage  = "email domain is not allowed for trials, use a work address"
	UnreachableDomainCode      = 2002
	UnreachableDomainMessage   = "email domain has no mail exchanger"
	RateLimitedCode            = 2003
	RateLimitedMessage         = "too many verification emails, check your spam folder"
	InvalidTokenCode           = 2004
	InvalidTokenMessage        = "verification token not found"
	VerificationExpiredCode    = 2005
	VerificationExpiredMessage = "verification link expired, request a new demo"
	VerificationBlockedCode    = 2006
	VerificationBlockedMessage = "verification blocked after too many attempts"
	ProvisioningFailedCode     = 2007
	ProvisioningFailedMessage  = "demo environment could not be provisioned, contact support"

	TenantConflictCode      = 3001
	TenantConflictMessage   = "an active demo already exists for this email"
	CapacityExceededCode    = 3002
	CapacityExceededMessage = "all demo slots are in use, try again later"
	TenantNotFoundCode      = 3003
	TenantNotFoundMessage   = "demo environment not found"
	TenantNotActiveCode     = 3004
	TenantNotActiveMessage  = "demo environment is no longer active"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
}

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	messages := map[ErrorCode]ErrorMessage{
		InvalidEmailDomainCode:  InvalidEmailDomainMessage,
		UnreachableDomainCode:   UnreachableDomainMessage,
		RateLimitedCode:         RateLimitedMessage,
		InvalidTokenCode:        InvalidTokenMessage,
		VerificationExpiredCode: VerificationExpiredMessage,
		VerificationBlockedCode: VerificationBlockedMessage,
		ProvisioningFailedCode:  ProvisioningFailedMessage,
		TenantConflictCode:      TenantConflictMessage,
		CapacityExceededCode:    CapacityExceededMessage,
		TenantNotFoundCode:      TenantNotFoundMessage,
		TenantNotActiveCode:     TenantNotActiveMessage,
	}

	if msg, ok := messages[code]; ok {
		errorStruct.ErrorCode = code
		errorStruct.ErrorMessage = msg
	}

	return errorStruct
}
