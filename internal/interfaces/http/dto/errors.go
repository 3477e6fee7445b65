package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeServiceFailure is used when an upstream service (mail, storage) fails
	ErrCodeServiceFailure = "ERR_SERVICE_FAILURE"
	// ErrCodeFeatureDisabled is used when an optional feature is not configured
	ErrCodeFeatureDisabled = "ERR_FEATURE_DISABLED"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeDateRequired is used when a form is submitted without a date
	ErrCodeDateRequired = "ERR_DATE_REQUIRED"
	// ErrCodeEmployeeNameRequired is used when the Safe form has no employee name
	ErrCodeEmployeeNameRequired = "ERR_EMPLOYEE_NAME_REQUIRED"
	// ErrCodeInvalidShift is used for a Daily form shift other than manana/noche
	ErrCodeInvalidShift = "ERR_INVALID_SHIFT"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the auth token has been revoked
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
	// ErrCodeInvalidCredentials is used for a wrong email/password
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	// ErrCodeAccountDeactivated is used when a deactivated account is signed out
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
	// ErrCodeOrgRequired is used when a non-admin has no organization
	ErrCodeOrgRequired = "ERR_ORG_REQUIRED"
	// ErrCodeResetTokenInvalid is used for an unknown or used reset link
	ErrCodeResetTokenInvalid = "ERR_RESET_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeSubmissionInFlight is used when the same form instance is already saving
	ErrCodeSubmissionInFlight = "ERR_SUBMISSION_IN_FLIGHT"
)

// Business rule and storage error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodePersistence is used when the store rejected a write; the message is the store's
	ErrCodePersistence = "ERR_PERSISTENCE"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:         http.StatusInternalServerError,
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeServiceFailure:  http.StatusBadGateway,
	ErrCodeFeatureDisabled: http.StatusNotFound,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeValidationRequired:   http.StatusBadRequest,
	ErrCodeValidationFormat:     http.StatusBadRequest,
	ErrCodeDateRequired:         http.StatusBadRequest,
	ErrCodeEmployeeNameRequired: http.StatusBadRequest,
	ErrCodeInvalidShift:         http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDeactivated: http.StatusUnauthorized,
	ErrCodeOrgRequired:        http.StatusForbidden,
	ErrCodeResetTokenInvalid:  http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeSubmissionInFlight: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule: http.StatusUnprocessableEntity,
	ErrCodePersistence:  http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ORG_NOT_FOUND":          ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeAlreadyExists,
	"EMAIL_TAKEN":            ErrCodeAlreadyExists,
	"INVALID_INPUT":          ErrCodeInvalidInput,
	"INVALID_EMAIL":          ErrCodeValidationFormat,
	"INVALID_PASSWORD":       ErrCodeValidationFormat,
	"INVALID_ORG_NAME":       ErrCodeValidationFormat,
	"MISSING_CREDENTIALS":    ErrCodeValidationRequired,
	"MISSING_EMAIL":          ErrCodeValidationRequired,
	"MISSING_ORG_NAME":       ErrCodeValidationRequired,
	"DATE_REQUIRED":          ErrCodeDateRequired,
	"EMPLOYEE_NAME_REQUIRED": ErrCodeEmployeeNameRequired,
	"INVALID_SHIFT":          ErrCodeInvalidShift,
	"INVALID_STATE":          ErrCodeInvalidState,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"NOT_AUTHENTICATED":      ErrCodeUnauthorized,
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"ACCOUNT_DEACTIVATED":    ErrCodeAccountDeactivated,
	"ORG_REQUIRED":           ErrCodeOrgRequired,
	"INVALID_RESET_TOKEN":    ErrCodeResetTokenInvalid,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_INVALID":          ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":      ErrCodeTokenExpired,
	"TOKEN_REVOKED":          ErrCodeTokenRevoked,
	"TOKEN_ERROR":            ErrCodeTokenInvalid,
	"FORBIDDEN":              ErrCodeForbidden,
	"SUBMISSION_IN_FLIGHT":   ErrCodeSubmissionInFlight,
	"PERSISTENCE_FAILED":     ErrCodePersistence,
	"FEATURE_DISABLED":       ErrCodeFeatureDisabled,
	"SERVICE_FAILURE":        ErrCodeServiceFailure,
	"RATE_LIMITED":           ErrCodeRateLimited,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"BAD_REQUEST":            ErrCodeBadRequest,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
