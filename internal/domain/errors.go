// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation              ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                                 // Resource not found errors (404 Not Found)
	ErrorTypeConflict                                 // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                                 // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                              // Service unavailable errors (503 Service Unavailable)
	ErrorTypeUnsupportedLocationType                  // Location type has no combination (400 Bad Request)
	ErrorTypeNotImplemented                           // Combination registered but not built (501 Not Implemented)
	ErrorTypeIntegrationMissing                       // Required integration not connected (412 Precondition Failed)
	ErrorTypeTokenRefresh                             // Refresh grant failed, user must reauthorize (412 Precondition Failed)
	ErrorTypeProviderOperation                        // Remote provider rejected the call (502 Bad Gateway)
	ErrorTypeUnauthorized                             // Missing or invalid credentials (401 Unauthorized)
	ErrorTypeForbidden                                // Caller does not own the resource (403 Forbidden)
)

// String returns the stable name used in NATS error envelopes and logs.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypeUnavailable:
		return "unavailable"
	case ErrorTypeUnsupportedLocationType:
		return "unsupported_location_type"
	case ErrorTypeNotImplemented:
		return "not_implemented"
	case ErrorTypeIntegrationMissing:
		return "integration_missing"
	case ErrorTypeTokenRefresh:
		return "token_refresh"
	case ErrorTypeProviderOperation:
		return "provider_operation"
	case ErrorTypeUnauthorized:
		return "unauthorized"
	case ErrorTypeForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Detail keys carried by DomainError.Details
const (
	DetailLocationType = "location_type"
	DetailCombination  = "combination"
	DetailIntegration  = "integration"
	DetailProvider     = "provider"
	DetailOperation    = "operation"
	DetailReason       = "reason"
)

// ReasonGrantRejected marks a TokenRefresh error where the issuer refused the
// stored grant, as opposed to a transient failure reaching it.
const ReasonGrantRejected = "grant_rejected"

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
	// Details holds machine-readable context for clients, e.g. which
	// integration must be reconnected.
	Details map[string]string
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail sets a detail entry and returns the error for chaining.
func (e *DomainError) WithDetail(key, value string) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// GetErrorDetails returns the details of the outermost DomainError, if any.
func GetErrorDetails(err error) map[string]string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Details
	}
	return nil
}

// IsGrantRejected reports whether err is a TokenRefresh error caused by the
// issuer rejecting the stored credentials.
func IsGrantRejected(err error) bool {
	return GetErrorType(err) == ErrorTypeTokenRefresh && GetErrorDetails(err)[DetailReason] == ReasonGrantRejected
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}

func NewUnauthorizedError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnauthorized, Message: message, Err: errors.Join(err...)}
}

func NewForbiddenError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeForbidden, Message: message, Err: errors.Join(err...)}
}

func NewUnsupportedLocationTypeError(locationType string) *DomainError {
	return (&DomainError{
		Type:    ErrorTypeUnsupportedLocationType,
		Message: "unsupported location type " + locationType,
	}).WithDetail(DetailLocationType, locationType)
}

func NewNotImplementedError(locationType, combination string) *DomainError {
	return (&DomainError{
		Type:    ErrorTypeNotImplemented,
		Message: "meeting combination " + combination + " is not implemented yet",
	}).WithDetail(DetailLocationType, locationType).WithDetail(DetailCombination, combination)
}

func NewIntegrationMissingError(integration string) *DomainError {
	return (&DomainError{
		Type:    ErrorTypeIntegrationMissing,
		Message: "integration " + integration + " is not connected",
	}).WithDetail(DetailIntegration, integration)
}

func NewTokenRefreshError(provider string, err ...error) *DomainError {
	return (&DomainError{
		Type:    ErrorTypeTokenRefresh,
		Message: provider + " integration needs reauthorization",
		Err:     errors.Join(err...),
	}).WithDetail(DetailProvider, provider)
}

func NewProviderOperationError(provider, operation string, err ...error) *DomainError {
	return (&DomainError{
		Type:    ErrorTypeProviderOperation,
		Message: provider + " " + operation + " failed",
		Err:     errors.Join(err...),
	}).WithDetail(DetailProvider, provider).WithDetail(DetailOperation, operation)
}
