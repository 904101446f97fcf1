package gitea

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	statusErrorTemplateConstant          = "%s %s returned status %d: %s"
	conflictErrorTemplateConstant        = "%s already exists"
	decodingErrorTemplateConstant        = "%s %s response decoding failed: %s"
	clientNotConfiguredMessageConstant   = "gitea client requires a base URL"
	alreadyExistsSentinelMessageConstant = "entity already exists"
)

// ErrAlreadyExists marks creation attempts rejected because the entity exists.
var ErrAlreadyExists = errors.New(alreadyExistsSentinelMessageConstant)

// ErrClientNotConfigured indicates the client was constructed without a base URL.
var ErrClientNotConfigured = errors.New(clientNotConfiguredMessageConstant)

// StatusError reports a non-2xx response that is neither absence nor conflict.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

// Error describes the failed request.
func (statusError StatusError) Error() string {
	return fmt.Sprintf(statusErrorTemplateConstant, statusError.Method, statusError.Path, statusError.StatusCode, statusError.Body)
}

// ConflictError reports a creation rejected because the entity already exists.
type ConflictError struct {
	EntityDescription string
	StatusCode        int
}

// Error describes the conflicting entity.
func (conflictError ConflictError) Error() string {
	return fmt.Sprintf(conflictErrorTemplateConstant, conflictError.EntityDescription)
}

// Is matches ConflictError values against ErrAlreadyExists.
func (conflictError ConflictError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// DecodingError reports a response body the client could not interpret.
type DecodingError struct {
	Method string
	Path   string
	Cause  error
}

// Error describes the decoding failure.
func (decodingError DecodingError) Error() string {
	return fmt.Sprintf(decodingErrorTemplateConstant, decodingError.Method, decodingError.Path, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError DecodingError) Unwrap() error {
	return decodingError.Cause
}

// isConflictStatus reports whether a creation response signals a duplicate.
// Gitea uses 409 for repositories and organizations and 422 for users and
// teams that already exist.
func isConflictStatus(statusCode int) bool {
	return statusCode == http.StatusConflict || statusCode == http.StatusUnprocessableEntity
}
