// Package handlers contains the gin route handlers of the REST API. They
// translate HTTP requests into application commands and queries and map
// domain errors back onto status codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// ContextUserID is the gin context key the auth middleware stores the
// authenticated user ID under.
const ContextUserID = "user_id"

// errorBody is the wire shape of every error response.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps a domain error onto its HTTP status:
// validation 400, unauthorized 401, not found 404, duplicates and lost
// races 409, provider failures 502, provider unavailability 503, and
// everything else (store failures included) 500.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"

	switch {
	case shared.IsValidation(err):
		status, code = http.StatusBadRequest, "validation"
	case errors.Is(err, shared.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case shared.IsNotFound(err):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, shared.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case shared.IsConflict(err):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, shared.ErrServiceUnavailable):
		status, code = http.StatusServiceUnavailable, "provider_unavailable"
	case shared.IsProvider(err):
		status, code = http.StatusBadGateway, "provider"
	}

	message := err.Error()
	var de *shared.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	if status == http.StatusInternalServerError {
		// Do not leak store internals to API clients.
		message = "internal error"
	}

	c.JSON(status, gin.H{"error": errorBody{Code: code, Message: message}})
}

// userID returns the authenticated user ID set by the auth middleware.
func userID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
