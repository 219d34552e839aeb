package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thesurvey/api/internal/apperrors"
	"github.com/thesurvey/api/internal/requestdata"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError maps a service error to its HTTP status and stable code.
func RespondError(c *gin.Context, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(apperrors.HTTPStatus(err), ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apperrors.CodeOf(err),
		},
	})
}

// RespondBadRequest is for malformed request bodies and parameters, before
// any service is involved.
func RespondBadRequest(c *gin.Context, err error) {
	msg := "invalid request"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    "invalid_request",
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// currentUserID reads the authenticated user from the request context. The
// auth middleware guarantees it is set on protected routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return uuid.Nil, false
	}
	return rd.UserID, true
}
