package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/helpers"
	"github.com/renttime/renttime-server/internal/middleware"
	"github.com/renttime/renttime-server/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrSelfBooking),
		errors.Is(err, models.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrDuplicatePending):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps a domain error to its HTTP status. Store failures get a
// generic body and are pushed onto the gin error list for the ErrorHandler
// middleware to log.
func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, models.ErrorResponse("internal server error"))
		return
	}
	c.JSON(status, models.ErrorResponse(err.Error()))
}

// callerIdentity fetches the identity the auth middleware stored. Routes behind
// AuthMiddleware always have one; the false branch guards misconfigured routes.
func callerIdentity(c *gin.Context) (*helpers.Identity, bool) {
	raw, exists := c.Get(middleware.IdentityKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return nil, false
	}
	identity, ok := raw.(*helpers.Identity)
	if !ok {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse("invalid identity in context"))
		return nil, false
	}
	return identity, true
}

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	raw := strings.TrimSpace(c.Param(name))
	raw = strings.Trim(raw, "\"'")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid id format"))
		return primitive.NilObjectID, false
	}
	return id, true
}
