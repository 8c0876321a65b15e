package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/models"
	"github.com/renttime/renttime-server/internal/services"
)

// SyncUser upserts the caller's user record after a sign-in on the client.
func SyncUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.UserSyncInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		user, err := u.SyncUser(c.Request.Context(), input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user, "User data synced successfully"))
	}
}
