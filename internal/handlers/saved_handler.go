package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/models"
	"github.com/renttime/renttime-server/internal/services"
)

func SavePost(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		postID, ok := parseObjectIDParam(c, "postId")
		if !ok {
			return
		}

		user, err := u.SavePost(c.Request.Context(), identity.UID, postID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user.SavedPostIDs, "Post saved"))
	}
}

func UnsavePost(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		postID, ok := parseObjectIDParam(c, "postId")
		if !ok {
			return
		}

		user, err := u.UnsavePost(c.Request.Context(), identity.UID, postID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(user.SavedPostIDs, "Post removed from saved"))
	}
}

func SavedPosts(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		listings, err := u.ListSavedPosts(c.Request.Context(), identity.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(listings, ""))
	}
}
