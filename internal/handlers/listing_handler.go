package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/models"
	"github.com/renttime/renttime-server/internal/services"
)

func CreateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var listing models.Listing
		if err := c.ShouldBindJSON(&listing); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		created, err := ls.CreateListing(c.Request.Context(), &listing)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Post created successfully"))
	}
}

func SearchListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := services.SearchParams{
			Page:     c.Query("page"),
			Limit:    c.Query("limit"),
			PostType: c.Query("type"),
			Location: c.Query("location"),
			MinPrice: c.Query("minPrice"),
			MaxPrice: c.Query("maxPrice"),
		}

		result, err := ls.Search(c.Request.Context(), params)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func GetListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		listing, err := ls.GetListing(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(listing, ""))
	}
}

func UpdateListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		id, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		updated, err := ls.UpdateListing(c.Request.Context(), id, identity.UID, fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(updated, "Post updated successfully"))
	}
}

func DeleteListing(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		id, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := ls.DeleteListing(c.Request.Context(), id, identity.UID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Post deleted successfully"))
	}
}

func MyListings(ls *services.ListingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		listings, err := ls.ListByOwner(c.Request.Context(), identity.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(listings, ""))
	}
}
