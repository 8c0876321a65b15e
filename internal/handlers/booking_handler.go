package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/models"
	"github.com/renttime/renttime-server/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		var req struct {
			PostID        string `json:"postId" binding:"required"`
			RequesterName string `json:"requesterName"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		postID, err := primitive.ObjectIDFromHex(req.PostID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse("invalid post id format"))
			return
		}

		booking, err := bs.CreateBooking(c.Request.Context(), services.CreateBookingInput{
			PostID:         postID,
			RequesterID:    identity.UID,
			RequesterName:  req.RequesterName,
			RequesterEmail: identity.Email,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking request sent successfully"))
	}
}

func ReceivedBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		bookings, err := bs.ReceivedBookings(c.Request.Context(), identity.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func SentBookings(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		bookings, err := bs.SentBookings(c.Request.Context(), identity.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func UpdateBookingStatus(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		id, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
			return
		}

		booking, err := bs.TransitionStatus(c.Request.Context(), id, identity.UID, req.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking status updated"))
	}
}

func CancelBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		id, ok := parseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := bs.CancelBooking(c.Request.Context(), id, identity.UID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking cancelled"))
	}
}

func CheckBookingStatus(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := callerIdentity(c)
		if !ok {
			return
		}

		postID, ok := parseObjectIDParam(c, "postId")
		if !ok {
			return
		}

		check, err := bs.CheckStatus(c.Request.Context(), postID, identity.UID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, check)
	}
}
