package handler

import (
	"net/http"
	"seat-reservation/internal/middleware"
	"seat-reservation/internal/model"
	"seat-reservation/internal/service"
	apperrors "seat-reservation/pkg/app_errors"
	"seat-reservation/pkg/logger"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1", auth)
	{
		router.GET("seats", h.GetSeats)
		router.POST("bookings", h.BookSeats)
		router.POST("bookings/cancel", h.CancelBooking)
		router.GET("bookings/events", h.GetBookingEvents)
	}
}

func (h *BookingHandler) GetSeats(c *gin.Context) {
	seats, err := h.service.GetAvailableSeats(c)
	if err != nil {
		h.handleError(c, err, "GetSeats")
		return
	}
	c.JSON(http.StatusOK, seats)
}

// BookSeats 處理指定座位與自動挑選兩種請求：
// seat_ids 優先，沒給就用 count 走 AutoBook
func (h *BookingHandler) BookSeats(c *gin.Context) {
	userID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req model.BookSeatsRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	var confirmation *model.BookingConfirmation
	var err error
	if len(req.SeatIDs) > 0 {
		confirmation, err = h.service.BookSeats(c, userID, req.SeatIDs)
	} else {
		confirmation, err = h.service.AutoBook(c, userID, req.Count)
	}
	if err != nil {
		h.handleError(c, err, "BookSeats")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Seats booked successfully",
		"booking_ref": confirmation.BookingRef,
		"seats":       confirmation.SeatIDs,
		"booked_at":   confirmation.BookedAt,
	})
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, ok := middleware.RequesterID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req model.CancelBookingRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.CancelBooking(c, userID, req.SeatIDs); err != nil {
		h.handleError(c, err, "CancelBooking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully",
	})
}

func (h *BookingHandler) GetBookingEvents(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	events, err := h.service.ListBookingEvents(c, limit)
	if err != nil {
		h.handleError(c, err, "GetBookingEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

// handleError 把 sentinel error 分類翻譯成 HTTP 狀態碼。
// 狀態碼對應只存在這一層，core 不知道 HTTP。
func (h *BookingHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case apperrors.IsValidation(err):
		log.Warn("Invalid booking request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsConflict(err):
		log.Warn("Booking conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsOwnership(err):
		log.Warn("Ownership violation")
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
