package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skylinehq/flightbooking/internal/domain"
	"github.com/skylinehq/flightbooking/internal/service/booking"
)

// PaymentDeduper claims idempotency keys for payment attempts.
type PaymentDeduper interface {
	AcquirePaymentKey(ctx context.Context, bookingID int64, key string, ttl time.Duration) (bool, error)
}

type BookingHandler struct {
	service booking.BookingUseCase
	dedupe  PaymentDeduper
	keyTTL  time.Duration
}

type createBookingRequest struct {
	UserID    int64 `json:"user_id"`
	FlightID  int64 `json:"flight_id"`
	NoOfSeats int   `json:"no_of_seats"`
}

type payBookingRequest struct {
	TotalCost int64 `json:"total_cost"`
	UserID    int64 `json:"user_id"`
}

type bookingResponse struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	FlightID  int64  `json:"flight_id"`
	NoOfSeats int    `json:"no_of_seats"`
	TotalCost int64  `json:"total_cost"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func NewBookingHandler(service booking.BookingUseCase, dedupe PaymentDeduper, keyTTL time.Duration) *BookingHandler {
	return &BookingHandler{service: service, dedupe: dedupe, keyTTL: keyTTL}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.POST("/:id/payments", h.pay)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:    req.UserID,
		FlightID:  req.FlightID,
		NoOfSeats: req.NoOfSeats,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) pay(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req payBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if key := c.GetHeader("x-idempotency-key"); key != "" && h.dedupe != nil {
		claimed, err := h.dedupe.AcquirePaymentKey(c.Request.Context(), bookingID, key, h.keyTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !claimed {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate payment request"})
			return
		}
	}

	paid, err := h.service.PayBooking(c.Request.Context(), booking.PayBookingInput{
		BookingID: bookingID,
		TotalCost: req.TotalCost,
		UserID:    req.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(paid))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), bookingID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		FlightID:  b.FlightID,
		NoOfSeats: b.NoOfSeats,
		TotalCost: b.TotalCost,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.Format(time.RFC3339),
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(domain.StatusCode(err), gin.H{"error": err.Error()})
}
