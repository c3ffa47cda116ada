package handlers

import (
	"errors"
	"net/http"
	"time"

	"parkly/middleware"
	"parkly/models"
	"parkly/services/booking"
	"parkly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes booking creation, cancellation and reads.
type BookingHandler struct {
	Coordinator booking.Coordinator
	Quotes      *booking.QuoteService
	Logger      *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(coordinator booking.Coordinator, quotes *booking.QuoteService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Coordinator: coordinator, Quotes: quotes, Logger: logger}
}

// respondBookingError maps the coordinator's error taxonomy onto HTTP
// statuses. ConcurrencyConflict never reaches here; the coordinator
// re-maps it to NoAvailabilityError once the candidate budget runs out.
func respondBookingError(c *gin.Context, err error) {
	var (
		validationErr *booking.ValidationError
		notFoundErr   *booking.NotFoundError
		noAvailErr    *booking.NoAvailabilityError
		notOwnerErr   *booking.NotOwnerError
		tooLateErr    *booking.TooLateError
		configErr     *booking.ConfigurationError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking request", validationErr.Message)
	case errors.As(err, &noAvailErr):
		utils.JSONError(c, http.StatusNotFound, "No parking available", noAvailErr.Message)
	case errors.As(err, &notFoundErr):
		utils.JSONError(c, http.StatusNotFound, "Not found", notFoundErr.Error())
	case errors.As(err, &notOwnerErr):
		utils.JSONError(c, http.StatusForbidden, "Not allowed", notOwnerErr.Error())
	case errors.As(err, &tooLateErr):
		utils.JSONError(c, http.StatusBadRequest, "Too late to cancel", tooLateErr.Message)
	case errors.As(err, &configErr):
		utils.JSONError(c, http.StatusInternalServerError, "Tariff configuration defect", configErr.Message)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}

// clientID returns the identity established by the middleware, falling
// back to the payload field when the route is not behind it.
func clientID(c *gin.Context, fallback string) string {
	if id, ok := c.Get(middleware.ClientIDKey); ok {
		if s, ok := id.(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	input.ClientID = clientID(c, input.ClientID)
	if input.ClientID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "clientId is required")
		return
	}

	resp, err := h.Coordinator.CreateBooking(c.Request.Context(), input)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Quote handles POST /api/bookings/quote.
func (h *BookingHandler) Quote(c *gin.Context) {
	var input models.BookingRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	input.ClientID = clientID(c, input.ClientID)

	sessionID, session, err := h.Quotes.Quote(c.Request.Context(), input)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessionID":  sessionID,
		"candidates": session.Candidates,
		"rate":       session.Rate,
		"estimated":  session.Estimated,
	})
}

// ConfirmQuote handles POST /api/bookings/confirm.
func (h *BookingHandler) ConfirmQuote(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionID"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.SessionID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "sessionID is required")
		return
	}

	resp, err := h.Quotes.Confirm(c.Request.Context(), input.SessionID, clientID(c, ""))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CancelBooking handles DELETE /api/bookings/:id.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("id")
	requesterID := clientID(c, c.Query("requesterId"))
	if requesterID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "requester identity is required")
		return
	}

	if err := h.Coordinator.CancelBooking(c.Request.Context(), bookingID, requesterID); err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Coordinator.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookings handles GET /api/bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	requesterID := clientID(c, c.Query("clientId"))
	if requesterID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", "client identity is required")
		return
	}
	bookings, err := h.Coordinator.ListClientBookings(c.Request.Context(), requesterID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}

// ListFacilityBookings handles GET /api/facilities/:id/bookings (admin).
func (h *BookingHandler) ListFacilityBookings(c *gin.Context) {
	var day *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", "date must be YYYY-MM-DD")
			return
		}
		day = &parsed
	}

	bookings, err := h.Coordinator.ListFacilityBookings(c.Request.Context(), c.Param("id"), day)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(bookings), "bookings": bookings})
}
