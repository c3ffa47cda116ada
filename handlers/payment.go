package handlers

import (
	"math"
	"net/http"

	"parkly/models"
	"parkly/services/booking"
	"parkly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentHandler creates Stripe payment intents for confirmed
// bookings and records the resulting reference. Capture and refunds
// happen entirely on the Stripe side.
type PaymentHandler struct {
	Coordinator booking.Coordinator
	Logger      *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(coordinator booking.Coordinator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{Coordinator: coordinator, Logger: logger}
}

// CreatePaymentIntent handles POST /api/bookings/:id/payment-intent.
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	bookingID := c.Param("id")

	b, err := h.Coordinator.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	requesterID := clientID(c, "")
	if requesterID != "" && requesterID != b.ClientID {
		utils.JSONError(c, http.StatusForbidden, "Not allowed", "booking belongs to another client")
		return
	}

	amountCents := int64(math.Round(b.TotalAmount * 100))
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyEUR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", b.ID)

	intent, err := paymentintent.New(params)
	if err != nil {
		h.Logger.Error("Stripe payment intent creation failed", zap.String("bookingID", b.ID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Payment setup failed", err.Error())
		return
	}

	payment := models.Payment{Ref: intent.ID, Method: "stripe", Status: string(intent.Status)}
	if err := h.Coordinator.RecordPayment(c.Request.Context(), b.ID, payment); err != nil {
		respondBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"amount":       amountCents,
		"currency":     string(stripe.CurrencyEUR),
	})
}
