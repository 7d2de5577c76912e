package handlers

import (
	"net/http"

	"github.com/demal-app/payments-service/internal/interfaces/rest"
	"github.com/demal-app/payments-service/internal/interfaces/rest/middleware"
	"github.com/gin-gonic/gin"
)

type initPaymentRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

type initPaymentResponse struct {
	BookingID string `json:"booking_id"`
	RequestID string `json:"request_id"`
	Amount    int64  `json:"amount"`
}

// InitPayment handles POST /payments/init.
func (h *Handlers) InitPayment(c *gin.Context) {
	userID := middleware.UserID(c)

	var req initPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, rest.ErrorResponse{
			Success: false,
			Error: rest.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: "booking_id is required",
			},
		})
		return
	}

	result, err := h.payments.InitPayment(c.Request.Context(), userID, req.BookingID)
	if err != nil {
		rest.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": initPaymentResponse{
			BookingID: result.BookingID,
			RequestID: result.RequestID,
			Amount:    result.Amount,
		},
	})
}

type paymentStatusResponse struct {
	BookingID         string  `json:"booking_id"`
	BookingStatus     string  `json:"booking_status"`
	PaymentStatus     string  `json:"payment_status"`
	Amount            int64   `json:"amount"`
	RequestID         string  `json:"request_id"`
	ProviderPaymentID *string `json:"provider_payment_id,omitempty"`
}

// GetBookingPaymentStatus handles GET /bookings/:bookingId/payment-status.
func (h *Handlers) GetBookingPaymentStatus(c *gin.Context) {
	userID := middleware.UserID(c)
	bookingID := c.Param("bookingId")

	result, err := h.payments.GetBookingPaymentStatus(c.Request.Context(), userID, bookingID)
	if err != nil {
		rest.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": paymentStatusResponse{
			BookingID:         result.BookingID,
			BookingStatus:     string(result.BookingStatus),
			PaymentStatus:     string(result.PaymentStatus),
			Amount:            result.Amount,
			RequestID:         result.RequestID,
			ProviderPaymentID: result.ProviderPaymentID,
		},
	})
}
