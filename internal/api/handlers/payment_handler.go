package handlers

import (
	"net/http"

	"github.com/gonzalezcreative/directoryv7/internal/api/middleware"
	"github.com/gonzalezcreative/directoryv7/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Payment Handler
// ============================================

type PaymentHandler struct {
	paymentService service.PaymentService
}

// Confirm applies a payment-success signal to an open session. The
// response reflects the session, not the commit: a lead that was sold
// out from under the session still confirms, with the failure logged.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	sessionID := c.Param("id")
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	session, err := h.paymentService.Confirm(c.Request.Context(), sessionID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPaymentSessionResponse(session))
}

// Cancel closes an open session without purchasing anything.
func (h *PaymentHandler) Cancel(c *gin.Context) {
	sessionID := c.Param("id")
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.Cancel(c.Request.Context(), sessionID, userID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled"})
}
