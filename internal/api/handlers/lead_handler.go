package handlers

import (
	"net/http"

	"github.com/gonzalezcreative/directoryv7/internal/api/middleware"
	"github.com/gonzalezcreative/directoryv7/internal/models"
	"github.com/gonzalezcreative/directoryv7/internal/service"
	"github.com/gin-gonic/gin"
)

// ============================================
// Lead Handler
// ============================================

type LeadHandler struct {
	leadService    service.LeadService
	paymentService service.PaymentService
}

// ListAvailable returns unsold leads in the redacted summary shape. The
// route is public; signed-in and anonymous viewers see the same list.
func (h *LeadHandler) ListAvailable(c *gin.Context) {
	leads, err := h.leadService.ListAvailable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	c.JSON(http.StatusOK, toLeadSummaryList(leads))
}

// ListPurchased returns the current user's purchased leads with full
// contact details. An empty portfolio is an empty array, not an error.
func (h *LeadHandler) ListPurchased(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	leads, err := h.leadService.ListPurchased(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	c.JSON(http.StatusOK, toLeadDetailList(leads))
}

// Get returns a single lead: full detail for its owner, summary shape
// for everyone else.
func (h *LeadHandler) Get(c *gin.Context) {
	leadID := c.Param("id")
	userID := middleware.GetUserID(c)

	lead, owned, err := h.leadService.GetByID(c.Request.Context(), leadID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if owned {
		c.JSON(http.StatusOK, toLeadDetail(lead))
		return
	}

	c.JSON(http.StatusOK, toLeadSummary(lead))
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leadService.Create(c.Request.Context(), &service.CreateLeadInput{
		Category:       req.Category,
		EquipmentTypes: req.EquipmentTypes,
		City:           req.City,
		StartDate:      req.StartDate,
		RentalDuration: req.RentalDuration,
		Budget:         req.Budget,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Street:         req.Street,
		ZipCode:        req.ZipCode,
		Details:        req.Details,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toLeadSummary(lead))
}

// Purchase handles the purchase click. Anonymous viewers get a 401 with
// signInRequired set so the client can open its sign-in step; signing in
// does not retry the purchase, the user has to click again.
func (h *LeadHandler) Purchase(c *gin.Context) {
	leadID := c.Param("id")
	userID := middleware.GetUserID(c)

	session, err := h.paymentService.StartPurchase(c.Request.Context(), leadID, userID)
	if err != nil {
		if err == service.ErrSignInRequired {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to purchase leads", "signInRequired": true})
			return
		}
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.PurchaseStartResponse{
		SessionID: session.ID,
		LeadID:    session.LeadID,
		Amount:    session.Amount.String(),
		Status:    session.Status,
	})
}

// UpdateStatus moves a purchased lead through the follow-up workflow.
// Storage failures are logged server-side and the response stays 200 so
// the client keeps its optimistic value.
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	leadID := c.Param("id")
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.leadService.UpdateStatus(c.Request.Context(), leadID, userID, req.Status); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}
