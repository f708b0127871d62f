package handlers

import (
	"net/http"

	"github.com/gonzalezcreative/directoryv7/internal/models"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/service"
	"github.com/gonzalezcreative/directoryv7/internal/types"
	"github.com/gin-gonic/gin"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Lead    *LeadHandler
	Payment *PaymentHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:    &AuthHandler{authService: services.Auth},
		User:    &UserHandler{userService: services.User},
		Lead:    &LeadHandler{leadService: services.Lead, paymentService: services.Payment},
		Payment: &PaymentHandler{paymentService: services.Payment},
	}
}

func handleServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case service.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case service.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case service.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "Resource already exists"})
	case service.ErrUserNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case service.ErrInvalidToken:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case service.ErrLeadUnavailable:
		c.JSON(http.StatusConflict, gin.H{"error": "Lead is no longer available"})
	case service.ErrSessionClosed:
		c.JSON(http.StatusConflict, gin.H{"error": "Payment session already closed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

// toLeadSummary builds the redacted shape shown in the available view. It is
// the only mapper applied to leads the viewer does not own.
func toLeadSummary(l *repository.Lead) models.LeadSummaryResponse {
	variant := types.VariantForCategory(l.Category)
	return models.LeadSummaryResponse{
		ID:             l.ID,
		Category:       l.Category,
		Icon:           variant.Icon,
		Color:          variant.Color,
		EquipmentTypes: safeStringSlice(l.EquipmentTypes),
		City:           l.City,
		StartDate:      l.StartDate,
		RentalDuration: l.RentalDuration,
		Budget:         l.Budget.String(),
		CreatedAt:      l.CreatedAt,
	}
}

func toLeadSummaryList(leads []*repository.Lead) []models.LeadSummaryResponse {
	response := make([]models.LeadSummaryResponse, len(leads))
	for i, l := range leads {
		response[i] = toLeadSummary(l)
	}
	return response
}

// toLeadDetail includes contact fields and workflow status; callers must only
// use it for leads owned by the current viewer.
func toLeadDetail(l *repository.Lead) models.LeadDetailResponse {
	return models.LeadDetailResponse{
		LeadSummaryResponse: toLeadSummary(l),
		Name:                l.Name,
		Email:               l.Email,
		Phone:               l.Phone,
		Street:              l.Street,
		ZipCode:             l.ZipCode,
		Details:             l.Details,
		LeadStatus:          l.LeadStatus,
		PurchasedAt:         l.PurchasedAt,
	}
}

func toLeadDetailList(leads []*repository.Lead) []models.LeadDetailResponse {
	response := make([]models.LeadDetailResponse, len(leads))
	for i, l := range leads {
		response[i] = toLeadDetail(l)
	}
	return response
}

func toPaymentSessionResponse(s *repository.PaymentSession) models.PaymentSessionResponse {
	return models.PaymentSessionResponse{
		ID:        s.ID,
		LeadID:    s.LeadID,
		Amount:    s.Amount.String(),
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
	}
}

// Helper to ensure nil slices become empty slices
func safeStringSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
