package models

import "time"

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UpdateUserRequest struct {
	Name   *string `json:"name,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ============================================
// Lead DTOs
// ============================================

type CreateLeadRequest struct {
	Category       string   `json:"category" binding:"required"`
	EquipmentTypes []string `json:"equipmentTypes" binding:"required,min=1"`
	City           string   `json:"city" binding:"required"`
	StartDate      string   `json:"startDate" binding:"required"`
	RentalDuration string   `json:"rentalDuration" binding:"required"`
	Budget         string   `json:"budget" binding:"required"`

	// Contact details; stored but only ever returned to the purchasing owner
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required"`
	Street  string `json:"street"`
	ZipCode string `json:"zipCode"`
	Details string `json:"details"`
}

// LeadSummaryResponse is the available-view shape. It deliberately has no
// contact fields.
type LeadSummaryResponse struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	Icon           string    `json:"icon"`
	Color          string    `json:"color"`
	EquipmentTypes []string  `json:"equipmentTypes"`
	City           string    `json:"city"`
	StartDate      string    `json:"startDate"`
	RentalDuration string    `json:"rentalDuration"`
	Budget         string    `json:"budget"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LeadDetailResponse is the purchased-view shape, only produced for the owner.
type LeadDetailResponse struct {
	LeadSummaryResponse

	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	ZipCode string `json:"zipCode"`
	Details string `json:"details"`

	LeadStatus  string     `json:"leadStatus"`
	PurchasedAt *time.Time `json:"purchasedAt,omitempty"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ============================================
// Payment DTOs
// ============================================

type PurchaseStartResponse struct {
	SessionID string `json:"sessionId"`
	LeadID    string `json:"leadId"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
}

type PaymentSessionResponse struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	Amount    string    `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}
