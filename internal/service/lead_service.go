package service

import (
	"context"
	"time"

	"github.com/gonzalezcreative/directoryv7/internal/db"
	"github.com/gonzalezcreative/directoryv7/internal/diag"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/socket"
	"github.com/gonzalezcreative/directoryv7/internal/types"
	"github.com/shopspring/decimal"
)

// ============================================
// Lead Service
// ============================================

// LeadView selects which side of the marketplace a listing shows.
type LeadView string

const (
	ViewAvailable LeadView = "available"
	ViewPurchased LeadView = "purchased"
)

const (
	availableCacheKey = "leads:available"
	availableCacheTTL = 30 * time.Second
)

// FilterLeads applies the visibility contract to an in-memory lead list:
// the available view is every unsold lead regardless of viewer, the
// purchased view is exactly the viewer's own leads and empty for an
// anonymous viewer (empty viewerID).
func FilterLeads(leads []*repository.Lead, view LeadView, viewerID string) []*repository.Lead {
	var out []*repository.Lead
	for _, lead := range leads {
		switch view {
		case ViewAvailable:
			if lead.PurchasedBy == nil {
				out = append(out, lead)
			}
		case ViewPurchased:
			if viewerID != "" && lead.PurchasedBy != nil && *lead.PurchasedBy == viewerID {
				out = append(out, lead)
			}
		}
	}
	return out
}

type CreateLeadInput struct {
	Category       string
	EquipmentTypes []string
	City           string
	StartDate      string
	RentalDuration string
	Budget         string

	Name    string
	Email   string
	Phone   string
	Street  string
	ZipCode string
	Details string
}

type LeadService interface {
	Create(ctx context.Context, input *CreateLeadInput) (*repository.Lead, error)
	// GetByID returns the lead and whether the viewer owns it.
	GetByID(ctx context.Context, leadID, viewerID string) (*repository.Lead, bool, error)
	ListAvailable(ctx context.Context) ([]*repository.Lead, error)
	ListPurchased(ctx context.Context, viewerID string) ([]*repository.Lead, error)
	UpdateStatus(ctx context.Context, leadID, viewerID, status string) error
}

type leadService struct {
	leadRepo    repository.LeadRepository
	cache       *db.RedisDB
	broadcaster *socket.Broadcaster
	sink        diag.Sink
}

func NewLeadService(leadRepo repository.LeadRepository, cache *db.RedisDB, broadcaster *socket.Broadcaster, sink diag.Sink) LeadService {
	return &leadService{
		leadRepo:    leadRepo,
		cache:       cache,
		broadcaster: broadcaster,
		sink:        sink,
	}
}

func (s *leadService) Create(ctx context.Context, input *CreateLeadInput) (*repository.Lead, error) {
	if !types.IsValidCategory(input.Category) {
		return nil, ErrInvalidInput
	}

	budget, err := decimal.NewFromString(input.Budget)
	if err != nil || budget.IsNegative() {
		return nil, ErrInvalidInput
	}

	lead := &repository.Lead{
		Category:       input.Category,
		EquipmentTypes: input.EquipmentTypes,
		City:           input.City,
		StartDate:      input.StartDate,
		RentalDuration: input.RentalDuration,
		Budget:         budget,
		Name:           input.Name,
		Email:          input.Email,
		Phone:          input.Phone,
		Street:         input.Street,
		ZipCode:        input.ZipCode,
		Details:        input.Details,
		LeadStatus:     types.LeadStatusNew,
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}

	s.invalidateAvailable(ctx)
	if s.broadcaster != nil {
		variant := types.VariantForCategory(lead.Category)
		s.broadcaster.BroadcastLeadCreated(map[string]interface{}{
			"id":             lead.ID,
			"category":       lead.Category,
			"icon":           variant.Icon,
			"city":           lead.City,
			"startDate":      lead.StartDate,
			"rentalDuration": lead.RentalDuration,
			"budget":         lead.Budget.String(),
		})
	}

	return lead, nil
}

func (s *leadService) GetByID(ctx context.Context, leadID, viewerID string) (*repository.Lead, bool, error) {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, false, err
	}
	if lead == nil {
		return nil, false, ErrNotFound
	}
	owned := viewerID != "" && lead.PurchasedBy != nil && *lead.PurchasedBy == viewerID
	return lead, owned, nil
}

func (s *leadService) ListAvailable(ctx context.Context) ([]*repository.Lead, error) {
	if s.cache != nil {
		var cached []*repository.Lead
		if err := s.cache.GetCache(ctx, availableCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	leads, err := s.leadRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCache(ctx, availableCacheKey, leads, availableCacheTTL); err != nil {
			s.sink.Errorf("failed to cache available leads: %v", err)
		}
	}
	return leads, nil
}

func (s *leadService) ListPurchased(ctx context.Context, viewerID string) ([]*repository.Lead, error) {
	if viewerID == "" {
		return nil, nil
	}
	return s.leadRepo.FindPurchasedBy(ctx, viewerID)
}

// UpdateStatus relays a workflow status selection for an owned lead. Invalid
// values and ownership violations are rejected, but a storage failure on a
// legitimate update is only reported to the diagnostic sink; the caller sees
// success and keeps showing the previously persisted status until the next
// refresh.
func (s *leadService) UpdateStatus(ctx context.Context, leadID, viewerID, status string) error {
	if viewerID == "" {
		return ErrUnauthorized
	}
	if !types.IsValidLeadStatus(status) {
		return ErrInvalidInput
	}

	err := s.leadRepo.UpdateStatus(ctx, leadID, viewerID, status)
	if err == repository.ErrNotOwner {
		return ErrForbidden
	}
	if err != nil {
		s.sink.Errorf("status update failed for lead %s: %v", leadID, err)
		return nil
	}

	if s.broadcaster != nil {
		s.broadcaster.SendLeadStatusChanged(viewerID, leadID, status)
	}
	return nil
}

func (s *leadService) invalidateAvailable(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, availableCacheKey); err != nil {
		s.sink.Errorf("failed to invalidate available-leads cache: %v", err)
	}
}
