package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gonzalezcreative/directoryv7/internal/diag"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/types"
	"github.com/shopspring/decimal"
)

type fakeLeadRepo struct {
	leads     map[string]*repository.Lead
	createErr error
	updateErr error
	updates   []string
}

func newFakeLeadRepo(leads ...*repository.Lead) *fakeLeadRepo {
	r := &fakeLeadRepo{leads: make(map[string]*repository.Lead)}
	for _, l := range leads {
		r.leads[l.ID] = l
	}
	return r
}

func (r *fakeLeadRepo) Create(_ context.Context, lead *repository.Lead) error {
	if r.createErr != nil {
		return r.createErr
	}
	if lead.ID == "" {
		lead.ID = "generated"
	}
	r.leads[lead.ID] = lead
	return nil
}

func (r *fakeLeadRepo) FindByID(_ context.Context, id string) (*repository.Lead, error) {
	return r.leads[id], nil
}

func (r *fakeLeadRepo) FindAvailable(_ context.Context) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, l := range r.leads {
		if l.PurchasedBy == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) FindPurchasedBy(_ context.Context, userID string) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, l := range r.leads {
		if l.PurchasedBy != nil && *l.PurchasedBy == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeLeadRepo) Purchase(_ context.Context, leadID, userID string) error {
	lead, ok := r.leads[leadID]
	if !ok || lead.PurchasedBy != nil {
		return repository.ErrLeadUnavailable
	}
	lead.PurchasedBy = &userID
	return nil
}

func (r *fakeLeadRepo) UpdateStatus(_ context.Context, leadID, ownerID, status string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	lead, ok := r.leads[leadID]
	if !ok || lead.PurchasedBy == nil || *lead.PurchasedBy != ownerID {
		return repository.ErrNotOwner
	}
	lead.LeadStatus = status
	r.updates = append(r.updates, leadID+":"+status)
	return nil
}

func strPtr(s string) *string { return &s }

func lead(id string, purchasedBy *string) *repository.Lead {
	return &repository.Lead{
		ID:          id,
		Category:    types.CategoryConstruction,
		Budget:      decimal.NewFromInt(100),
		PurchasedBy: purchasedBy,
		LeadStatus:  types.LeadStatusNew,
	}
}

// ============================================
// FilterLeads
// ============================================

func TestFilterLeadsAvailableIgnoresViewer(t *testing.T) {
	leads := []*repository.Lead{
		lead("a", nil),
		lead("b", strPtr("u1")),
	}

	for _, viewer := range []string{"", "u1", "u2"} {
		got := FilterLeads(leads, ViewAvailable, viewer)
		if len(got) != 1 || got[0].ID != "a" {
			t.Errorf("available view for viewer %q = %v leads, want just lead a", viewer, len(got))
		}
	}
}

func TestFilterLeadsPurchasedIsOwnerOnly(t *testing.T) {
	leads := []*repository.Lead{
		lead("a", nil),
		lead("b", strPtr("u1")),
		lead("c", strPtr("u2")),
	}

	got := FilterLeads(leads, ViewPurchased, "u1")
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("purchased view for u1 = %d leads, want just lead b", len(got))
	}
}

func TestFilterLeadsPurchasedEmptyForAnonymous(t *testing.T) {
	leads := []*repository.Lead{
		lead("a", nil),
		lead("b", strPtr("u1")),
	}

	if got := FilterLeads(leads, ViewPurchased, ""); len(got) != 0 {
		t.Errorf("purchased view for anonymous = %d leads, want 0", len(got))
	}
}

func TestFilterLeadsSoldLeadLeavesAvailable(t *testing.T) {
	l := lead("a", nil)
	leads := []*repository.Lead{l}

	if got := FilterLeads(leads, ViewAvailable, "u2"); len(got) != 1 {
		t.Fatalf("unsold lead missing from available view")
	}

	l.PurchasedBy = strPtr("u1")

	if got := FilterLeads(leads, ViewAvailable, "u2"); len(got) != 0 {
		t.Errorf("sold lead still in available view")
	}
	if got := FilterLeads(leads, ViewPurchased, "u2"); len(got) != 0 {
		t.Errorf("lead owned by u1 appears in u2's purchased view")
	}
}

// ============================================
// Create
// ============================================

func TestCreateRejectsUnknownCategory(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(), nil, nil, &diag.Recorder{})

	_, err := svc.Create(context.Background(), &CreateLeadInput{
		Category: "demolition",
		Budget:   "100",
	})
	if err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateRejectsBadBudget(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(), nil, nil, &diag.Recorder{})

	for _, budget := range []string{"", "abc", "-50"} {
		_, err := svc.Create(context.Background(), &CreateLeadInput{
			Category: types.CategoryEvents,
			Budget:   budget,
		})
		if err != ErrInvalidInput {
			t.Errorf("budget %q: err = %v, want ErrInvalidInput", budget, err)
		}
	}
}

func TestCreateStartsAtStatusNew(t *testing.T) {
	repo := newFakeLeadRepo()
	svc := NewLeadService(repo, nil, nil, &diag.Recorder{})

	created, err := svc.Create(context.Background(), &CreateLeadInput{
		Category: types.CategoryEvents,
		Budget:   "250.50",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.LeadStatus != types.LeadStatusNew {
		t.Errorf("lead status = %q, want %q", created.LeadStatus, types.LeadStatusNew)
	}
}

// ============================================
// GetByID ownership
// ============================================

func TestGetByIDReportsOwnership(t *testing.T) {
	repo := newFakeLeadRepo(lead("a", strPtr("u1")), lead("b", nil))
	svc := NewLeadService(repo, nil, nil, &diag.Recorder{})

	_, owned, err := svc.GetByID(context.Background(), "a", "u1")
	if err != nil || !owned {
		t.Errorf("owner lookup: owned = %v, err = %v, want owned", owned, err)
	}

	_, owned, _ = svc.GetByID(context.Background(), "a", "u2")
	if owned {
		t.Error("non-owner reported as owner")
	}

	_, owned, _ = svc.GetByID(context.Background(), "b", "u1")
	if owned {
		t.Error("unsold lead reported as owned")
	}

	if _, _, err := svc.GetByID(context.Background(), "missing", "u1"); err != ErrNotFound {
		t.Errorf("missing lead: err = %v, want ErrNotFound", err)
	}
}

// ============================================
// UpdateStatus
// ============================================

func TestUpdateStatusPersistsForOwner(t *testing.T) {
	repo := newFakeLeadRepo(lead("a", strPtr("u1")))
	svc := NewLeadService(repo, nil, nil, &diag.Recorder{})

	if err := svc.UpdateStatus(context.Background(), "a", "u1", types.LeadStatusContacted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if repo.leads["a"].LeadStatus != types.LeadStatusContacted {
		t.Errorf("status = %q, want %q", repo.leads["a"].LeadStatus, types.LeadStatusContacted)
	}
}

func TestUpdateStatusRejectsAnonymous(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(lead("a", strPtr("u1"))), nil, nil, &diag.Recorder{})

	if err := svc.UpdateStatus(context.Background(), "a", "", types.LeadStatusContacted); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateStatusRejectsInvalidValue(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(lead("a", strPtr("u1"))), nil, nil, &diag.Recorder{})

	if err := svc.UpdateStatus(context.Background(), "a", "u1", "Archived"); err != ErrInvalidInput {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateStatusRejectsNonOwner(t *testing.T) {
	svc := NewLeadService(newFakeLeadRepo(lead("a", strPtr("u1"))), nil, nil, &diag.Recorder{})

	if err := svc.UpdateStatus(context.Background(), "a", "u2", types.LeadStatusContacted); err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatusSwallowsStorageFailure(t *testing.T) {
	repo := newFakeLeadRepo(lead("a", strPtr("u1")))
	repo.updateErr = errors.New("connection reset")
	sink := &diag.Recorder{}
	svc := NewLeadService(repo, nil, nil, sink)

	err := svc.UpdateStatus(context.Background(), "a", "u1", types.LeadStatusQuoteSent)
	if err != nil {
		t.Fatalf("storage failure surfaced to caller: %v", err)
	}
	if len(sink.Reports) != 1 {
		t.Fatalf("sink reports = %d, want 1", len(sink.Reports))
	}
	if repo.leads["a"].LeadStatus != types.LeadStatusNew {
		t.Errorf("status changed despite storage failure")
	}
}
