package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/service"
	"github.com/gonzalezcreative/directoryv7/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type fakeLeadService struct {
	leads map[string]*repository.Lead
}

func (f *fakeLeadService) Create(_ context.Context, input *service.CreateLeadInput) (*repository.Lead, error) {
	if !types.IsValidCategory(input.Category) {
		return nil, service.ErrInvalidInput
	}
	budget, err := decimal.NewFromString(input.Budget)
	if err != nil {
		return nil, service.ErrInvalidInput
	}
	lead := &repository.Lead{
		ID:         "created",
		Category:   input.Category,
		City:       input.City,
		Budget:     budget,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		LeadStatus: types.LeadStatusNew,
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeLeadService) GetByID(_ context.Context, leadID, viewerID string) (*repository.Lead, bool, error) {
	lead, ok := f.leads[leadID]
	if !ok {
		return nil, false, service.ErrNotFound
	}
	owned := viewerID != "" && lead.PurchasedBy != nil && *lead.PurchasedBy == viewerID
	return lead, owned, nil
}

func (f *fakeLeadService) ListAvailable(_ context.Context) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, l := range f.leads {
		if l.PurchasedBy == nil {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeadService) ListPurchased(_ context.Context, viewerID string) ([]*repository.Lead, error) {
	var out []*repository.Lead
	for _, l := range f.leads {
		if l.PurchasedBy != nil && *l.PurchasedBy == viewerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeadService) UpdateStatus(_ context.Context, leadID, viewerID, status string) error {
	if !types.IsValidLeadStatus(status) {
		return service.ErrInvalidInput
	}
	lead, ok := f.leads[leadID]
	if !ok || lead.PurchasedBy == nil || *lead.PurchasedBy != viewerID {
		return service.ErrForbidden
	}
	lead.LeadStatus = status
	return nil
}

type fakePaymentService struct {
	sessions map[string]*repository.PaymentSession
}

func (f *fakePaymentService) StartPurchase(_ context.Context, leadID, viewerID string) (*repository.PaymentSession, error) {
	if viewerID == "" {
		return nil, service.ErrSignInRequired
	}
	session := &repository.PaymentSession{
		ID:     "session-1",
		LeadID: leadID,
		UserID: viewerID,
		Amount: decimal.NewFromInt(25),
		Status: types.PaymentPending,
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakePaymentService) Confirm(_ context.Context, sessionID, viewerID string) (*repository.PaymentSession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, service.ErrNotFound
	}
	if session.UserID != viewerID {
		return nil, service.ErrForbidden
	}
	session.Status = types.PaymentSucceeded
	return session, nil
}

func (f *fakePaymentService) Cancel(_ context.Context, sessionID, viewerID string) error {
	session, ok := f.sessions[sessionID]
	if !ok {
		return service.ErrNotFound
	}
	if session.UserID != viewerID {
		return service.ErrForbidden
	}
	session.Status = types.PaymentCancelled
	return nil
}

func (f *fakePaymentService) ExpireStaleSessions(_ context.Context) (int64, error) {
	return 0, nil
}

func (f *fakePaymentService) PurgeResolvedSessions(_ context.Context, _ int) (int64, error) {
	return 0, nil
}

func ownedBy(id string) *string { return &id }

func testLead(id string, purchasedBy *string) *repository.Lead {
	return &repository.Lead{
		ID:             id,
		Category:       types.CategoryConstruction,
		EquipmentTypes: []string{"Excavator"},
		City:           "Denver, CO",
		Budget:         decimal.NewFromInt(500),
		Name:           "Ray Thompson",
		Email:          "ray@example.com",
		Phone:          "303-555-0142",
		PurchasedBy:    purchasedBy,
		LeadStatus:     types.LeadStatusNew,
	}
}

// setUser simulates the auth middleware for a fixed user; empty id leaves the
// request anonymous.
func setUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id != "" {
			c.Set("userID", id)
		}
		c.Next()
	}
}

func newTestRouter(userID string, leads ...*repository.Lead) (*gin.Engine, *fakeLeadService, *fakePaymentService) {
	gin.SetMode(gin.TestMode)

	leadSvc := &fakeLeadService{leads: make(map[string]*repository.Lead)}
	for _, l := range leads {
		leadSvc.leads[l.ID] = l
	}
	paymentSvc := &fakePaymentService{sessions: make(map[string]*repository.PaymentSession)}

	h := NewHandlers(&service.Services{Lead: leadSvc, Payment: paymentSvc})

	r := gin.New()
	r.Use(setUser(userID))
	r.GET("/api/leads", h.Lead.ListAvailable)
	r.GET("/api/leads/purchased", h.Lead.ListPurchased)
	r.GET("/api/leads/:id", h.Lead.Get)
	r.POST("/api/leads/:id/purchase", h.Lead.Purchase)
	r.PATCH("/api/leads/:id/status", h.Lead.UpdateStatus)
	r.POST("/api/payments/:id/confirm", h.Payment.Confirm)
	r.POST("/api/payments/:id/cancel", h.Payment.Cancel)
	return r, leadSvc, paymentSvc
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAvailableRedactsContactFields(t *testing.T) {
	r, _, _ := newTestRouter("", testLead("a", nil))

	w := doRequest(t, r, http.MethodGet, "/api/leads", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var leads []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &leads); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("len = %d, want 1", len(leads))
	}

	for _, field := range []string{"name", "email", "phone", "street", "zipCode", "details"} {
		if _, present := leads[0][field]; present {
			t.Errorf("available view leaks contact field %q", field)
		}
	}
	if leads[0]["city"] != "Denver, CO" {
		t.Errorf("city = %v, want Denver, CO", leads[0]["city"])
	}
	if leads[0]["icon"] == "" {
		t.Error("missing category icon")
	}
}

func TestListAvailableEmptyIsEmptyArray(t *testing.T) {
	r, _, _ := newTestRouter("")

	w := doRequest(t, r, http.MethodGet, "/api/leads", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestListPurchasedIncludesContactFields(t *testing.T) {
	r, _, _ := newTestRouter("u1", testLead("a", ownedBy("u1")))

	w := doRequest(t, r, http.MethodGet, "/api/leads/purchased", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var leads []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &leads); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("len = %d, want 1", len(leads))
	}
	if leads[0]["email"] != "ray@example.com" {
		t.Errorf("email = %v, want ray@example.com", leads[0]["email"])
	}
	if leads[0]["leadStatus"] != types.LeadStatusNew {
		t.Errorf("leadStatus = %v, want %q", leads[0]["leadStatus"], types.LeadStatusNew)
	}
}

func TestGetLeadSummaryForNonOwner(t *testing.T) {
	r, _, _ := newTestRouter("u2", testLead("a", ownedBy("u1")))

	w := doRequest(t, r, http.MethodGet, "/api/leads/a", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var lead map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &lead); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := lead["phone"]; present {
		t.Error("non-owner detail leaks phone")
	}
}

func TestPurchaseAnonymousGetsSignInRequired(t *testing.T) {
	r, _, paymentSvc := newTestRouter("", testLead("a", nil))

	w := doRequest(t, r, http.MethodPost, "/api/leads/a/purchase", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["signInRequired"] != true {
		t.Errorf("signInRequired = %v, want true", body["signInRequired"])
	}
	if len(paymentSvc.sessions) != 0 {
		t.Error("session opened for anonymous purchase click")
	}
}

func TestPurchaseAuthenticatedOpensSession(t *testing.T) {
	r, _, _ := newTestRouter("u1", testLead("a", nil))

	w := doRequest(t, r, http.MethodPost, "/api/leads/a/purchase", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["leadId"] != "a" || body["status"] != types.PaymentPending {
		t.Errorf("body = %v, want pending session for lead a", body)
	}
}

func TestConfirmPayment(t *testing.T) {
	r, _, paymentSvc := newTestRouter("u1", testLead("a", nil))

	doRequest(t, r, http.MethodPost, "/api/leads/a/purchase", "")

	w := doRequest(t, r, http.MethodPost, "/api/payments/session-1/confirm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if paymentSvc.sessions["session-1"].Status != types.PaymentSucceeded {
		t.Error("session not confirmed")
	}
}

func TestUpdateStatusByOwner(t *testing.T) {
	r, leadSvc, _ := newTestRouter("u1", testLead("a", ownedBy("u1")))

	w := doRequest(t, r, http.MethodPatch, "/api/leads/a/status", `{"status":"Contacted"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if leadSvc.leads["a"].LeadStatus != types.LeadStatusContacted {
		t.Errorf("lead status = %q, want Contacted", leadSvc.leads["a"].LeadStatus)
	}
}

func TestUpdateStatusByNonOwnerForbidden(t *testing.T) {
	r, _, _ := newTestRouter("u2", testLead("a", ownedBy("u1")))

	w := doRequest(t, r, http.MethodPatch, "/api/leads/a/status", `{"status":"Contacted"}`)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	r, _, _ := newTestRouter("u1", testLead("a", ownedBy("u1")))

	w := doRequest(t, r, http.MethodPatch, "/api/leads/a/status", `{"status":"Archived"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
