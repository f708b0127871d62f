package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gonzalezcreative/directoryv7/internal/config"
	"github.com/gonzalezcreative/directoryv7/internal/diag"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/types"
)

type fakePaymentRepo struct {
	sessions map[string]*repository.PaymentSession
	nextID   int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{sessions: make(map[string]*repository.PaymentSession)}
}

func (r *fakePaymentRepo) Create(_ context.Context, session *repository.PaymentSession) error {
	r.nextID++
	session.ID = fmt.Sprintf("session-%d", r.nextID)
	session.Status = types.PaymentPending
	r.sessions[session.ID] = session
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id string) (*repository.PaymentSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakePaymentRepo) Resolve(_ context.Context, id, status string) (bool, error) {
	s, ok := r.sessions[id]
	if !ok || s.Status != types.PaymentPending {
		return false, nil
	}
	s.Status = status
	return true, nil
}

func (r *fakePaymentRepo) ExpireStale(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}

func (r *fakePaymentRepo) DeleteResolvedBefore(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

func newPaymentFixture(leads ...*repository.Lead) (PaymentService, *fakeLeadRepo, *fakePaymentRepo, *diag.Recorder) {
	leadRepo := newFakeLeadRepo(leads...)
	paymentRepo := newFakePaymentRepo()
	sink := &diag.Recorder{}
	cfg := &config.Config{LeadPrice: "25", PaymentSessionTTL: 30}
	svc := NewPaymentService(cfg, paymentRepo, leadRepo, nil, nil, nil, nil, sink)
	return svc, leadRepo, paymentRepo, sink
}

func TestStartPurchaseAnonymousRequiresSignIn(t *testing.T) {
	svc, _, paymentRepo, _ := newPaymentFixture(lead("a", nil))

	_, err := svc.StartPurchase(context.Background(), "a", "")
	if err != ErrSignInRequired {
		t.Fatalf("err = %v, want ErrSignInRequired", err)
	}
	if len(paymentRepo.sessions) != 0 {
		t.Error("session opened for anonymous viewer")
	}
}

func TestStartPurchaseOpensPendingSession(t *testing.T) {
	svc, leadRepo, _, _ := newPaymentFixture(lead("a", nil))

	session, err := svc.StartPurchase(context.Background(), "a", "u1")
	if err != nil {
		t.Fatalf("StartPurchase: %v", err)
	}
	if session.LeadID != "a" || session.UserID != "u1" {
		t.Errorf("session = %+v, want lead a for u1", session)
	}
	if session.Status != types.PaymentPending {
		t.Errorf("status = %q, want pending", session.Status)
	}
	if session.Amount.String() != "25" {
		t.Errorf("amount = %s, want 25", session.Amount)
	}
	// Opening the payment step must not purchase anything yet
	if leadRepo.leads["a"].PurchasedBy != nil {
		t.Error("lead purchased before payment success signal")
	}
}

func TestStartPurchaseSoldLead(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(lead("a", strPtr("u2")))

	if _, err := svc.StartPurchase(context.Background(), "a", "u1"); err != ErrLeadUnavailable {
		t.Fatalf("err = %v, want ErrLeadUnavailable", err)
	}
}

func TestStartPurchaseMissingLead(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	if _, err := svc.StartPurchase(context.Background(), "ghost", "u1"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestConfirmCommitsPurchase(t *testing.T) {
	svc, leadRepo, paymentRepo, sink := newPaymentFixture(lead("a", nil))

	session, err := svc.StartPurchase(context.Background(), "a", "u1")
	if err != nil {
		t.Fatalf("StartPurchase: %v", err)
	}

	confirmed, err := svc.Confirm(context.Background(), session.ID, "u1")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.Status != types.PaymentSucceeded {
		t.Errorf("status = %q, want succeeded", confirmed.Status)
	}
	if leadRepo.leads["a"].PurchasedBy == nil || *leadRepo.leads["a"].PurchasedBy != "u1" {
		t.Error("lead not committed to buyer")
	}
	if paymentRepo.sessions[session.ID].Status != types.PaymentSucceeded {
		t.Error("session not resolved")
	}
	if len(sink.Reports) != 0 {
		t.Errorf("unexpected sink reports: %v", sink.Reports)
	}
}

func TestConfirmOwnership(t *testing.T) {
	svc, _, _, _ := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")

	if _, err := svc.Confirm(context.Background(), session.ID, "u2"); err != ErrForbidden {
		t.Errorf("foreign session: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Confirm(context.Background(), "ghost", "u1"); err != ErrNotFound {
		t.Errorf("unknown session: err = %v, want ErrNotFound", err)
	}
}

// A lead sold to someone else between session open and payment success still
// confirms; the dead commit is visible only through the sink.
func TestConfirmSwallowsLostRace(t *testing.T) {
	svc, leadRepo, _, sink := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")
	leadRepo.leads["a"].PurchasedBy = strPtr("u2")

	confirmed, err := svc.Confirm(context.Background(), session.ID, "u1")
	if err != nil {
		t.Fatalf("Confirm surfaced the lost race: %v", err)
	}
	if confirmed.Status != types.PaymentSucceeded {
		t.Errorf("status = %q, want succeeded", confirmed.Status)
	}
	if *leadRepo.leads["a"].PurchasedBy != "u2" {
		t.Error("original buyer overwritten")
	}
	if len(sink.Reports) != 1 {
		t.Fatalf("sink reports = %d, want 1", len(sink.Reports))
	}
}

func TestConfirmReplayedSignal(t *testing.T) {
	svc, leadRepo, _, sink := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")
	if _, err := svc.Confirm(context.Background(), session.ID, "u1"); err != nil {
		t.Fatalf("first Confirm: %v", err)
	}

	// The replay hits the sold-lead guard and lands in the sink; the
	// response stays success-shaped either way.
	if _, err := svc.Confirm(context.Background(), session.ID, "u1"); err != nil {
		t.Fatalf("replayed Confirm: %v", err)
	}
	if *leadRepo.leads["a"].PurchasedBy != "u1" {
		t.Error("replay changed the owner")
	}
	if len(sink.Reports) != 1 {
		t.Errorf("sink reports = %d, want 1 (the replayed commit)", len(sink.Reports))
	}
}

// A success signal arriving after the session was cancelled has no payment
// step to resolve; it must not sell the lead through the dead session.
func TestConfirmCancelledSession(t *testing.T) {
	svc, leadRepo, paymentRepo, sink := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")
	if err := svc.Cancel(context.Background(), session.ID, "u1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svc.Confirm(context.Background(), session.ID, "u1"); err != ErrSessionClosed {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
	if leadRepo.leads["a"].PurchasedBy != nil {
		t.Error("confirm on a cancelled session committed the purchase")
	}
	if paymentRepo.sessions[session.ID].Status != types.PaymentCancelled {
		t.Errorf("session status = %q, want cancelled", paymentRepo.sessions[session.ID].Status)
	}
	if len(sink.Reports) != 0 {
		t.Errorf("unexpected sink reports: %v", sink.Reports)
	}
}

func TestConfirmExpiredSession(t *testing.T) {
	svc, leadRepo, paymentRepo, _ := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")
	paymentRepo.sessions[session.ID].Status = types.PaymentExpired

	if _, err := svc.Confirm(context.Background(), session.ID, "u1"); err != ErrSessionClosed {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
	if leadRepo.leads["a"].PurchasedBy != nil {
		t.Error("confirm on an expired session committed the purchase")
	}
}

func TestCancelClosesWithoutCommit(t *testing.T) {
	svc, leadRepo, paymentRepo, _ := newPaymentFixture(lead("a", nil))

	session, _ := svc.StartPurchase(context.Background(), "a", "u1")

	if err := svc.Cancel(context.Background(), session.ID, "u1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if leadRepo.leads["a"].PurchasedBy != nil {
		t.Error("cancel committed a purchase")
	}
	if paymentRepo.sessions[session.ID].Status != types.PaymentCancelled {
		t.Error("session not cancelled")
	}

	if err := svc.Cancel(context.Background(), session.ID, "u1"); err != ErrSessionClosed {
		t.Errorf("second cancel: err = %v, want ErrSessionClosed", err)
	}
}
