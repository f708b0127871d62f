package service

import (
	"context"
	"log"
	"time"

	"github.com/gonzalezcreative/directoryv7/internal/config"
	"github.com/gonzalezcreative/directoryv7/internal/db"
	"github.com/gonzalezcreative/directoryv7/internal/diag"
	"github.com/gonzalezcreative/directoryv7/internal/email"
	"github.com/gonzalezcreative/directoryv7/internal/purchase"
	"github.com/gonzalezcreative/directoryv7/internal/repository"
	"github.com/gonzalezcreative/directoryv7/internal/socket"
	"github.com/gonzalezcreative/directoryv7/internal/types"
	"github.com/shopspring/decimal"
)

// ============================================
// Payment Service
// ============================================

// PaymentService drives the purchase flow on the server side. A purchase
// click opens a payment session; the provider's success signal commits the
// purchase for the session's lead; cancellation closes the session without
// committing. The actual charge is the payment provider's problem and stays
// outside this service.
type PaymentService interface {
	// StartPurchase handles a purchase click. An empty viewerID returns
	// ErrSignInRequired and opens nothing else.
	StartPurchase(ctx context.Context, leadID, viewerID string) (*repository.PaymentSession, error)
	// Confirm handles the payment-success signal for a session. The commit
	// outcome is deliberately not reflected in the returned error; commit
	// failures go to the diagnostic sink only.
	Confirm(ctx context.Context, sessionID, viewerID string) (*repository.PaymentSession, error)
	// Cancel closes a session without committing.
	Cancel(ctx context.Context, sessionID, viewerID string) error
	ExpireStaleSessions(ctx context.Context) (int64, error)
	PurgeResolvedSessions(ctx context.Context, olderThanDays int) (int64, error)
}

type paymentService struct {
	cfg         *config.Config
	paymentRepo repository.PaymentRepository
	leadRepo    repository.LeadRepository
	userRepo    repository.UserRepository
	cache       *db.RedisDB
	emailSvc    *email.Service
	broadcaster *socket.Broadcaster
	sink        diag.Sink
	leadPrice   decimal.Decimal
}

func NewPaymentService(
	cfg *config.Config,
	paymentRepo repository.PaymentRepository,
	leadRepo repository.LeadRepository,
	userRepo repository.UserRepository,
	cache *db.RedisDB,
	emailSvc *email.Service,
	broadcaster *socket.Broadcaster,
	sink diag.Sink,
) PaymentService {
	price, err := decimal.NewFromString(cfg.LeadPrice)
	if err != nil {
		log.Printf("⚠️ [Payment] Invalid LEAD_PRICE %q, defaulting to 25", cfg.LeadPrice)
		price = decimal.NewFromInt(25)
	}
	return &paymentService{
		cfg:         cfg,
		paymentRepo: paymentRepo,
		leadRepo:    leadRepo,
		userRepo:    userRepo,
		cache:       cache,
		emailSvc:    emailSvc,
		broadcaster: broadcaster,
		sink:        sink,
		leadPrice:   price,
	}
}

// committer adapts the lead repository to the purchase flow. Post-commit side
// effects (cache invalidation, broadcast, receipt) run only when the commit
// actually went through.
type committer struct {
	svc    *paymentService
	userID string
}

func (c *committer) PurchaseLead(ctx context.Context, leadID string) error {
	if err := c.svc.leadRepo.Purchase(ctx, leadID, c.userID); err != nil {
		return err
	}
	c.svc.afterPurchase(ctx, leadID, c.userID)
	return nil
}

func (s *paymentService) StartPurchase(ctx context.Context, leadID, viewerID string) (*repository.PaymentSession, error) {
	flow := purchase.NewFlow(&committer{svc: s, userID: viewerID}, s.sink)

	switch flow.Click(leadID, viewerID) {
	case purchase.OutcomeSignInRequired:
		return nil, ErrSignInRequired
	case purchase.OutcomePaymentRequired:
		// fall through to open the session
	default:
		return nil, ErrInvalidInput
	}

	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	if lead.PurchasedBy != nil {
		return nil, ErrLeadUnavailable
	}

	session := &repository.PaymentSession{
		LeadID: flow.SelectedLead(),
		UserID: viewerID,
		Amount: s.leadPrice,
	}
	if err := s.paymentRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("💳 [Payment] Session opened: session=%s lead=%s user=%s amount=%s",
		session.ID, session.LeadID, viewerID, session.Amount.String())
	return session, nil
}

func (s *paymentService) Confirm(ctx context.Context, sessionID, viewerID string) (*repository.PaymentSession, error) {
	session, err := s.paymentRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.UserID != viewerID {
		return nil, ErrForbidden
	}

	// A cancelled or expired session has no payment step left to succeed;
	// only an open or already-confirmed session accepts the signal.
	switch session.Status {
	case types.PaymentPending, types.PaymentSucceeded:
	default:
		return nil, ErrSessionClosed
	}

	// One commit per success signal. There is no idempotency key here: a
	// signal replayed for an already-confirmed session reaches the committer
	// again, fails on the sold-lead guard, and ends up in the sink.
	flow := purchase.ResumePayment(&committer{svc: s, userID: session.UserID}, s.sink, session.LeadID)
	flow.PaymentSucceeded(ctx)

	resolved, err := s.paymentRepo.Resolve(ctx, sessionID, types.PaymentSucceeded)
	if err != nil {
		s.sink.Errorf("failed to resolve payment session %s: %v", sessionID, err)
	} else if !resolved {
		log.Printf("⚠️ [Payment] Session %s was already closed", sessionID)
	}

	session.Status = types.PaymentSucceeded
	return session, nil
}

func (s *paymentService) Cancel(ctx context.Context, sessionID, viewerID string) error {
	session, err := s.paymentRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}
	if session.UserID != viewerID {
		return ErrForbidden
	}

	resolved, err := s.paymentRepo.Resolve(ctx, sessionID, types.PaymentCancelled)
	if err != nil {
		return err
	}
	if !resolved {
		return ErrSessionClosed
	}
	log.Printf("💳 [Payment] Session cancelled: session=%s lead=%s", sessionID, session.LeadID)
	return nil
}

func (s *paymentService) ExpireStaleSessions(ctx context.Context) (int64, error) {
	ttl := s.cfg.PaymentSessionTTL
	if ttl <= 0 {
		ttl = 30
	}
	return s.paymentRepo.ExpireStale(ctx, time.Duration(ttl)*time.Minute)
}

func (s *paymentService) PurgeResolvedSessions(ctx context.Context, olderThanDays int) (int64, error) {
	return s.paymentRepo.DeleteResolvedBefore(ctx, time.Now().AddDate(0, 0, -olderThanDays))
}

func (s *paymentService) afterPurchase(ctx context.Context, leadID, userID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateCache(ctx, availableCacheKey); err != nil {
			s.sink.Errorf("failed to invalidate available-leads cache: %v", err)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadPurchased(leadID)
		s.broadcaster.SendPurchaseConfirmed(userID, leadID)
	}

	if s.emailSvc == nil {
		return
	}
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil || lead == nil {
		return
	}
	buyer, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || buyer == nil {
		return
	}
	if err := s.emailSvc.SendPurchaseReceipt(buyer.Email, email.PurchaseReceiptData{
		BuyerName:      buyer.Name,
		City:           lead.City,
		Category:       lead.Category,
		StartDate:      lead.StartDate,
		RentalDuration: lead.RentalDuration,
		Amount:         s.leadPrice.String(),
		LeadsURL:       s.cfg.FrontendURL + "/leads/purchased",
	}); err != nil {
		log.Printf("⚠️ [Payment] Failed to send receipt to %s: %v", buyer.Email, err)
	}
}
