// Package purchase implements the purchase attempt state machine: a click on
// an available lead either routes the viewer to sign-in or opens a payment
// step for that lead, and a payment success commits the purchase exactly once
// per signal. The machine is plain state plus two injected collaborators, so
// it is testable without HTTP or a database.
package purchase

import (
	"context"

	"github.com/gonzalezcreative/directoryv7/internal/diag"
)

// State of a purchase attempt.
type State int

const (
	// StateIdle - no step open.
	StateIdle State = iota
	// StateAuthPending - viewer was anonymous, sign-in step open.
	StateAuthPending
	// StatePaymentPending - payment step open for the selected lead.
	StatePaymentPending
)

func (s State) String() string {
	switch s {
	case StateAuthPending:
		return "auth_pending"
	case StatePaymentPending:
		return "payment_pending"
	default:
		return "idle"
	}
}

// Outcome tells the caller what a click resolved to.
type Outcome int

const (
	// OutcomeNone - the click was ignored (a step is already open).
	OutcomeNone Outcome = iota
	// OutcomeSignInRequired - the viewer must sign in first.
	OutcomeSignInRequired
	// OutcomePaymentRequired - a payment step opened for the selected lead.
	OutcomePaymentRequired
)

// Committer commits a purchase for a lead on behalf of the flow's viewer.
type Committer interface {
	PurchaseLead(ctx context.Context, leadID string) error
}

// Flow is the per-attempt state machine. It is not safe for concurrent use;
// callbacks are expected to run to completion one at a time.
type Flow struct {
	committer Committer
	sink      diag.Sink

	state        State
	selectedLead string
}

func NewFlow(committer Committer, sink diag.Sink) *Flow {
	return &Flow{committer: committer, sink: sink, state: StateIdle}
}

// ResumePayment rebuilds a flow whose payment step is already open, e.g. from
// a persisted payment session.
func ResumePayment(committer Committer, sink diag.Sink, leadID string) *Flow {
	return &Flow{
		committer:    committer,
		sink:         sink,
		state:        StatePaymentPending,
		selectedLead: leadID,
	}
}

func (f *Flow) State() State {
	return f.state
}

// SelectedLead returns the lead id the payment step targets, empty outside
// StatePaymentPending.
func (f *Flow) SelectedLead() string {
	return f.selectedLead
}

// Click handles a purchase click on a lead. An empty viewerID means the
// viewer is anonymous.
func (f *Flow) Click(leadID, viewerID string) Outcome {
	if f.state != StateIdle {
		return OutcomeNone
	}
	if viewerID == "" {
		f.state = StateAuthPending
		return OutcomeSignInRequired
	}
	f.state = StatePaymentPending
	f.selectedLead = leadID
	return OutcomePaymentRequired
}

// AuthSucceeded closes the sign-in step. It does not continue to payment; the
// viewer has to click purchase again.
func (f *Flow) AuthSucceeded() {
	if f.state == StateAuthPending {
		f.state = StateIdle
	}
}

// AuthDismissed closes the sign-in step without signing in.
func (f *Flow) AuthDismissed() {
	if f.state == StateAuthPending {
		f.state = StateIdle
	}
}

// PaymentSucceeded commits the purchase for the selected lead and closes the
// payment step. The step closes whether or not the commit succeeds; a commit
// failure goes to the diagnostic sink only. There is no idempotency key: every
// success signal delivered to a payment-pending flow issues a commit.
func (f *Flow) PaymentSucceeded(ctx context.Context) {
	if f.state != StatePaymentPending {
		return
	}
	if err := f.committer.PurchaseLead(ctx, f.selectedLead); err != nil {
		f.sink.Errorf("purchase commit failed for lead %s: %v", f.selectedLead, err)
	}
	f.state = StateIdle
	f.selectedLead = ""
}

// PaymentCancelled closes the payment step without committing.
func (f *Flow) PaymentCancelled() {
	if f.state != StatePaymentPending {
		return
	}
	f.state = StateIdle
	f.selectedLead = ""
}
