package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentSession struct {
	ID        string
	LeadID    string
	UserID    string
	Amount    decimal.Decimal
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, session *PaymentSession) error
	FindByID(ctx context.Context, id string) (*PaymentSession, error)
	// Resolve moves a pending session to a terminal status. It reports whether
	// the transition happened; an already-resolved session is left untouched.
	Resolve(ctx context.Context, id, status string) (bool, error)
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
	DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type pgPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &pgPaymentRepository{pool: pool}
}

func (r *pgPaymentRepository) Create(ctx context.Context, session *PaymentSession) error {
	query := `
		INSERT INTO payment_sessions (lead_id, user_id, amount, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, status, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query, session.LeadID, session.UserID, session.Amount).
		Scan(&session.ID, &session.Status, &session.CreatedAt, &session.UpdatedAt)
}

func (r *pgPaymentRepository) FindByID(ctx context.Context, id string) (*PaymentSession, error) {
	query := `
		SELECT id, lead_id, user_id, amount, status, created_at, updated_at
		FROM payment_sessions WHERE id = $1
	`
	s := &PaymentSession{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.LeadID, &s.UserID, &s.Amount, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgPaymentRepository) Resolve(ctx context.Context, id, status string) (bool, error) {
	query := `
		UPDATE payment_sessions SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	ct, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgPaymentRepository) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE payment_sessions SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND created_at < $1
	`
	ct, err := r.pool.Exec(ctx, query, time.Now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *pgPaymentRepository) DeleteResolvedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM payment_sessions
		WHERE status <> 'pending' AND updated_at < $1
	`
	ct, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
