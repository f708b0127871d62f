package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrLeadUnavailable is returned by Purchase when the lead was already sold.
var ErrLeadUnavailable = errors.New("lead already purchased")

// ErrNotOwner is returned by UpdateStatus when the lead is not owned by the
// given user.
var ErrNotOwner = errors.New("lead not owned by user")

type Lead struct {
	ID             string
	Category       string
	EquipmentTypes []string
	City           string
	StartDate      string
	RentalDuration string
	Budget         decimal.Decimal

	// Contact fields; only ever exposed to the purchasing owner
	Name    string
	Email   string
	Phone   string
	Street  string
	ZipCode string
	Details string

	PurchasedBy *string
	PurchasedAt *time.Time
	LeadStatus  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindAvailable(ctx context.Context) ([]*Lead, error)
	FindPurchasedBy(ctx context.Context, userID string) ([]*Lead, error)
	Purchase(ctx context.Context, leadID, userID string) error
	UpdateStatus(ctx context.Context, leadID, ownerID, status string) error
}

type pgLeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &pgLeadRepository{pool: pool}
}

const leadColumns = `
	id, category, equipment_types, city, start_date, rental_duration, budget,
	name, email, phone, street, zip_code, details,
	purchased_by, purchased_at, lead_status, created_at, updated_at
`

func scanLead(row pgx.Row) (*Lead, error) {
	lead := &Lead{}
	err := row.Scan(
		&lead.ID, &lead.Category, &lead.EquipmentTypes, &lead.City,
		&lead.StartDate, &lead.RentalDuration, &lead.Budget,
		&lead.Name, &lead.Email, &lead.Phone, &lead.Street, &lead.ZipCode, &lead.Details,
		&lead.PurchasedBy, &lead.PurchasedAt, &lead.LeadStatus,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *pgLeadRepository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (category, equipment_types, city, start_date, rental_duration, budget,
			name, email, phone, street, zip_code, details, lead_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`
	if lead.LeadStatus == "" {
		lead.LeadStatus = "New"
	}
	return r.pool.QueryRow(ctx, query,
		lead.Category, lead.EquipmentTypes, lead.City, lead.StartDate,
		lead.RentalDuration, lead.Budget,
		lead.Name, lead.Email, lead.Phone, lead.Street, lead.ZipCode, lead.Details,
		lead.LeadStatus,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *pgLeadRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *pgLeadRepository) FindAvailable(ctx context.Context) ([]*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads WHERE purchased_by IS NULL
		ORDER BY created_at DESC
	`
	return r.queryLeads(ctx, query)
}

func (r *pgLeadRepository) FindPurchasedBy(ctx context.Context, userID string) ([]*Lead, error) {
	query := `
		SELECT ` + leadColumns + `
		FROM leads WHERE purchased_by = $1
		ORDER BY purchased_at DESC
	`
	return r.queryLeads(ctx, query, userID)
}

func (r *pgLeadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]*Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Purchase assigns the lead to the buyer. The conditional update means a lead
// can only ever be sold once; a second commit for the same lead fails with
// ErrLeadUnavailable.
func (r *pgLeadRepository) Purchase(ctx context.Context, leadID, userID string) error {
	query := `
		UPDATE leads
		SET purchased_by = $2, purchased_at = NOW(), lead_status = 'New', updated_at = NOW()
		WHERE id = $1 AND purchased_by IS NULL
	`
	ct, err := r.pool.Exec(ctx, query, leadID, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrLeadUnavailable
	}
	return nil
}

func (r *pgLeadRepository) UpdateStatus(ctx context.Context, leadID, ownerID, status string) error {
	query := `
		UPDATE leads SET lead_status = $3, updated_at = NOW()
		WHERE id = $1 AND purchased_by = $2
	`
	ct, err := r.pool.Exec(ctx, query, leadID, ownerID, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotOwner
	}
	return nil
}
