package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"paygate/internal/domain"
)

type PaymentRepo interface {
	FindByReference(ctx context.Context, ref string) (*domain.Payment, error)
	// ApplyStatus merge-upserts the record for upd.Reference and returns the
	// status persisted after the write (which may be the old status when the
	// one-way paid guard blocked a downgrade).
	ApplyStatus(ctx context.Context, upd domain.StatusUpdate) (domain.PaymentStatus, error)
	FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Payment, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) FindByReference(ctx context.Context, ref string) (*domain.Payment, error) {
	query := `
		SELECT id, transaction_reference, vendor, vendor_payment_id, amount, currency, status, raw_vendor_payload, created_at, updated_at
		FROM payments
		WHERE transaction_reference = $1
	`
	row := r.db.QueryRowContext(ctx, query, ref)
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.Reference,
		&p.Vendor,
		&p.VendorPaymentID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.RawPayload,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyStatus is a single statement so concurrent deliveries for the same
// reference cannot interleave a read and a write. The CASE keeps a paid row
// paid when a stale failure-class status arrives; refund-class statuses
// pass through. The raw payload is always overwritten for audit.
func (r *paymentRepo) ApplyStatus(ctx context.Context, upd domain.StatusUpdate) (domain.PaymentStatus, error) {
	query := `
		INSERT INTO payments (id, transaction_reference, vendor, vendor_payment_id, amount, currency, status, raw_vendor_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb, now(), now())
		ON CONFLICT (transaction_reference) DO UPDATE SET
			status = CASE
				WHEN payments.status = 'paid'
					AND EXCLUDED.status IN ('failed', 'cancelled', 'rejected', 'refund_failed')
				THEN payments.status
				ELSE EXCLUDED.status
			END,
			vendor = CASE WHEN EXCLUDED.vendor <> '' THEN EXCLUDED.vendor ELSE payments.vendor END,
			vendor_payment_id = CASE WHEN EXCLUDED.vendor_payment_id <> '' THEN EXCLUDED.vendor_payment_id ELSE payments.vendor_payment_id END,
			amount = COALESCE(EXCLUDED.amount, payments.amount),
			currency = CASE WHEN EXCLUDED.currency <> '' THEN EXCLUDED.currency ELSE payments.currency END,
			raw_vendor_payload = EXCLUDED.raw_vendor_payload,
			updated_at = now()
		RETURNING status
	`
	var final domain.PaymentStatus
	err := r.db.QueryRowContext(
		ctx, query,
		uuid.New(),
		upd.Reference,
		upd.Vendor,
		upd.VendorPaymentID,
		upd.Amount,
		upd.Currency,
		upd.Status,
		string(upd.RawPayload),
	).Scan(&final)
	if err != nil {
		return "", err
	}
	return final, nil
}

func (r *paymentRepo) FindStalePending(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Payment, error) {
	query := `
		SELECT id, transaction_reference, vendor, vendor_payment_id, amount, currency, status, raw_vendor_payload, created_at, updated_at
		FROM payments
		WHERE status = $1
		AND updated_at < $2
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, domain.PaymentPending, time.Now().Add(-olderThan), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		err := rows.Scan(
			&p.ID,
			&p.Reference,
			&p.Vendor,
			&p.VendorPaymentID,
			&p.Amount,
			&p.Currency,
			&p.Status,
			&p.RawPayload,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
