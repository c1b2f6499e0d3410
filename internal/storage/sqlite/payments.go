package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/lessmo/internal/models"
)

// CreatePayment persists a new payment to the database.
func (s *SQLiteStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.CreatedAt == 0 {
		payment.CreatedAt = time.Now().Unix()
	}

	var note any
	if payment.Note != "" {
		note = payment.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO payments (id, event_id, from_id, to_id, amount, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID, payment.EventID, payment.FromID, payment.ToID,
		payment.Amount, note, payment.CreatedBy, payment.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return notFound(sql.ErrNoRows, "event", payment.EventID)
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

const paymentColumns = "id, event_id, from_id, to_id, amount, note, created_by, created_at"

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var (
		p    models.Payment
		note sql.NullString
	)
	err := row.Scan(&p.ID, &p.EventID, &p.FromID, &p.ToID, &p.Amount, &note, &p.CreatedBy, &p.CreatedAt)
	p.Note = note.String
	return p, err
}

// GetPayment retrieves a payment by ID.
func (s *SQLiteStore) GetPayment(ctx context.Context, paymentID string) (*models.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE id = ?",
		paymentID,
	))
	if err != nil {
		return nil, notFound(err, "payment", paymentID)
	}
	return &p, nil
}

// ListPayments retrieves the payments of an event in creation order.
func (s *SQLiteStore) ListPayments(ctx context.Context, eventID string) ([]models.Payment, error) {
	return listPayments(ctx, s.db, eventID)
}

func listPayments(ctx context.Context, q querier, eventID string) ([]models.Payment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+paymentColumns+" FROM payments WHERE event_id = ? ORDER BY created_at, rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}

// DeletePayment removes a payment by ID.
func (s *SQLiteStore) DeletePayment(ctx context.Context, paymentID string) error {
	return s.deleteByID(ctx, "payments", paymentID)
}
