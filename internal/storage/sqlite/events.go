package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
	"github.com/mmynk/lessmo/internal/storage"
)

// CreateEvent persists a new event to the database.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, name, currency, budget, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.Currency, event.Budget, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("event %s: %w", event.ID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return getEvent(ctx, s.db, eventID)
}

func getEvent(ctx context.Context, q querier, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := q.QueryRowContext(ctx,
		"SELECT id, name, currency, budget, created_by, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Name, &event.Currency, &event.Budget, &event.CreatedBy, &event.CreatedAt)
	if err != nil {
		return nil, notFound(err, "event", eventID)
	}
	return event, nil
}

// AddParticipant inserts a participant into an existing event.
func (s *SQLiteStore) AddParticipant(ctx context.Context, p *models.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.JoinedAt == 0 {
		p.JoinedAt = time.Now().Unix()
	}

	var userID any
	if p.UserID != "" {
		userID = p.UserID
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participants (id, event_id, user_id, name, individual_budget, current_balance, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.EventID, userID, p.Name, p.IndividualBudget, p.CurrentBalance, p.JoinedAt,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return fmt.Errorf("event %s: %w", p.EventID, storage.ErrNotFound)
		case isUniqueViolation(err):
			return fmt.Errorf("participant %s: %w", p.ID, storage.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

const participantColumns = "id, event_id, user_id, name, individual_budget, current_balance, joined_at"

func scanParticipant(row interface{ Scan(...any) error }) (models.Participant, error) {
	var (
		p      models.Participant
		userID sql.NullString
	)
	err := row.Scan(&p.ID, &p.EventID, &userID, &p.Name, &p.IndividualBudget, &p.CurrentBalance, &p.JoinedAt)
	p.UserID = userID.String
	return p, err
}

// GetParticipant retrieves a participant by ID.
func (s *SQLiteStore) GetParticipant(ctx context.Context, participantID string) (*models.Participant, error) {
	p, err := scanParticipant(s.db.QueryRowContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE id = ?",
		participantID,
	))
	if err != nil {
		return nil, notFound(err, "participant", participantID)
	}
	return &p, nil
}

// ListParticipants retrieves the participants of an event in join order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, eventID string) ([]models.Participant, error) {
	return listParticipants(ctx, s.db, eventID)
}

func listParticipants(ctx context.Context, q querier, eventID string) ([]models.Participant, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+participantColumns+" FROM participants WHERE event_id = ? ORDER BY joined_at, rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// DeleteParticipant removes a participant by ID.
func (s *SQLiteStore) DeleteParticipant(ctx context.Context, participantID string) error {
	return s.deleteByID(ctx, "participants", participantID)
}

// UpdateParticipantBalance overwrites the cached balance of one participant.
func (s *SQLiteStore) UpdateParticipantBalance(ctx context.Context, participantID string, balance decimal.Decimal) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE participants SET current_balance = ? WHERE id = ?",
		balance, participantID,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant balance: %w", err)
	}
	return expectOneRow(res, "participant", participantID)
}
