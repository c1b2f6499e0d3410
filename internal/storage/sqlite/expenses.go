package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/lessmo/internal/models"
)

// itemDoc is the JSON shape of an expense item in the items column.
type itemDoc struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	AssignedTo []string        `json:"assigned_to"`
}

// expenseDocs holds the JSON encoded split documents of an expense.
type expenseDocs struct {
	participantIDs   string
	customSplits     sql.NullString
	percentageSplits sql.NullString
	items            sql.NullString
}

func encodeExpense(e *models.Expense) (expenseDocs, error) {
	var docs expenseDocs

	ids, err := json.Marshal(e.ParticipantIDs)
	if err != nil {
		return docs, fmt.Errorf("failed to encode participant ids: %w", err)
	}
	docs.participantIDs = string(ids)

	if docs.customSplits, err = encodeOptional(e.CustomSplits, len(e.CustomSplits)); err != nil {
		return docs, fmt.Errorf("failed to encode custom splits: %w", err)
	}
	if docs.percentageSplits, err = encodeOptional(e.PercentageSplits, len(e.PercentageSplits)); err != nil {
		return docs, fmt.Errorf("failed to encode percentage splits: %w", err)
	}

	items := make([]itemDoc, len(e.Items))
	for i := range e.Items {
		item := &e.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		items[i] = itemDoc{ID: item.ID, Name: item.Name, Price: item.Price, AssignedTo: item.AssignedTo}
	}
	if docs.items, err = encodeOptional(items, len(items)); err != nil {
		return docs, fmt.Errorf("failed to encode items: %w", err)
	}
	return docs, nil
}

// encodeOptional stores empty documents as NULL.
func encodeOptional(v any, n int) (sql.NullString, error) {
	if n == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func (d expenseDocs) decode(e *models.Expense) error {
	if err := json.Unmarshal([]byte(d.participantIDs), &e.ParticipantIDs); err != nil {
		return fmt.Errorf("failed to decode participant ids: %w", err)
	}
	if d.customSplits.Valid {
		if err := json.Unmarshal([]byte(d.customSplits.String), &e.CustomSplits); err != nil {
			return fmt.Errorf("failed to decode custom splits: %w", err)
		}
	}
	if d.percentageSplits.Valid {
		if err := json.Unmarshal([]byte(d.percentageSplits.String), &e.PercentageSplits); err != nil {
			return fmt.Errorf("failed to decode percentage splits: %w", err)
		}
	}
	if d.items.Valid {
		var items []itemDoc
		if err := json.Unmarshal([]byte(d.items.String), &items); err != nil {
			return fmt.Errorf("failed to decode items: %w", err)
		}
		for _, item := range items {
			e.Items = append(e.Items, models.ExpenseItem{
				ID: item.ID, Name: item.Name, Price: item.Price, AssignedTo: item.AssignedTo,
			})
		}
	}
	return nil
}

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}
	if e.UpdatedAt == 0 {
		e.UpdatedAt = e.CreatedAt
	}

	docs, err := encodeExpense(e)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, event_id, description, category, paid_by, amount,
		     participant_ids, split_type, custom_splits, percentage_splits, items,
		     created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.EventID, e.Description, e.Category, e.PaidBy, e.Amount,
		docs.participantIDs, string(e.SplitType), docs.customSplits, docs.percentageSplits, docs.items,
		e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return notFound(sql.ErrNoRows, "event", e.EventID)
		}
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// UpdateExpense replaces every mutable field of an existing expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, e *models.Expense) error {
	e.UpdatedAt = time.Now().Unix()

	docs, err := encodeExpense(e)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET description = ?, category = ?, paid_by = ?, amount = ?,
		     participant_ids = ?, split_type = ?, custom_splits = ?, percentage_splits = ?,
		     items = ?, updated_at = ?
		 WHERE id = ?`,
		e.Description, e.Category, e.PaidBy, e.Amount,
		docs.participantIDs, string(e.SplitType), docs.customSplits, docs.percentageSplits,
		docs.items, e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return expectOneRow(res, "expense", e.ID)
}

// DeleteExpense removes an expense by ID.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	return s.deleteByID(ctx, "expenses", expenseID)
}

const expenseColumns = `id, event_id, description, category, paid_by, amount, participant_ids,
	split_type, custom_splits, percentage_splits, items, created_by, created_at, updated_at`

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var (
		e         models.Expense
		docs      expenseDocs
		splitType string
	)
	err := row.Scan(&e.ID, &e.EventID, &e.Description, &e.Category, &e.PaidBy, &e.Amount,
		&docs.participantIDs, &splitType, &docs.customSplits, &docs.percentageSplits, &docs.items,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	e.SplitType = models.SplitType(splitType)
	return e, docs.decode(&e)
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ?",
		expenseID,
	))
	if err != nil {
		return nil, notFound(err, "expense", expenseID)
	}
	return &e, nil
}

// ListExpenses retrieves the expenses of an event in creation order.
func (s *SQLiteStore) ListExpenses(ctx context.Context, eventID string) ([]models.Expense, error) {
	return listExpenses(ctx, s.db, eventID)
}

func listExpenses(ctx context.Context, q querier, eventID string) ([]models.Expense, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE event_id = ? ORDER BY created_at, rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}
