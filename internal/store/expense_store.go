package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type ExpenseStore struct {
	db *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{db: db}
}

func (s *ExpenseStore) Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, property_id, room_id, amount, category, description, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.PropertyID, e.RoomID, e.Amount, e.Category, e.Description, dateArg(&e.Date))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return s.GetByID(ctx, e.ID)
}

func (s *ExpenseStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Expense, error) {
	e, err := scanExpense(s.db.QueryRowContext(ctx, `
		SELECT id, property_id, room_id, amount, category, description, date, created_at FROM expenses WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return e, nil
}

// ListByProperty returns expenses dated within [from, to], newest first. A nil
// bound leaves that side open.
func (s *ExpenseStore) ListByProperty(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Expense, error) {
	fromArg, toArg := dateArg(from), dateArg(to)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, room_id, amount, category, description, date, created_at FROM expenses
		WHERE property_id = ?
			AND (? IS NULL OR date >= ?)
			AND (? IS NULL OR date <= ?)
		ORDER BY date DESC
	`, propertyID, fromArg, fromArg, toArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer closeRows(rows)

	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

func (s *ExpenseStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM expenses WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return checkAffected(result, "expense")
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	e := &domain.Expense{}
	var roomID uuid.NullUUID
	var date sql.NullString
	if err := row.Scan(&e.ID, &e.PropertyID, &roomID, &e.Amount, &e.Category, &e.Description, &date, &e.CreatedAt); err != nil {
		return nil, err
	}
	if roomID.Valid {
		e.RoomID = &roomID.UUID
	}
	d, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	if d != nil {
		e.Date = *d
	}
	return e, nil
}
