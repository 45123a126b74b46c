package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

const incomeSelect = `
	SELECT i.id, i.property_id, i.room_id, i.amount, i.month, i.paid, i.payment_date, i.notes, i.created_at,
		COALESCE(r.name, ''), COALESCE(t.full_name, '')
	FROM income i
	LEFT JOIN rooms r ON r.id = i.room_id
	LEFT JOIN tenants t ON t.id = r.tenant_id`

type IncomeStore struct {
	db *sql.DB
}

func NewIncomeStore(db *sql.DB) *IncomeStore {
	return &IncomeStore{db: db}
}

// Create stores an income row. Month is normalised to the first of the month.
func (s *IncomeStore) Create(ctx context.Context, in *domain.Income) (*domain.Income, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	month := FirstOfMonth(in.Month)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO income (id, property_id, room_id, amount, month, paid, payment_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, in.ID, in.PropertyID, in.RoomID, in.Amount, dateArg(&month), in.Paid, dateArg(in.PaymentDate), in.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	return s.GetByID(ctx, in.ID)
}

func (s *IncomeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Income, error) {
	in, err := scanIncome(s.db.QueryRowContext(ctx, incomeSelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get income: %w", err)
	}
	return in, nil
}

// ListByProperty returns the property's income, newest month first. A nil
// bound leaves that side of the month range open.
func (s *IncomeStore) ListByProperty(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Income, error) {
	fromArg, toArg := dateArg(from), dateArg(to)
	rows, err := s.db.QueryContext(ctx, incomeSelect+`
		WHERE i.property_id = ?
			AND (? IS NULL OR i.month >= ?)
			AND (? IS NULL OR i.month <= ?)
		ORDER BY i.month DESC, r.name ASC
	`, propertyID, fromArg, fromArg, toArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	defer closeRows(rows)

	var income []*domain.Income
	for rows.Next() {
		in, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		income = append(income, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income: %w", err)
	}

	return income, nil
}

func (s *IncomeStore) MarkPaid(ctx context.Context, id uuid.UUID, paidOn time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE income SET paid = 1, payment_date = ? WHERE id = ?
	`, paidOn.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to mark income paid: %w", err)
	}
	return checkAffected(result, "income")
}

func (s *IncomeStore) MarkUnpaid(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE income SET paid = 0, payment_date = NULL WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark income unpaid: %w", err)
	}
	return checkAffected(result, "income")
}

// ExistsForRoomMonth reports whether the room already has income for month.
func (s *IncomeStore) ExistsForRoomMonth(ctx context.Context, roomID uuid.UUID, month time.Time) (bool, error) {
	first := FirstOfMonth(month)
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM income WHERE room_id = ? AND month = ?
	`, roomID, dateArg(&first)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check income: %w", err)
	}
	return n > 0, nil
}

func (s *IncomeStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM income WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income: %w", err)
	}
	return checkAffected(result, "income")
}

func scanIncome(row rowScanner) (*domain.Income, error) {
	in := &domain.Income{}
	var month, paidOn sql.NullString
	if err := row.Scan(&in.ID, &in.PropertyID, &in.RoomID, &in.Amount, &month, &in.Paid, &paidOn, &in.Notes,
		&in.CreatedAt, &in.RoomName, &in.TenantName); err != nil {
		return nil, err
	}
	m, err := parseDate(month)
	if err != nil {
		return nil, err
	}
	if m != nil {
		in.Month = *m
	}
	if in.PaymentDate, err = parseDate(paidOn); err != nil {
		return nil, err
	}
	return in, nil
}
