package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

const reminderSelect = `
	SELECT id, property_id, title, description, reminder_type, due_date, due_time, completed, completed_at,
		created_at, updated_at
	FROM household_reminders`

type HouseholdReminderStore struct {
	db *sql.DB
}

func NewHouseholdReminderStore(db *sql.DB) *HouseholdReminderStore {
	return &HouseholdReminderStore{db: db}
}

func (s *HouseholdReminderStore) Create(ctx context.Context, r *domain.HouseholdReminder) (*domain.HouseholdReminder, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Type == "" {
		r.Type = domain.ReminderOther
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO household_reminders (id, property_id, title, description, reminder_type, due_date, due_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.PropertyID, r.Title, r.Description, r.Type, dateArg(&r.DueDate), r.DueTime)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return s.GetByID(ctx, r.ID)
}

func (s *HouseholdReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.HouseholdReminder, error) {
	r, err := scanReminder(s.db.QueryRowContext(ctx, reminderSelect+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return r, nil
}

// ListByProperty returns the property's reminders by due date. pendingOnly
// leaves out completed ones.
func (s *HouseholdReminderStore) ListByProperty(ctx context.Context, propertyID uuid.UUID, pendingOnly bool) ([]*domain.HouseholdReminder, error) {
	rows, err := s.db.QueryContext(ctx, reminderSelect+`
		WHERE property_id = ? AND (? = 0 OR completed = 0)
		ORDER BY due_date ASC, due_time ASC, rowid ASC
	`, propertyID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer closeRows(rows)

	var reminders []*domain.HouseholdReminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}

	return reminders, nil
}

// SetCompleted stamps completed_at with at when completing and clears it
// when reopening.
func (s *HouseholdReminderStore) SetCompleted(ctx context.Context, id uuid.UUID, completed bool, at time.Time) error {
	var completedAt any
	if completed {
		completedAt = at.UTC().Format(time.RFC3339)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE household_reminders SET completed = ?, completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, completed, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return checkAffected(result, "reminder")
}

func (s *HouseholdReminderStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM household_reminders WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return checkAffected(result, "reminder")
}

func scanReminder(row rowScanner) (*domain.HouseholdReminder, error) {
	r := &domain.HouseholdReminder{}
	var due sql.NullString
	var completedAt sql.NullString
	if err := row.Scan(&r.ID, &r.PropertyID, &r.Title, &r.Description, &r.Type, &due, &r.DueTime, &r.Completed,
		&completedAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	dueDate, err := parseDate(due)
	if err != nil {
		return nil, err
	}
	if dueDate != nil {
		r.DueDate = *dueDate
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("invalid completed_at %q: %w", completedAt.String, err)
		}
		r.CompletedAt = &t
	}
	return r, nil
}
