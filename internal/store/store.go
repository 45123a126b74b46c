// Package store persists the rental domain in SQLite. Single-row getters
// return (nil, nil) when the row does not exist; mutations of a missing row
// return an error wrapping domain.ErrNotFound.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

// Calendar dates are stored as TEXT so range filters compare lexically.
const dateLayout = "2006-01-02"

func dateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, ns.String)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", ns.String, err)
	}
	return &t, nil
}

// FirstOfMonth normalises t to the first day of its month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}

func checkAffected(result sql.Result, what string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %w", what, domain.ErrNotFound)
	}
	return nil
}
