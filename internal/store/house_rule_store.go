package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type HouseRuleStore struct {
	db *sql.DB
}

func NewHouseRuleStore(db *sql.DB) *HouseRuleStore {
	return &HouseRuleStore{db: db}
}

func (s *HouseRuleStore) Create(ctx context.Context, propertyID uuid.UUID, category domain.HouseRuleCategory, title, description string) (*domain.HouseRule, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO house_rules (id, property_id, category, title, description) VALUES (?, ?, ?, ?, ?)
	`, id, propertyID, category, title, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create house rule: %w", err)
	}

	rule := &domain.HouseRule{}
	err = s.db.QueryRowContext(ctx, `
		SELECT id, property_id, category, title, description, created_at FROM house_rules WHERE id = ?
	`, id).Scan(&rule.ID, &rule.PropertyID, &rule.Category, &rule.Title, &rule.Description, &rule.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get house rule: %w", err)
	}
	return rule, nil
}

// ListByProperty returns rules in the order they were added.
func (s *HouseRuleStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.HouseRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, property_id, category, title, description, created_at FROM house_rules
		WHERE property_id = ? ORDER BY created_at ASC, rowid ASC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list house rules: %w", err)
	}
	defer closeRows(rows)

	var rules []*domain.HouseRule
	for rows.Next() {
		rule := &domain.HouseRule{}
		if err := rows.Scan(&rule.ID, &rule.PropertyID, &rule.Category, &rule.Title, &rule.Description, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan house rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating house rules: %w", err)
	}

	return rules, nil
}

func (s *HouseRuleStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM house_rules WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete house rule: %w", err)
	}
	return checkAffected(result, "house rule")
}
