package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type PropertyStore struct {
	db *sql.DB
}

func NewPropertyStore(db *sql.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, name, address, description string) (*domain.Property, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO properties (id, name, address, description) VALUES (?, ?, ?, ?)
	`, id, name, address, description)
	if err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the property with its rooms.
func (s *PropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p := &domain.Property{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, address, description, created_at, updated_at FROM properties WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Address, &p.Description, &p.CreatedAt, &p.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	p.Rooms, err = listRooms(ctx, s.db, "r.property_id = ?", id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every property with its rooms, ordered by name.
func (s *PropertyStore) List(ctx context.Context) ([]*domain.Property, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, description, created_at, updated_at FROM properties ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer closeRows(rows)

	var props []*domain.Property
	byID := make(map[uuid.UUID]*domain.Property)
	for rows.Next() {
		p := &domain.Property{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		props = append(props, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}

	rooms, err := listRooms(ctx, s.db, "")
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if p := byID[room.PropertyID]; p != nil {
			p.Rooms = append(p.Rooms, room)
		}
	}

	return props, nil
}

func (s *PropertyStore) Update(ctx context.Context, id uuid.UUID, name, address, description string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE properties SET name = ?, address = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, name, address, description, id)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	return checkAffected(result, "property")
}

func (s *PropertyStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM properties WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	return checkAffected(result, "property")
}
