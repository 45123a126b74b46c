package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

const roomColumns = `r.id, r.property_id, r.tenant_id, r.name, r.room_type, r.monthly_rent, r.size_sqm, r.occupied, r.notes, r.created_at, r.updated_at`

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.Type == "" {
		room.Type = domain.RoomTypePrivate
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, property_id, tenant_id, name, room_type, monthly_rent, size_sqm, occupied, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, room.ID, room.PropertyID, room.TenantID, room.Name, room.Type, room.MonthlyRent, room.SizeSqm, room.Occupied, room.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return s.GetByID(ctx, room.ID)
}

func (s *RoomStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	rooms, err := listRooms(ctx, s.db, "r.id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if len(rooms) == 0 {
		return nil, nil
	}
	return rooms[0], nil
}

func (s *RoomStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Room, error) {
	return listRooms(ctx, s.db, "r.property_id = ?", propertyID)
}

func (s *RoomStore) Update(ctx context.Context, room *domain.Room) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET name = ?, room_type = ?, monthly_rent = ?, size_sqm = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, room.Name, room.Type, room.MonthlyRent, room.SizeSqm, room.Notes, room.ID)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return checkAffected(result, "room")
}

func (s *RoomStore) SetOccupancy(ctx context.Context, id uuid.UUID, occupied bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET occupied = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, occupied, id)
	if err != nil {
		return fmt.Errorf("failed to set room occupancy: %w", err)
	}
	return checkAffected(result, "room")
}

// AssignTenant moves the tenant into the room and marks it occupied. Any
// other room the tenant held is released.
func (s *RoomStore) AssignTenant(ctx context.Context, roomID, tenantID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE rooms SET tenant_id = NULL, occupied = 0, updated_at = CURRENT_TIMESTAMP
		WHERE tenant_id = ? AND id != ?
	`, tenantID, roomID); err != nil {
		return fmt.Errorf("failed to release previous room: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE rooms SET tenant_id = ?, occupied = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, tenantID, roomID)
	if err != nil {
		return fmt.Errorf("failed to assign tenant: %w", err)
	}
	if err := checkAffected(result, "room"); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tenant assignment: %w", err)
	}
	return nil
}

func (s *RoomStore) UnassignTenant(ctx context.Context, roomID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET tenant_id = NULL, occupied = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, roomID)
	if err != nil {
		return fmt.Errorf("failed to unassign tenant: %w", err)
	}
	return checkAffected(result, "room")
}

func (s *RoomStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM rooms WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return checkAffected(result, "room")
}

// listRooms loads the rooms matching where, ordered by name, with their photo
// storage keys attached. where is a fixed clause over the alias r.
func listRooms(ctx context.Context, db *sql.DB, where string, args ...any) ([]*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms r`
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY r.name ASC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer closeRows(rows)

	var rooms []*domain.Room
	byID := make(map[uuid.UUID]*domain.Room)
	for rows.Next() {
		room := &domain.Room{}
		var tenantID uuid.NullUUID
		if err := rows.Scan(&room.ID, &room.PropertyID, &tenantID, &room.Name, &room.Type, &room.MonthlyRent,
			&room.SizeSqm, &room.Occupied, &room.Notes, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		if tenantID.Valid {
			room.TenantID = &tenantID.UUID
		}
		rooms = append(rooms, room)
		byID[room.ID] = room
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	if len(rooms) == 0 {
		return rooms, nil
	}

	photoQuery := `SELECT rp.room_id, rp.storage_key FROM room_photos rp JOIN rooms r ON r.id = rp.room_id`
	if where != "" {
		photoQuery += ` WHERE ` + where
	}
	photoQuery += ` ORDER BY rp.position ASC, rp.uploaded_at ASC`

	photoRows, err := db.QueryContext(ctx, photoQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list room photos: %w", err)
	}
	defer closeRows(photoRows)

	for photoRows.Next() {
		var roomID uuid.UUID
		var key string
		if err := photoRows.Scan(&roomID, &key); err != nil {
			return nil, fmt.Errorf("failed to scan room photo: %w", err)
		}
		if room := byID[roomID]; room != nil {
			room.Photos = append(room.Photos, key)
		}
	}
	if err := photoRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room photos: %w", err)
	}

	return rooms, nil
}
