package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type RoomPhotoStore struct {
	db *sql.DB
}

func NewRoomPhotoStore(db *sql.DB) *RoomPhotoStore {
	return &RoomPhotoStore{db: db}
}

// Create appends a photo after the room's existing ones.
func (s *RoomPhotoStore) Create(ctx context.Context, roomID uuid.UUID, storageKey, mimeType string) (*domain.RoomPhoto, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO room_photos (id, room_id, storage_key, mime_type, position)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(position) + 1, 0) FROM room_photos WHERE room_id = ?))
	`, id, roomID, storageKey, mimeType, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to create room photo: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *RoomPhotoStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.RoomPhoto, error) {
	photo := &domain.RoomPhoto{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, storage_key, mime_type, position, uploaded_at FROM room_photos WHERE id = ?
	`, id).Scan(&photo.ID, &photo.RoomID, &photo.StorageKey, &photo.MimeType, &photo.Position, &photo.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room photo: %w", err)
	}

	return photo, nil
}

func (s *RoomPhotoStore) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomPhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, room_id, storage_key, mime_type, position, uploaded_at FROM room_photos
		WHERE room_id = ? ORDER BY position ASC, uploaded_at ASC
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list room photos: %w", err)
	}
	defer closeRows(rows)

	var photos []*domain.RoomPhoto
	for rows.Next() {
		photo := &domain.RoomPhoto{}
		if err := rows.Scan(&photo.ID, &photo.RoomID, &photo.StorageKey, &photo.MimeType, &photo.Position, &photo.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room photos: %w", err)
	}

	return photos, nil
}

func (s *RoomPhotoStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM room_photos WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room photo: %w", err)
	}
	return checkAffected(result, "room photo")
}
