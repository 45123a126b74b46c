package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rentalmngr/internal/db"
	"github.com/vbonduro/rentalmngr/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func seedProperty(t *testing.T, d *sql.DB) *domain.Property {
	p, err := NewPropertyStore(d).Create(context.Background(), "Piso Centro", "Calle Mayor 1", "")
	require.NoError(t, err)
	return p
}

func seedRoom(t *testing.T, d *sql.DB, propertyID uuid.UUID, name string, rent int64) *domain.Room {
	room, err := NewRoomStore(d).Create(context.Background(), &domain.Room{
		PropertyID:  propertyID,
		Name:        name,
		Type:        domain.RoomTypePrivate,
		MonthlyRent: decimal.NewFromInt(rent),
	})
	require.NoError(t, err)
	return room
}
