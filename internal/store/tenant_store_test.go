package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

func TestTenantStoreRoundTrip(t *testing.T) {
	d := openTestDB(t)
	store := NewTenantStore(d)
	ctx := context.Background()
	p := seedProperty(t, d)

	start, end := date(2026, time.January, 1), date(2026, time.December, 31)
	months := 12
	created, err := store.Create(ctx, &domain.Tenant{
		PropertyID:     p.ID,
		FullName:       "Lucía Gómez",
		Email:          "lucia@example.com",
		Phone:          "600111222",
		DNI:            "12345678Z",
		ContractStart:  &start,
		ContractMonths: &months,
		ContractEnd:    &end,
		Deposit:        decimal.NewNullDecimal(decimal.NewFromInt(500)),
		CurrentAddress: "Calle Sol 3",
		ContractNotes:  "Incluye plaza de garaje",
		Active:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Lucía Gómez", created.FullName)
	require.NotNil(t, created.ContractStart)
	assert.Equal(t, start, *created.ContractStart)
	assert.Equal(t, end, *created.ContractEnd)
	require.NotNil(t, created.ContractMonths)
	assert.Equal(t, 12, *created.ContractMonths)
	assert.True(t, created.Deposit.Valid)
	assert.False(t, created.MonthlyRent.Valid)
	assert.Equal(t, "Incluye plaza de garaje", created.ContractNotes)
	assert.True(t, created.Active)
	assert.Nil(t, created.Room)
}

func TestTenantStoreGetByIDNotFound(t *testing.T) {
	d := openTestDB(t)
	got, err := NewTenantStore(d).GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenantStoreListEmbedsRoom(t *testing.T) {
	d := openTestDB(t)
	store := NewTenantStore(d)
	ctx := context.Background()
	p := seedProperty(t, d)
	room := seedRoom(t, d, p.ID, "Hab 1", 450)

	bea, err := store.Create(ctx, &domain.Tenant{PropertyID: p.ID, FullName: "Bea", Active: true})
	require.NoError(t, err)
	_, err = store.Create(ctx, &domain.Tenant{PropertyID: p.ID, FullName: "Ana", Active: true})
	require.NoError(t, err)
	require.NoError(t, NewRoomStore(d).AssignTenant(ctx, room.ID, bea.ID))

	tenants, err := store.ListByProperty(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	assert.Equal(t, "Ana", tenants[0].FullName)
	assert.Nil(t, tenants[0].Room)

	require.NotNil(t, tenants[1].Room)
	assert.Equal(t, room.ID, tenants[1].Room.ID)
	assert.Equal(t, "Hab 1", tenants[1].Room.Name)
	assert.Equal(t, domain.RoomTypePrivate, tenants[1].Room.Type)
	assert.True(t, decimal.NewFromInt(450).Equal(tenants[1].Room.MonthlyRent))
}

func TestTenantStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	store := NewTenantStore(d)
	ctx := context.Background()
	p := seedProperty(t, d)
	tenant, err := store.Create(ctx, &domain.Tenant{PropertyID: p.ID, FullName: "Ana", Active: true})
	require.NoError(t, err)

	tenant.Phone = "699000111"
	tenant.MonthlyRent = decimal.NewNullDecimal(decimal.NewFromInt(390))
	require.NoError(t, store.Update(ctx, tenant))

	got, err := store.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "699000111", got.Phone)
	assert.Equal(t, "390", got.MonthlyRent.Decimal.String())

	assert.ErrorIs(t, store.Update(ctx, &domain.Tenant{ID: uuid.New()}), domain.ErrNotFound)
}

func TestTenantStoreDeactivateFreesRoom(t *testing.T) {
	d := openTestDB(t)
	store := NewTenantStore(d)
	ctx := context.Background()
	p := seedProperty(t, d)
	room := seedRoom(t, d, p.ID, "Hab 1", 450)
	tenant, err := store.Create(ctx, &domain.Tenant{PropertyID: p.ID, FullName: "Ana", Active: true})
	require.NoError(t, err)
	require.NoError(t, NewRoomStore(d).AssignTenant(ctx, room.ID, tenant.ID))

	require.NoError(t, store.Deactivate(ctx, tenant.ID))

	got, err := store.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Nil(t, got.Room)

	freed, err := NewRoomStore(d).GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.False(t, freed.Occupied)
	assert.ErrorIs(t, store.Deactivate(ctx, uuid.New()), domain.ErrNotFound)
}

func TestTenantStoreRenewContract(t *testing.T) {
	d := openTestDB(t)
	store := NewTenantStore(d)
	ctx := context.Background()
	p := seedProperty(t, d)
	tenant, err := store.Create(ctx, &domain.Tenant{PropertyID: p.ID, FullName: "Ana"})
	require.NoError(t, err)

	start, end := date(2027, time.January, 1), date(2027, time.June, 30)
	require.NoError(t, store.RenewContract(ctx, tenant.ID, start, end, 6))

	got, err := store.GetByID(ctx, tenant.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, start, *got.ContractStart)
	assert.Equal(t, end, *got.ContractEnd)
	assert.Equal(t, 6, *got.ContractMonths)
}
