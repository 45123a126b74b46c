package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

const tenantSelect = `
	SELECT t.id, t.property_id, t.full_name, t.email, t.phone, t.dni,
		t.contract_start, t.contract_months, t.contract_end, t.deposit, t.monthly_rent,
		t.current_address, t.notes, t.contract_notes, t.active, t.created_at, t.updated_at,
		r.id, r.name, r.monthly_rent, r.size_sqm, r.room_type
	FROM tenants t
	LEFT JOIN rooms r ON r.tenant_id = t.id`

type TenantStore struct {
	db *sql.DB
}

func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenants (id, property_id, full_name, email, phone, dni, contract_start, contract_months,
			contract_end, deposit, monthly_rent, current_address, notes, contract_notes, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.PropertyID, t.FullName, t.Email, t.Phone, t.DNI, dateArg(t.ContractStart), t.ContractMonths,
		dateArg(t.ContractEnd), t.Deposit, t.MonthlyRent, t.CurrentAddress, t.Notes, t.ContractNotes, t.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return s.GetByID(ctx, t.ID)
}

// GetByID returns the tenant with its assigned room, if any.
func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, err := scanTenant(s.db.QueryRowContext(ctx, tenantSelect+` WHERE t.id = ? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return t, nil
}

// ListByProperty returns the property's tenants, active and inactive, ordered
// by name.
func (s *TenantStore) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, tenantSelect+` WHERE t.property_id = ? ORDER BY t.full_name ASC`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer closeRows(rows)

	var tenants []*domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenants: %w", err)
	}

	return tenants, nil
}

func (s *TenantStore) Update(ctx context.Context, t *domain.Tenant) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tenants SET full_name = ?, email = ?, phone = ?, dni = ?, contract_start = ?, contract_months = ?,
			contract_end = ?, deposit = ?, monthly_rent = ?, current_address = ?, notes = ?, contract_notes = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.FullName, t.Email, t.Phone, t.DNI, dateArg(t.ContractStart), t.ContractMonths, dateArg(t.ContractEnd),
		t.Deposit, t.MonthlyRent, t.CurrentAddress, t.Notes, t.ContractNotes, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return checkAffected(result, "tenant")
}

// Deactivate marks the tenant inactive and frees any room they occupied.
func (s *TenantStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE tenants SET active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate tenant: %w", err)
	}
	if err := checkAffected(result, "tenant"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE rooms SET tenant_id = NULL, occupied = 0, updated_at = CURRENT_TIMESTAMP WHERE tenant_id = ?
	`, id); err != nil {
		return fmt.Errorf("failed to release tenant room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tenant deactivation: %w", err)
	}
	return nil
}

// RenewContract replaces the contract period and reactivates the tenant.
func (s *TenantStore) RenewContract(ctx context.Context, id uuid.UUID, start, end time.Time, months int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE tenants SET contract_start = ?, contract_end = ?, contract_months = ?, active = 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, start.Format(dateLayout), end.Format(dateLayout), months, id)
	if err != nil {
		return fmt.Errorf("failed to renew contract: %w", err)
	}
	return checkAffected(result, "tenant")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	var (
		start, end sql.NullString
		months     sql.NullInt64
		roomID     uuid.NullUUID
		roomName   sql.NullString
		roomRent   decimal.NullDecimal
		roomSize   decimal.NullDecimal
		roomType   sql.NullString
	)
	if err := row.Scan(&t.ID, &t.PropertyID, &t.FullName, &t.Email, &t.Phone, &t.DNI,
		&start, &months, &end, &t.Deposit, &t.MonthlyRent,
		&t.CurrentAddress, &t.Notes, &t.ContractNotes, &t.Active, &t.CreatedAt, &t.UpdatedAt,
		&roomID, &roomName, &roomRent, &roomSize, &roomType); err != nil {
		return nil, err
	}

	var err error
	if t.ContractStart, err = parseDate(start); err != nil {
		return nil, err
	}
	if t.ContractEnd, err = parseDate(end); err != nil {
		return nil, err
	}
	if months.Valid {
		m := int(months.Int64)
		t.ContractMonths = &m
	}
	if roomID.Valid {
		t.Room = &domain.TenantRoom{
			ID:          roomID.UUID,
			Name:        roomName.String,
			MonthlyRent: roomRent.Decimal,
			SizeSqm:     roomSize,
			Type:        domain.RoomType(roomType.String),
		}
	}
	return t, nil
}
