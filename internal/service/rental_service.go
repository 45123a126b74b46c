package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/document"
	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/photostore"
)

// propertyRepository is the subset of store.PropertyStore that RentalService requires.
type propertyRepository interface {
	Create(ctx context.Context, name, address, description string) (*domain.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	List(ctx context.Context) ([]*domain.Property, error)
}

// roomRepository is the subset of store.RoomStore that RentalService requires.
type roomRepository interface {
	Create(ctx context.Context, room *domain.Room) (*domain.Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Room, error)
	AssignTenant(ctx context.Context, roomID, tenantID uuid.UUID) error
	UnassignTenant(ctx context.Context, roomID uuid.UUID) error
}

// roomPhotoRepository is the subset of store.RoomPhotoStore that RentalService requires.
type roomPhotoRepository interface {
	Create(ctx context.Context, roomID uuid.UUID, storageKey, mimeType string) (*domain.RoomPhoto, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomPhoto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// tenantRepository is the subset of store.TenantStore that RentalService requires.
type tenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) (*domain.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.Tenant, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	RenewContract(ctx context.Context, id uuid.UUID, start, end time.Time, months int) error
}

// incomeRepository is the subset of store.IncomeStore that RentalService requires.
type incomeRepository interface {
	Create(ctx context.Context, in *domain.Income) (*domain.Income, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Income, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Income, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidOn time.Time) error
	MarkUnpaid(ctx context.Context, id uuid.UUID) error
	ExistsForRoomMonth(ctx context.Context, roomID uuid.UUID, month time.Time) (bool, error)
}

// expenseRepository is the subset of store.ExpenseStore that RentalService requires.
type expenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) (*domain.Expense, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Expense, error)
}

// houseRuleRepository is the subset of store.HouseRuleStore that RentalService requires.
type houseRuleRepository interface {
	Create(ctx context.Context, propertyID uuid.UUID, category domain.HouseRuleCategory, title, description string) (*domain.HouseRule, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*domain.HouseRule, error)
}

// householdReminderRepository is the subset of store.HouseholdReminderStore that RentalService requires.
type householdReminderRepository interface {
	Create(ctx context.Context, r *domain.HouseholdReminder) (*domain.HouseholdReminder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HouseholdReminder, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID, pendingOnly bool) ([]*domain.HouseholdReminder, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type imageFetcher interface {
	Fetch(ctx context.Context, refs []string) []image.Image
}

type alertRefresher interface {
	Refresh(ctx context.Context) ([]domain.LocalAlert, error)
}

// Repositories groups the stores RentalService reads and writes.
type Repositories struct {
	Properties propertyRepository
	Rooms      roomRepository
	RoomPhotos roomPhotoRepository
	Tenants    tenantRepository
	Income     incomeRepository
	Expenses   expenseRepository
	HouseRules houseRuleRepository
	Reminders  householdReminderRepository
}

type RentalService struct {
	repos     Repositories
	photoStg  photostore.PhotoStore
	images    imageFetcher
	documents *document.Generator
	alerts    alertRefresher
	now       func() time.Time
	logger    *slog.Logger
}

type Option func(*RentalService)

func WithClock(now func() time.Time) Option {
	return func(s *RentalService) { s.now = now }
}

func NewRentalService(
	repos Repositories,
	photoStg photostore.PhotoStore,
	images imageFetcher,
	documents *document.Generator,
	alerts alertRefresher,
	logger *slog.Logger,
	opts ...Option,
) *RentalService {
	s := &RentalService{
		repos:     repos,
		photoStg:  photoStg,
		images:    images,
		documents: documents,
		alerts:    alerts,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalid, fmt.Sprintf(format, args...))
}

func (s *RentalService) CreateProperty(ctx context.Context, name, address, description string) (*domain.Property, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("property name is required")
	}
	return s.repos.Properties.Create(ctx, name, strings.TrimSpace(address), description)
}

func (s *RentalService) ListProperties(ctx context.Context) ([]*domain.Property, error) {
	return s.repos.Properties.List(ctx)
}

// GetProperty returns the property with its rooms or domain.ErrNotFound.
func (s *RentalService) GetProperty(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	p, err := s.repos.Properties.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("property %w", domain.ErrNotFound)
	}
	return p, nil
}

func (s *RentalService) CreateRoom(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	if _, err := s.GetProperty(ctx, room.PropertyID); err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return nil, invalid("room name is required")
	}
	if room.Type == "" {
		room.Type = domain.RoomTypePrivate
	}
	if !room.Type.Valid() {
		return nil, invalid("unknown room type %q", room.Type)
	}
	if room.MonthlyRent.IsNegative() || (room.SizeSqm.Valid && room.SizeSqm.Decimal.IsNegative()) {
		return nil, domain.ErrNegativeAmount
	}
	return s.repos.Rooms.Create(ctx, room)
}

func (s *RentalService) getRoom(ctx context.Context, id uuid.UUID) (*domain.Room, error) {
	room, err := s.repos.Rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, fmt.Errorf("room %w", domain.ErrNotFound)
	}
	return room, nil
}

func (s *RentalService) getTenant(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, err := s.repos.Tenants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tenant %w", domain.ErrNotFound)
	}
	return t, nil
}

// CreateTenant stores a new active tenant. When roomID is set the tenant is
// moved into that room. A missing contract end is derived from the start and
// the duration in months.
func (s *RentalService) CreateTenant(ctx context.Context, t *domain.Tenant, roomID *uuid.UUID) (*domain.Tenant, error) {
	if _, err := s.GetProperty(ctx, t.PropertyID); err != nil {
		return nil, err
	}
	t.FullName = strings.TrimSpace(t.FullName)
	if t.FullName == "" {
		return nil, invalid("tenant name is required")
	}
	if t.ContractMonths != nil && *t.ContractMonths <= 0 {
		return nil, invalid("contract months must be positive")
	}
	if t.ContractEnd == nil && t.ContractStart != nil && t.ContractMonths != nil {
		end := contractEnd(*t.ContractStart, *t.ContractMonths)
		t.ContractEnd = &end
	}
	if err := t.ValidateContractDates(); err != nil {
		return nil, err
	}
	if (t.Deposit.Valid && t.Deposit.Decimal.IsNegative()) || (t.MonthlyRent.Valid && t.MonthlyRent.Decimal.IsNegative()) {
		return nil, domain.ErrNegativeAmount
	}
	t.Active = true

	created, err := s.repos.Tenants.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	if roomID == nil {
		return created, nil
	}
	return s.AssignTenant(ctx, created.ID, *roomID)
}

// AssignTenant moves the tenant into a room of the same property.
func (s *RentalService) AssignTenant(ctx context.Context, tenantID, roomID uuid.UUID) (*domain.Tenant, error) {
	t, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.PropertyID != t.PropertyID {
		return nil, invalid("room belongs to another property")
	}
	if room.Type != domain.RoomTypePrivate {
		return nil, invalid("tenants can only be assigned to private rooms")
	}
	if err := s.repos.Rooms.AssignTenant(ctx, roomID, tenantID); err != nil {
		return nil, fmt.Errorf("failed to assign tenant: %w", err)
	}
	s.logger.Info("tenant assigned", "tenant_id", tenantID, "room_id", roomID)
	return s.getTenant(ctx, tenantID)
}

func (s *RentalService) UnassignTenant(ctx context.Context, roomID uuid.UUID) error {
	return s.repos.Rooms.UnassignTenant(ctx, roomID)
}

func (s *RentalService) ListTenants(ctx context.Context, propertyID uuid.UUID) ([]*domain.Tenant, error) {
	return s.repos.Tenants.ListByProperty(ctx, propertyID)
}

func (s *RentalService) DeactivateTenant(ctx context.Context, tenantID uuid.UUID) error {
	return s.repos.Tenants.Deactivate(ctx, tenantID)
}

// RenewContract extends the contract by months starting the day after the
// current end. The new end is the last day of the final month.
func (s *RentalService) RenewContract(ctx context.Context, tenantID uuid.UUID, months int) (*domain.Tenant, error) {
	if months <= 0 {
		return nil, invalid("contract months must be positive")
	}
	t, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if t.ContractEnd == nil {
		return nil, invalid("tenant has no contract end date to renew from")
	}

	start := t.ContractEnd.AddDate(0, 0, 1)
	end := contractEnd(start, months)
	if err := s.repos.Tenants.RenewContract(ctx, tenantID, start, end, months); err != nil {
		return nil, fmt.Errorf("failed to renew contract: %w", err)
	}
	s.logger.Info("contract renewed", "tenant_id", tenantID, "start", start.Format(time.DateOnly), "end", end.Format(time.DateOnly))
	return s.getTenant(ctx, tenantID)
}

// contractEnd is the last day of the month that lies months after start.
func contractEnd(start time.Time, months int) time.Time {
	return time.Date(start.Year(), start.Month()+time.Month(months)+1, 0, 0, 0, 0, 0, start.Location())
}

// AddHouseRule records a rule for the property. An empty category is "otro".
func (s *RentalService) AddHouseRule(ctx context.Context, propertyID uuid.UUID, category domain.HouseRuleCategory, title, description string) (*domain.HouseRule, error) {
	if _, err := s.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("rule title is required")
	}
	if category == "" {
		category = domain.RuleOther
	}
	if !category.Valid() {
		return nil, invalid("unknown rule category %q", category)
	}
	return s.repos.HouseRules.Create(ctx, propertyID, category, title, strings.TrimSpace(description))
}

func (s *RentalService) ListHouseRules(ctx context.Context, propertyID uuid.UUID) ([]*domain.HouseRule, error) {
	return s.repos.HouseRules.ListByProperty(ctx, propertyID)
}

// AddReminder schedules a household reminder. An empty type is "otro".
func (s *RentalService) AddReminder(ctx context.Context, r *domain.HouseholdReminder) (*domain.HouseholdReminder, error) {
	if _, err := s.GetProperty(ctx, r.PropertyID); err != nil {
		return nil, err
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return nil, invalid("reminder title is required")
	}
	if r.Type == "" {
		r.Type = domain.ReminderOther
	}
	if !r.Type.Valid() {
		return nil, invalid("unknown reminder type %q", r.Type)
	}
	if r.DueDate.IsZero() {
		return nil, invalid("reminder due date is required")
	}
	r.DueTime = strings.TrimSpace(r.DueTime)
	if r.DueTime != "" {
		if _, err := time.Parse("15:04", r.DueTime); err != nil {
			return nil, invalid("reminder time %q must be HH:MM", r.DueTime)
		}
	}
	r.Description = strings.TrimSpace(r.Description)
	return s.repos.Reminders.Create(ctx, r)
}

func (s *RentalService) ListReminders(ctx context.Context, propertyID uuid.UUID, pendingOnly bool) ([]*domain.HouseholdReminder, error) {
	return s.repos.Reminders.ListByProperty(ctx, propertyID, pendingOnly)
}

// SetReminderCompleted marks the reminder done, or pending again.
func (s *RentalService) SetReminderCompleted(ctx context.Context, id uuid.UUID, completed bool) (*domain.HouseholdReminder, error) {
	if err := s.repos.Reminders.SetCompleted(ctx, id, completed, s.now()); err != nil {
		return nil, err
	}
	r, err := s.repos.Reminders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("reminder %w", domain.ErrNotFound)
	}
	return r, nil
}

func (s *RentalService) DeleteReminder(ctx context.Context, id uuid.UUID) error {
	return s.repos.Reminders.Delete(ctx, id)
}

// UploadRoomPhoto stores the image and appends it to the room's photos.
func (s *RentalService) UploadRoomPhoto(ctx context.Context, roomID uuid.UUID, data []byte, mimeType string) (*domain.RoomPhoto, error) {
	if _, ok := photostore.MimeTypeExt(mimeType); !ok {
		return nil, invalid("unsupported photo type %q", mimeType)
	}
	if _, err := s.getRoom(ctx, roomID); err != nil {
		return nil, err
	}

	storageKey, err := s.photoStg.Save(ctx, roomID.String(), mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}
	s.logger.Debug("photo saved", "room_id", roomID, "storage_key", storageKey, "bytes", len(data))

	photo, err := s.repos.RoomPhotos.Create(ctx, roomID, storageKey, mimeType)
	if err != nil {
		if derr := s.photoStg.Delete(ctx, storageKey); derr != nil {
			s.logger.Error("failed to roll back photo file", "storage_key", storageKey, "error", derr)
		}
		return nil, fmt.Errorf("failed to create photo record: %w", err)
	}
	return photo, nil
}

// GetRoomPhoto opens the room's photo at index. The caller closes the reader.
func (s *RentalService) GetRoomPhoto(ctx context.Context, roomID uuid.UUID, index int) (io.ReadCloser, string, error) {
	photos, err := s.repos.RoomPhotos.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list photos: %w", err)
	}
	if index < 0 || index >= len(photos) {
		return nil, "", fmt.Errorf("photo %w", domain.ErrNotFound)
	}
	rc, mimeType, err := s.photoStg.Get(ctx, photos[index].StorageKey)
	if errors.Is(err, photostore.ErrNotFound) {
		s.logger.Warn("photo record without file", "storage_key", photos[index].StorageKey)
		return nil, "", fmt.Errorf("photo file %w", domain.ErrNotFound)
	}
	return rc, mimeType, err
}

// DeleteRoomPhoto removes the room's photo at index from the store and disk.
func (s *RentalService) DeleteRoomPhoto(ctx context.Context, roomID uuid.UUID, index int) error {
	photos, err := s.repos.RoomPhotos.ListByRoom(ctx, roomID)
	if err != nil {
		return fmt.Errorf("failed to list photos: %w", err)
	}
	if index < 0 || index >= len(photos) {
		return fmt.Errorf("photo %w", domain.ErrNotFound)
	}
	photo := photos[index]
	if err := s.repos.RoomPhotos.Delete(ctx, photo.ID); err != nil {
		return fmt.Errorf("failed to delete photo record: %w", err)
	}
	if err := s.photoStg.Delete(ctx, photo.StorageKey); err != nil {
		s.logger.Error("failed to delete photo file", "storage_key", photo.StorageKey, "error", err)
	}
	return nil
}

// Alerts recomputes the landlord's alerts, superseding any refresh in flight.
func (s *RentalService) Alerts(ctx context.Context) ([]domain.LocalAlert, error) {
	return s.alerts.Refresh(ctx)
}
