package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalid              = errors.New("invalid input")
	ErrInvalidContractDates = errors.New("contract end date is before start date")
	ErrNegativeAmount       = errors.New("amount must not be negative")
)

type RoomType string

const (
	RoomTypePrivate RoomType = "private"
	RoomTypeCommon  RoomType = "common"
)

// Valid reports whether t is one of the known room types.
func (t RoomType) Valid() bool {
	return t == RoomTypePrivate || t == RoomTypeCommon
}

type Property struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Rooms       []*Room   `json:"rooms,omitempty"`
}

func (p *Property) PrivateRooms() []*Room { return p.roomsOfType(RoomTypePrivate) }

func (p *Property) CommonRooms() []*Room { return p.roomsOfType(RoomTypeCommon) }

func (p *Property) roomsOfType(t RoomType) []*Room {
	var out []*Room
	for _, r := range p.Rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// OccupancyRate is the percentage of private rooms currently occupied.
func (p *Property) OccupancyRate() float64 {
	private := p.PrivateRooms()
	if len(private) == 0 {
		return 0
	}
	occupied := 0
	for _, r := range private {
		if r.Occupied {
			occupied++
		}
	}
	return float64(occupied) / float64(len(private)) * 100
}

// MonthlyRevenue sums the rent of occupied private rooms.
func (p *Property) MonthlyRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p.PrivateRooms() {
		if r.Occupied {
			total = total.Add(r.MonthlyRent)
		}
	}
	return total
}

type Room struct {
	ID          uuid.UUID           `json:"id"`
	PropertyID  uuid.UUID           `json:"property_id"`
	TenantID    *uuid.UUID          `json:"tenant_id,omitempty"`
	Name        string              `json:"name"`
	Type        RoomType            `json:"type"`
	MonthlyRent decimal.Decimal     `json:"monthly_rent"`
	SizeSqm     decimal.NullDecimal `json:"size_sqm"`
	Occupied    bool                `json:"occupied"`
	Notes       string              `json:"notes"`
	Photos      []string            `json:"photos,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type RoomPhoto struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"room_id"`
	StorageKey string    `json:"storage_key"`
	MimeType   string    `json:"mime_type"`
	Position   int       `json:"position"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// TenantRoom is the subset of a room embedded in a tenant record.
type TenantRoom struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	MonthlyRent decimal.Decimal     `json:"monthly_rent"`
	SizeSqm     decimal.NullDecimal `json:"size_sqm"`
	Type        RoomType            `json:"type"`
}

type Tenant struct {
	ID             uuid.UUID           `json:"id"`
	PropertyID     uuid.UUID           `json:"property_id"`
	FullName       string              `json:"full_name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	DNI            string              `json:"dni"`
	ContractStart  *time.Time          `json:"contract_start,omitempty"`
	ContractMonths *int                `json:"contract_months,omitempty"`
	ContractEnd    *time.Time          `json:"contract_end,omitempty"`
	Deposit        decimal.NullDecimal `json:"deposit"`
	MonthlyRent    decimal.NullDecimal `json:"monthly_rent"`
	CurrentAddress string              `json:"current_address"`
	Notes          string              `json:"notes"`
	ContractNotes  string              `json:"contract_notes"`
	Active         bool                `json:"active"`
	Room           *TenantRoom         `json:"room,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ValidateContractDates enforces end >= start when both dates are present.
func (t *Tenant) ValidateContractDates() error {
	if t.ContractStart != nil && t.ContractEnd != nil && t.ContractEnd.Before(*t.ContractStart) {
		return ErrInvalidContractDates
	}
	return nil
}

// EffectiveMonthlyRent prefers the assigned room's rent over the tenant's own.
func (t *Tenant) EffectiveMonthlyRent() decimal.NullDecimal {
	if t.Room != nil {
		return decimal.NewNullDecimal(t.Room.MonthlyRent)
	}
	return t.MonthlyRent
}

type ContractStatus string

const (
	ContractActive       ContractStatus = "active"
	ContractExpiringSoon ContractStatus = "expiring_soon"
	ContractExpired      ContractStatus = "expired"
	ContractNone         ContractStatus = "no_contract"
)

// ContractStatus classifies the contract relative to now. A contract ending
// within 30 days is expiring soon.
func (t *Tenant) ContractStatus(now time.Time) ContractStatus {
	if t.ContractEnd == nil {
		return ContractNone
	}
	if t.ContractEnd.Before(now) {
		return ContractExpired
	}
	if t.ContractEnd.Sub(now) <= 30*24*time.Hour {
		return ContractExpiringSoon
	}
	return ContractActive
}

type Income struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	RoomID      uuid.UUID       `json:"room_id"`
	Amount      decimal.Decimal `json:"amount"`
	Month       time.Time       `json:"month"`
	Paid        bool            `json:"paid"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	Notes       string          `json:"notes"`
	RoomName    string          `json:"room_name"`
	TenantName  string          `json:"tenant_name"`
	CreatedAt   time.Time       `json:"created_at"`
}

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	PropertyID  uuid.UUID       `json:"property_id"`
	RoomID      *uuid.UUID      `json:"room_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

type HouseRuleCategory string

const (
	RuleCleaning  HouseRuleCategory = "limpieza"
	RuleNoise     HouseRuleCategory = "ruido"
	RuleVisits    HouseRuleCategory = "visitas"
	RuleKitchen   HouseRuleCategory = "cocina"
	RuleBathroom  HouseRuleCategory = "baño"
	RuleCommunity HouseRuleCategory = "comunidad"
	RuleOther     HouseRuleCategory = "otro"
)

func (c HouseRuleCategory) Valid() bool {
	switch c {
	case RuleCleaning, RuleNoise, RuleVisits, RuleKitchen, RuleBathroom, RuleCommunity, RuleOther:
		return true
	}
	return false
}

type HouseRule struct {
	ID          uuid.UUID         `json:"id"`
	PropertyID  uuid.UUID         `json:"property_id"`
	Category    HouseRuleCategory `json:"category"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
}

type ReminderType string

const (
	ReminderPayment  ReminderType = "pago"
	ReminderMeeting  ReminderType = "reunion"
	ReminderCleaning ReminderType = "limpieza"
	ReminderEvent    ReminderType = "evento"
	ReminderOther    ReminderType = "otro"
)

func (t ReminderType) Valid() bool {
	switch t {
	case ReminderPayment, ReminderMeeting, ReminderCleaning, ReminderEvent, ReminderOther:
		return true
	}
	return false
}

// HouseholdReminder is a to-do shared by the people living in a property,
// such as a cleaning turn or a community meeting. DueTime is free text
// ("20:30") and may be empty.
type HouseholdReminder struct {
	ID          uuid.UUID    `json:"id"`
	PropertyID  uuid.UUID    `json:"property_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ReminderType `json:"reminder_type"`
	DueDate     time.Time    `json:"due_date"`
	DueTime     string       `json:"due_time"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Text renders the rule as a single sentence for documents.
func (r *HouseRule) Text() string {
	if r.Description == "" {
		return r.Title
	}
	return r.Title + ": " + r.Description
}

type FinancialSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	PaidIncome    decimal.Decimal `json:"paid_income"`
	PendingIncome decimal.Decimal `json:"pending_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	PaidCount     int             `json:"paid_count"`
	UnpaidCount   int             `json:"unpaid_count"`
}

func (s FinancialSummary) NetProfit() decimal.Decimal {
	return s.TotalIncome.Sub(s.TotalExpenses)
}

// ProfitMargin is net profit as a percentage of total income.
func (s FinancialSummary) ProfitMargin() float64 {
	if !s.TotalIncome.IsPositive() {
		return 0
	}
	return s.NetProfit().Div(s.TotalIncome).Mul(decimal.NewFromInt(100)).InexactFloat64()
}
