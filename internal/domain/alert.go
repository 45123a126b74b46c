package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type AlertKind string

const (
	AlertContractExpiring AlertKind = "contract_expiring"
	AlertContractExpired  AlertKind = "contract_expired"
	AlertUnpaidRent       AlertKind = "unpaid_rent"
)

// Severity is totally ordered: SeverityInfo < SeverityWarning < SeverityCritical.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "critical":
		*s = SeverityCritical
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity %q", b)
	}
	return nil
}

// LocalAlert is derived on every refresh and never persisted. ID is built
// from the kind and the source record so it is stable within one render.
type LocalAlert struct {
	ID              string     `json:"id"`
	Kind            AlertKind  `json:"kind"`
	Severity        Severity   `json:"severity"`
	Title           string     `json:"title"`
	Message         string     `json:"message"`
	PropertyName    string     `json:"property_name"`
	ActionLabel     string     `json:"action_label,omitempty"`
	TenantID        *uuid.UUID `json:"tenant_id,omitempty"`
	PropertyID      *uuid.UUID `json:"property_id,omitempty"`
	IncomeID        *uuid.UUID `json:"income_id,omitempty"`
	DaysUntilExpiry *int       `json:"days_until_expiry,omitempty"`
}
