// Package alert derives contract and rent alerts from property data.
package alert

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/money"
)

const (
	// ExpiryWindowDays is how far ahead contract expiry is reported.
	ExpiryWindowDays = 30
	criticalDays     = 7
	// RentDueDay is the last day of the month rent can be paid without a warning.
	RentDueDay = 5
)

// DaysBetween returns the number of calendar days from the civil date of from
// to the civil date of to. Each date is read in its own location, so a
// date-only value stored at UTC midnight keeps its day.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ContractAlerts reports active tenants whose contract has ended or ends
// within ExpiryWindowDays of now.
func ContractAlerts(now time.Time, property *domain.Property, tenants []*domain.Tenant) []domain.LocalAlert {
	var out []domain.LocalAlert
	for _, t := range tenants {
		if !t.Active || t.ContractEnd == nil {
			continue
		}
		days := DaysBetween(now, *t.ContractEnd)
		if days > ExpiryWindowDays {
			continue
		}

		a := domain.LocalAlert{
			PropertyName:    property.Name,
			ActionLabel:     "Renovar",
			TenantID:        ref(t.ID),
			PropertyID:      ref(property.ID),
			DaysUntilExpiry: &days,
		}
		switch {
		case days < 0:
			a.ID = "contract_expired_" + t.ID.String()
			a.Kind = domain.AlertContractExpired
			a.Severity = domain.SeverityCritical
			a.Title = "Contrato expirado"
			a.Message = fmt.Sprintf("%s — contrato venció hace %s", t.FullName, plural(-days, "día", "días"))
		default:
			a.ID = "contract_expiring_" + t.ID.String()
			a.Kind = domain.AlertContractExpiring
			a.Severity = domain.SeverityWarning
			if days <= criticalDays {
				a.Severity = domain.SeverityCritical
			}
			a.Title = "Contrato vence hoy"
			if days > 0 {
				a.Title = "Contrato vence en " + plural(days, "día", "días")
			}
			room := "sin habitación"
			if t.Room != nil && t.Room.Name != "" {
				room = t.Room.Name
			}
			a.Message = fmt.Sprintf("%s en %s", t.FullName, room)
		}
		out = append(out, a)
	}
	return out
}

// UnpaidAlerts reports unpaid income rows belonging to now's calendar month.
// After RentDueDay they are warnings, before that informational.
func UnpaidAlerts(now time.Time, property *domain.Property, income []*domain.Income) []domain.LocalAlert {
	severity := domain.SeverityInfo
	if now.Day() > RentDueDay {
		severity = domain.SeverityWarning
	}

	var out []domain.LocalAlert
	for _, in := range income {
		if in.Paid || !sameMonth(in.Month, now) {
			continue
		}
		room := in.RoomName
		if room == "" {
			room = "Habitación"
		}
		out = append(out, domain.LocalAlert{
			ID:           "unpaid_" + in.ID.String(),
			Kind:         domain.AlertUnpaidRent,
			Severity:     severity,
			Title:        "Pago pendiente — " + room,
			Message:      money.FormatEUR(in.Amount) + " sin cobrar este mes",
			PropertyName: property.Name,
			ActionLabel:  "Marcar pagado",
			PropertyID:   ref(property.ID),
			IncomeID:     ref(in.ID),
		})
	}
	return out
}

// SortBySeverity orders alerts critical first. Alerts of equal severity keep
// their relative order.
func SortBySeverity(alerts []domain.LocalAlert) {
	slices.SortStableFunc(alerts, func(a, b domain.LocalAlert) int {
		return cmp.Compare(b.Severity, a.Severity)
	})
}

// CountKind returns how many alerts are of kind k.
func CountKind(alerts []domain.LocalAlert, k domain.AlertKind) int {
	n := 0
	for _, a := range alerts {
		if a.Kind == k {
			n++
		}
	}
	return n
}

// sameMonth compares the stored month label with now's month. The label is a
// calendar value so it is not converted between locations.
func sameMonth(month, now time.Time) bool {
	return month.Year() == now.Year() && month.Month() == now.Month()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

func ref(id uuid.UUID) *uuid.UUID { return &id }
