package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/rentalmngr/internal/domain"
	"github.com/vbonduro/rentalmngr/internal/store"
)

// RecordIncome stores an unpaid income row for a room of the property.
func (s *RentalService) RecordIncome(ctx context.Context, propertyID, roomID uuid.UUID, amount decimal.Decimal, month time.Time) (*domain.Income, error) {
	if amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	room, err := s.getRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.PropertyID != propertyID {
		return nil, invalid("room belongs to another property")
	}
	return s.repos.Income.Create(ctx, &domain.Income{
		PropertyID: propertyID,
		RoomID:     roomID,
		Amount:     amount,
		Month:      store.FirstOfMonth(month),
	})
}

func (s *RentalService) ListIncome(ctx context.Context, propertyID uuid.UUID, from, to *time.Time) ([]*domain.Income, error) {
	return s.repos.Income.ListByProperty(ctx, propertyID, from, to)
}

// MarkIncomePaid records payment today.
func (s *RentalService) MarkIncomePaid(ctx context.Context, incomeID uuid.UUID) (*domain.Income, error) {
	if err := s.repos.Income.MarkPaid(ctx, incomeID, s.now()); err != nil {
		return nil, err
	}
	return s.repos.Income.GetByID(ctx, incomeID)
}

func (s *RentalService) MarkIncomeUnpaid(ctx context.Context, incomeID uuid.UUID) (*domain.Income, error) {
	if err := s.repos.Income.MarkUnpaid(ctx, incomeID); err != nil {
		return nil, err
	}
	return s.repos.Income.GetByID(ctx, incomeID)
}

// GenerateMonthlyIncome creates one unpaid row at the room's rent for every
// occupied private room that has no income for month yet. Running it twice
// for the same month creates nothing the second time.
func (s *RentalService) GenerateMonthlyIncome(ctx context.Context, propertyID uuid.UUID, month time.Time) ([]*domain.Income, error) {
	p, err := s.GetProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	month = store.FirstOfMonth(month)

	var created []*domain.Income
	for _, room := range p.PrivateRooms() {
		if !room.Occupied {
			continue
		}
		exists, err := s.repos.Income.ExistsForRoomMonth(ctx, room.ID, month)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		in, err := s.repos.Income.Create(ctx, &domain.Income{
			PropertyID: propertyID,
			RoomID:     room.ID,
			Amount:     room.MonthlyRent,
			Month:      month,
		})
		if err != nil {
			return created, fmt.Errorf("failed to create income for room %s: %w", room.ID, err)
		}
		created = append(created, in)
	}

	s.logger.Info("monthly income generated", "property_id", propertyID, "month", month.Format("2006-01"), "created", len(created))
	return created, nil
}

func (s *RentalService) RecordExpense(ctx context.Context, e *domain.Expense) (*domain.Expense, error) {
	if _, err := s.GetProperty(ctx, e.PropertyID); err != nil {
		return nil, err
	}
	if e.Amount.IsNegative() {
		return nil, domain.ErrNegativeAmount
	}
	e.Category = strings.TrimSpace(e.Category)
	if e.Date.IsZero() {
		e.Date = s.now()
	}
	return s.repos.Expenses.Create(ctx, e)
}

// FinancialSummary totals income and expenses of one month, or of all time
// when year or month is zero.
func (s *RentalService) FinancialSummary(ctx context.Context, propertyID uuid.UUID, year int, month time.Month) (domain.FinancialSummary, error) {
	var from, to *time.Time
	if year > 0 && month >= time.January && month <= time.December {
		start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, 0).Add(-time.Second)
		from, to = &start, &end
	}

	var (
		income   []*domain.Income
		expenses []*domain.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.repos.Income.ListByProperty(gctx, propertyID, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.repos.Expenses.ListByProperty(gctx, propertyID, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.FinancialSummary{}, fmt.Errorf("failed to load finances: %w", err)
	}

	sum := domain.FinancialSummary{
		TotalIncome:   decimal.Zero,
		PaidIncome:    decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, in := range income {
		sum.TotalIncome = sum.TotalIncome.Add(in.Amount)
		if in.Paid {
			sum.PaidIncome = sum.PaidIncome.Add(in.Amount)
			sum.PaidCount++
		} else {
			sum.UnpaidCount++
		}
	}
	for _, e := range expenses {
		sum.TotalExpenses = sum.TotalExpenses.Add(e.Amount)
	}
	sum.PendingIncome = sum.TotalIncome.Sub(sum.PaidIncome)
	return sum, nil
}
