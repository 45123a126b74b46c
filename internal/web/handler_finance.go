package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type recordIncomeRequest struct {
	RoomID uuid.UUID       `json:"room_id"`
	Amount decimal.Decimal `json:"amount"`
	Month  string          `json:"month"`
}

type recordExpenseRequest struct {
	RoomID      *uuid.UUID      `json:"room_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
}

type summaryResponse struct {
	domain.FinancialSummary
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin float64         `json:"profit_margin"`
}

func (s *Server) handleListIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	from, err := parseDate("from", r.URL.Query().Get("from"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	to, err := parseDate("to", r.URL.Query().Get("to"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	income, err := s.service.ListIncome(r.Context(), id, from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if income == nil {
		income = []*domain.Income{}
	}
	s.writeJSON(w, http.StatusOK, income)
}

func (s *Server) handleRecordIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req recordIncomeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := parseMonth(req.Month, time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.service.RecordIncome(r.Context(), id, req.RoomID, req.Amount, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleGenerateIncome(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	month, err := parseMonth(r.URL.Query().Get("month"), time.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	created, err := s.service.GenerateMonthlyIncome(r.Context(), id, month)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if created == nil {
		created = []*domain.Income{}
	}
	s.writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.service.MarkIncomePaid(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.service.MarkIncomeUnpaid(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, in)
}

func (s *Server) handleRecordExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req recordExpenseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e := &domain.Expense{
		PropertyID:  id,
		RoomID:      req.RoomID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
	}
	if date != nil {
		e.Date = *date
	}
	created, err := s.service.RecordExpense(r.Context(), e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// handleSummary totals one month when year and month are given, else all time.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var year, month int
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			s.writeError(w, r, badRequest("invalid year"))
			return
		}
	}
	if v := q.Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			s.writeError(w, r, badRequest("invalid month"))
			return
		}
	}
	sum, err := s.service.FinancialSummary(r.Context(), id, year, time.Month(month))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summaryResponse{
		FinancialSummary: sum,
		NetProfit:        sum.NetProfit(),
		ProfitMargin:     sum.ProfitMargin(),
	})
}
