package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type createTenantRequest struct {
	FullName       string              `json:"full_name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	DNI            string              `json:"dni"`
	ContractStart  string              `json:"contract_start"`
	ContractMonths *int                `json:"contract_months"`
	ContractEnd    string              `json:"contract_end"`
	Deposit        decimal.NullDecimal `json:"deposit"`
	MonthlyRent    decimal.NullDecimal `json:"monthly_rent"`
	CurrentAddress string              `json:"current_address"`
	Notes          string              `json:"notes"`
	ContractNotes  string              `json:"contract_notes"`
	RoomID         *uuid.UUID          `json:"room_id"`
}

type renewRequest struct {
	Months int `json:"months"`
}

type assignRequest struct {
	RoomID uuid.UUID `json:"room_id"`
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tenants, err := s.service.ListTenants(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if tenants == nil {
		tenants = []*domain.Tenant{}
	}
	s.writeJSON(w, http.StatusOK, tenants)
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req createTenantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	start, err := parseDate("contract_start", req.ContractStart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	end, err := parseDate("contract_end", req.ContractEnd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tenant, err := s.service.CreateTenant(r.Context(), &domain.Tenant{
		PropertyID:     id,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		DNI:            req.DNI,
		ContractStart:  start,
		ContractMonths: req.ContractMonths,
		ContractEnd:    end,
		Deposit:        req.Deposit,
		MonthlyRent:    req.MonthlyRent,
		CurrentAddress: req.CurrentAddress,
		Notes:          req.Notes,
		ContractNotes:  req.ContractNotes,
	}, req.RoomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, tenant)
}

func (s *Server) handleRenewContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req renewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tenant, err := s.service.RenewContract(r.Context(), id, req.Months)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tenant)
}

func (s *Server) handleAssignTenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req assignRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tenant, err := s.service.AssignTenant(r.Context(), id, req.RoomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tenant)
}

func (s *Server) handleDeactivateTenant(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.DeactivateTenant(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUnassignRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.UnassignTenant(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
