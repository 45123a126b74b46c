package web

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type createPropertyRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

type createRoomRequest struct {
	Name        string              `json:"name"`
	Type        domain.RoomType     `json:"type"`
	MonthlyRent decimal.Decimal     `json:"monthly_rent"`
	SizeSqm     decimal.NullDecimal `json:"size_sqm"`
	Notes       string              `json:"notes"`
}

type addRuleRequest struct {
	Category    domain.HouseRuleCategory `json:"category"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.service.ListProperties(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if props == nil {
		props = []*domain.Property{}
	}
	s.writeJSON(w, http.StatusOK, props)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	var req createPropertyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.service.CreateProperty(r.Context(), req.Name, req.Address, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.service.GetProperty(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req createRoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	room, err := s.service.CreateRoom(r.Context(), &domain.Room{
		PropertyID:  id,
		Name:        req.Name,
		Type:        req.Type,
		MonthlyRent: req.MonthlyRent,
		SizeSqm:     req.SizeSqm,
		Notes:       req.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rules, err := s.service.ListHouseRules(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rules == nil {
		rules = []*domain.HouseRule{}
	}
	s.writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleAddRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addRuleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	rule, err := s.service.AddHouseRule(r.Context(), id, req.Category, req.Title, req.Description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.service.Alerts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []domain.LocalAlert{}
	}
	s.writeJSON(w, http.StatusOK, alerts)
}
