package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/rentalmngr/internal/domain"
)

type addReminderRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Type        domain.ReminderType `json:"reminder_type"`
	DueDate     string              `json:"due_date"`
	DueTime     string              `json:"due_time"`
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var pendingOnly bool
	if v := r.URL.Query().Get("pending"); v != "" {
		if pendingOnly, err = strconv.ParseBool(v); err != nil {
			s.writeError(w, r, badRequest("pending must be a boolean"))
			return
		}
	}
	reminders, err := s.service.ListReminders(r.Context(), id, pendingOnly)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if reminders == nil {
		reminders = []*domain.HouseholdReminder{}
	}
	s.writeJSON(w, http.StatusOK, reminders)
}

func (s *Server) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req addReminderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if due == nil {
		s.writeError(w, r, badRequest("due_date is required"))
		return
	}
	reminder, err := s.service.AddReminder(r.Context(), &domain.HouseholdReminder{
		PropertyID:  id,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		DueDate:     *due,
		DueTime:     req.DueTime,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, reminder)
}

func (s *Server) handleCompleteReminder(w http.ResponseWriter, r *http.Request) {
	s.setReminderCompleted(w, r, true)
}

func (s *Server) handleReopenReminder(w http.ResponseWriter, r *http.Request) {
	s.setReminderCompleted(w, r, false)
}

func (s *Server) setReminderCompleted(w http.ResponseWriter, r *http.Request, completed bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reminder, err := s.service.SetReminderCompleted(r.Context(), id, completed)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, reminder)
}

func (s *Server) handleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.DeleteReminder(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
