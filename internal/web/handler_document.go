package web

import (
	"net/http"
	"strconv"

	"github.com/vbonduro/rentalmngr/internal/document"
)

func (s *Server) handleContractPDF(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tmpl, err := document.ParseTemplate(r.URL.Query().Get("template"))
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}
	pdf, err := s.service.ContractPDF(r.Context(), tenantID, tmpl)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, "contrato-"+tenantID.String()+".pdf", pdf)
}

func (s *Server) handleRoomAdPDF(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pdf, err := s.service.RoomAdPDF(r.Context(), roomID, r.URL.Query().Get("contact"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePDF(w, "anuncio-"+roomID.String()+".pdf", pdf)
}

func (s *Server) writePDF(w http.ResponseWriter, filename string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	if _, err := w.Write(pdf); err != nil {
		s.logger.Warn("failed to write pdf", "filename", filename, "error", err)
	}
}
