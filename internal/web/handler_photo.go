package web

import (
	"fmt"
	"io"
	"net/http"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// sniffImage reports the MIME type of an accepted room photo. The stdlib
// sniffer has no WebP signature, so the RIFF container is checked by hand.
func sniffImage(data []byte) (string, bool) {
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return "image/webp", true
	}
	switch mime := http.DetectContentType(data); mime {
	case "image/jpeg", "image/png", "image/gif":
		return mime, true
	}
	return "", false
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		s.writeError(w, r, badRequest("failed to parse form"))
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, r, badRequest("image file required"))
		return
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			s.logger.Warn("failed to close upload file", "error", cerr)
		}
	}()

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	mimeType, ok := sniffImage(imageData)
	if !ok {
		s.writeError(w, r, badRequest("unsupported image format"))
		return
	}

	photo, err := s.service.UploadRoomPhoto(r.Context(), roomID, imageData, mimeType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, photo)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc, mimeType, err := s.service.GetRoomPhoto(r.Context(), roomID, index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn("failed to stream photo", "room_id", roomID, "error", err)
	}
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	index, err := pathInt(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.DeleteRoomPhoto(r.Context(), roomID, index); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
