package server

import (
	"encoding/json"
	"net/http"
)

// HandlerError is the JSON body of every error response.
type HandlerError struct {
	ErrorName        string `json:"errorName"`
	Description      string `json:"description"`
	PossibleSolution string `json:"possibleSolution"`
	RequestID        string `json:"requestId"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "id", RequestIDFrom(r.Context()), "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, name string, err error, solution string) {
	s.logger.Debug("request failed", "id", RequestIDFrom(r.Context()), "status", status, "error", err)
	s.writeJSON(w, r, status, HandlerError{
		ErrorName:        name,
		Description:      err.Error(),
		PossibleSolution: solution,
		RequestID:        RequestIDFrom(r.Context()),
	})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, http.StatusBadRequest, "Bad Request", err, "Check your request parameters")
}

func (s *Server) undecodableImage(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, http.StatusUnprocessableEntity, "Error Decoding Image", err, "Send a PNG, JPEG, GIF, WebP or AVIF image")
}

func (s *Server) bodyTooLarge(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, http.StatusRequestEntityTooLarge, "Image Too Large", err, "Send a smaller image or raise PRISM_MAX_UPLOAD_BYTES")
}
