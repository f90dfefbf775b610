package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/konekt-network/konekt/internal/app/registration"
	"github.com/konekt-network/konekt/internal/domain"
)

const maxStepBody = 64 << 10

type startRegistrationRequest struct {
	UserID string `json:"user_id"`
}

// POST /api/registrations
func (s *Server) handleStartRegistration(w http.ResponseWriter, r *http.Request) {
	var req startRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	draft, err := s.wizard.Start(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, draft)
}

// GET /api/registrations/{draftID}
func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	draft, err := s.wizard.Load(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// PUT /api/registrations/{draftID}/steps/{stage}
func (s *Server) handleSubmitStep(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxStepBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	step, err := registration.DecodeStep(domain.Stage(chi.URLParam(r, "stage")), body)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	draft, err := s.wizard.Submit(r.Context(), chi.URLParam(r, "draftID"), step)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// POST /api/registrations/{draftID}/complete
func (s *Server) handleCompleteRegistration(w http.ResponseWriter, r *http.Request) {
	reg, err := s.wizard.Complete(r.Context(), chi.URLParam(r, "draftID"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}
