// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketing-automation/internal/domain"
	"marketing-automation/internal/domain/model"
	"marketing-automation/internal/domain/ports/adapter"
	"marketing-automation/internal/infra/logging"
	"marketing-automation/internal/infra/metrics"
)

type statusSetRequest struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
	Completed *bool  `json:"completed"`
}

func (s *Server) handleStatusSet(w http.ResponseWriter, r *http.Request) {
	var req statusSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.statusUC.Set(r.Context(), req.SessionID, req.Status, req.Completed); err != nil {
		if errors.Is(err, domain.ErrSessionRequired) {
			respondError(w, http.StatusBadRequest, "sessionId is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to store status")
		return
	}
	metrics.IncStatusSet()

	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Status updated",
		"sessionId": req.SessionID,
	})
}

func (s *Server) handleStatusGet(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	res, err := s.statusUC.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionRequired) {
			respondError(w, http.StatusBadRequest, "sessionId is required")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	switch res.Status {
	case model.StatusPending:
		metrics.IncStatusGet("pending")
	case model.StatusExpired:
		metrics.IncStatusGet("expired")
	default:
		metrics.IncStatusGet("stored")
	}

	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	sess, err := s.triggerUC.Trigger(
		r.Context(),
		r.FormValue("Company URL"),
		r.FormValue("Product Category"),
		r.FormValue("Knowledgebase"),
	)
	if err != nil {
		var upstream *adapter.UpstreamError
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			respondError(w, http.StatusBadRequest, "Company URL and Product Category are required")
		case errors.As(err, &upstream):
			msg := upstream.Body
			if msg == "" {
				msg = "Failed to trigger workflow"
			}
			respondError(w, upstream.Status, msg)
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("workflow trigger failed")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Workflow triggered successfully",
		"sessionId":  sess.ID,
		"fallbackId": sess.FallbackID,
	})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := logging.WithSessionID(r.Context(), req.SessionID)
	metrics.IncChatTurn()
	reply, sid, err := s.chatUC.Send(ctx, req.SessionID, req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			respondError(w, http.StatusBadRequest, "message is required")
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Msg("chat turn failed")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"reply":     reply,
		"sessionId": sid,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	conv, err := s.chatUC.History(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionRequired):
			respondError(w, http.StatusBadRequest, "sessionId is required")
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "conversation not found")
		default:
			respondError(w, http.StatusInternalServerError, "Failed to read history")
		}
		return
	}
	respondJSON(w, http.StatusOK, conv)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
