package http

import (
	"net/http"

	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"name":    "SkillSwap Hub API",
		"version": s.config.Version,
		"endpoints": map[string]string{
			"health":   "/health",
			"profile":  "/api/v1/profiles/{id}",
			"partners": "/api/v1/profiles/{id}/partners",
			"matches":  "/api/v1/profiles/{id}/matches",
			"propose":  "/api/v1/matches",
			"messages": "/api/v1/matches/{id}/messages",
		},
	})
}

// handleHealth reports every registered dependency check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if status.Version == "" {
		status.Version = s.config.Version
	}
	if !status.Healthy {
		writeJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}

// handleReady handles the readiness probe endpoint.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := s.deps.HealthChecker.Check(r.Context())
	if !status.Ready {
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": status.Message,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProfile handles GET /api/v1/profiles/{id}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetProfile == nil {
		writeNotConfigured(w, r)
		return
	}

	dto, err := s.deps.GetProfile.Handle(r.Context(), query.GetProfileQuery{ProfileID: r.PathValue("id")})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto)
}

// handleFindPartners handles GET /api/v1/profiles/{id}/partners
func (s *Server) handleFindPartners(w http.ResponseWriter, r *http.Request) {
	if s.deps.FindPartners == nil {
		writeNotConfigured(w, r)
		return
	}

	minScore, err := getQueryParamInt(r, "min_score", 0)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	limit, err := getQueryParamInt(r, "limit", 0)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.FindPartners.Handle(r.Context(), query.FindPartnersQuery{
		ProfileID:       r.PathValue("id"),
		MinScorePercent: minScore,
		SkillIDs:        getQueryParamList(r, "skills"),
		Query:           r.URL.Query().Get("q"),
		Limit:           limit,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: result.TotalMatching})
}

// handleListMatches handles GET /api/v1/profiles/{id}/matches
func (s *Server) handleListMatches(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListMatches == nil {
		writeNotConfigured(w, r)
		return
	}

	result, err := s.deps.ListMatches.Handle(r.Context(), query.ListMatchesQuery{ProfileID: r.PathValue("id")})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type proposeMatchRequest struct {
	RequesterID string `json:"requester_id"`
	CandidateID string `json:"candidate_id"`
}

type proposeMatchResponse struct {
	Match   *matching.Relationship `json:"match"`
	Created bool                   `json:"created"`
}

// handleProposeMatch handles POST /api/v1/matches
func (s *Server) handleProposeMatch(w http.ResponseWriter, r *http.Request) {
	if s.deps.ProposeMatch == nil {
		writeNotConfigured(w, r)
		return
	}

	var req proposeMatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.ProposeMatch.Handle(r.Context(), command.ProposeMatchCommand{
		RequesterID:   req.RequesterID,
		CandidateID:   req.CandidateID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, proposeMatchResponse{Match: result.Match, Created: result.Created})
}

type respondMatchRequest struct {
	ProfileID string `json:"profile_id"`
}

// handleRespondMatch handles POST /api/v1/matches/{id}/accept and /reject.
func (s *Server) handleRespondMatch(decision command.Decision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.RespondMatch == nil {
			writeNotConfigured(w, r)
			return
		}

		var req respondMatchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeDomainError(w, r, err)
			return
		}

		match, err := s.deps.RespondMatch.Handle(r.Context(), command.RespondMatchCommand{
			RelationshipID: r.PathValue("id"),
			ProfileID:      req.ProfileID,
			Decision:       decision,
			CorrelationID:  getRequestID(r.Context()),
		})
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, match)
	}
}

// handleRemoveMatch handles DELETE /api/v1/matches/{id}?profile_id=
func (s *Server) handleRemoveMatch(w http.ResponseWriter, r *http.Request) {
	if s.deps.RemoveMatch == nil {
		writeNotConfigured(w, r)
		return
	}

	err := s.deps.RemoveMatch.Handle(r.Context(), command.RemoveMatchCommand{
		RelationshipID: r.PathValue("id"),
		ProfileID:      r.URL.Query().Get("profile_id"),
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"id": r.PathValue("id"), "status": "removed"})
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListMessages handles GET /api/v1/matches/{id}/messages?profile_id=
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	if s.deps.ListMessages == nil {
		writeNotConfigured(w, r)
		return
	}

	result, err := s.deps.ListMessages.Handle(r.Context(), query.ListMessagesQuery{
		RelationshipID: r.PathValue("id"),
		ProfileID:      r.URL.Query().Get("profile_id"),
		KeepUnread:     getQueryParamBool(r, "keep_unread"),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{TotalCount: len(result.Messages)})
}

type sendMessageRequest struct {
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
}

// handleSendMessage handles POST /api/v1/matches/{id}/messages
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	if s.deps.SendMessage == nil {
		writeNotConfigured(w, r)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDomainError(w, r, err)
		return
	}

	msg, err := s.deps.SendMessage.Handle(r.Context(), command.SendMessageCommand{
		RelationshipID: r.PathValue("id"),
		SenderID:       req.SenderID,
		Content:        req.Content,
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, msg)
}

func writeNotConfigured(w http.ResponseWriter, r *http.Request) {
	writeJSONError(w, r, http.StatusNotImplemented, "NOT_IMPLEMENTED", "handler not configured")
}
