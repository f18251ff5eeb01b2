package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-hub/internal/application/command"
	"github.com/skillswap/skillswap-hub/internal/application/query"
	"github.com/skillswap/skillswap-hub/internal/domain/matching"
	"github.com/skillswap/skillswap-hub/internal/domain/shared"
	"github.com/skillswap/skillswap-hub/internal/infrastructure/persistence/memory"
	"github.com/skillswap/skillswap-hub/internal/interface/http/handlers"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     *APIError       `json:"error"`
	Meta      *ResponseMeta   `json:"meta"`
	RequestID string          `json:"request_id"`
}

func newTestServer(t *testing.T, mutate func(*Config, *Dependencies)) http.Handler {
	t.Helper()

	ctx := context.Background()
	profiles := memory.NewProfileStore()
	relationships := memory.NewRelationshipStore()
	messages := memory.NewMessageLog()
	require.NoError(t, memory.Seed(ctx, profiles, relationships, messages))

	scorer := matching.NewScorer(nil)
	opts := command.Options{}

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	deps := Dependencies{
		GetProfile:    query.NewGetProfileHandler(profiles),
		FindPartners:  query.NewFindPartnersHandler(profiles, relationships, scorer),
		ListMatches:   query.NewListMatchesHandler(profiles, relationships, messages),
		ListMessages:  query.NewListMessagesHandler(relationships, messages),
		ProposeMatch:  command.NewProposeMatchHandler(profiles, relationships, scorer, opts),
		RespondMatch:  command.NewRespondMatchHandler(relationships, opts),
		RemoveMatch:   command.NewRemoveMatchHandler(relationships, opts),
		SendMessage:   command.NewSendMessageHandler(relationships, messages, opts),
		Logger:        logger.Nop(),
		HealthChecker: handlers.NewNoopHealthChecker(),
	}
	if mutate != nil {
		mutate(&cfg, &deps)
	}

	s := NewServer(cfg, deps)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func partnerIDs(t *testing.T, h http.Handler, profileID string) []string {
	t.Helper()

	_, env := do(t, h, http.MethodGet, "/api/v1/profiles/"+profileID+"/partners", "")
	var res query.FindPartnersResult
	require.NoError(t, json.Unmarshal(env.Data, &res))

	ids := make([]string, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		ids = append(ids, c.Profile.ID)
	}
	return ids
}

func matchPath(key, suffix string) string {
	return "/api/v1/matches/" + memory.DemoID("match", key) + suffix
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec, _ = do(t, h, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_HealthFailing(t *testing.T) {
	checker := handlers.NewCompositeHealthChecker("test")
	checker.AddCheck("postgres", func(context.Context) error { return errors.New("connection refused") })

	h := newTestServer(t, func(_ *Config, d *Dependencies) { d.HealthChecker = checker })

	rec, env := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, env.Success)

	var status handlers.HealthStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.False(t, status.Healthy)
	assert.Equal(t, "Some checks failed: postgres", status.Message)

	rec, _ = do(t, h, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_RequestIDIsPropagated(t *testing.T) {
	h := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-42"`)
}

func TestServer_GetProfile(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/profiles/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var p query.ProfileDTO
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, "Jordan Lee", p.Name)
	assert.NotContains(t, string(env.Data), "email")

	rec, env = do(t, h, http.MethodGet, "/api/v1/profiles/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestServer_FindPartners(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/profiles/1/partners", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res query.FindPartnersResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "4", res.Candidates[0].Profile.ID)
	assert.Equal(t, 60, res.Candidates[0].ScorePercent)
	assert.Equal(t, 2, env.Meta.TotalCount)

	_, env = do(t, h, http.MethodGet, "/api/v1/profiles/1/partners?min_score=55", "")
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "4", res.Candidates[0].Profile.ID)

	_, env = do(t, h, http.MethodGet, "/api/v1/profiles/1/partners?skills=4,%207&limit=5", "")
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, "2", res.Candidates[0].Profile.ID)
}

func TestServer_FindPartnersRejectsBadParams(t *testing.T) {
	h := newTestServer(t, nil)

	for _, target := range []string{
		"/api/v1/profiles/1/partners?min_score=abc",
		"/api/v1/profiles/1/partners?min_score=60abc",
		"/api/v1/profiles/1/partners?min_score=101",
		"/api/v1/profiles/1/partners?limit=-1",
		"/api/v1/profiles/1/partners?limit=5.9",
	} {
		rec, env := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		require.NotNil(t, env.Error, target)
		assert.Equal(t, "INVALID_ARGUMENT", env.Error.Code, target)
	}
}

func TestServer_ProposeMatch(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodPost, "/api/v1/matches", `{"requester_id":"1","candidate_id":"4"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res proposeMatchResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Created)
	assert.Equal(t, matching.StatusPending, res.Match.Status)
	assert.InDelta(t, 0.6, res.Match.Score, 1e-9)

	rec, env = do(t, h, http.MethodPost, "/api/v1/matches", `{"requester_id":"4","candidate_id":"1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.Created)

	// 4 is no longer a candidate for 1
	assert.Equal(t, []string{"2"}, partnerIDs(t, h, "1"))
}

func TestDecodeJSON_WrapsCause(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := decodeJSON(req, &dst)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","extra":1}`))
	err = decodeJSON(req, &dst)
	assert.True(t, shared.IsValidation(err))
	assert.Contains(t, err.Error(), "extra")
}

func TestServer_ProposeMatchErrors(t *testing.T) {
	h := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/matches", `{"requester_id":"1","candidate_id":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, h, http.MethodPost, "/api/v1/matches", `{"requester_id":"1"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "malformed JSON body")

	rec, _ = do(t, h, http.MethodPost, "/api/v1/matches", `{"requester_id":"1","candidate_id":"99"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RespondMatch(t *testing.T) {
	h := newTestServer(t, nil)

	// match 2 is pending: 1 invited 5
	rec, env := do(t, h, http.MethodPost, matchPath("2", "/accept"), `{"profile_id":"1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	rec, env = do(t, h, http.MethodPost, matchPath("2", "/accept"), `{"profile_id":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var rel matching.Relationship
	require.NoError(t, json.Unmarshal(env.Data, &rel))
	assert.Equal(t, matching.StatusAccepted, rel.Status)
	assert.NotNil(t, rel.RespondedAt)

	rec, env = do(t, h, http.MethodPost, matchPath("2", "/reject"), `{"profile_id":"5"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, _ = do(t, h, http.MethodPost, "/api/v1/matches/unknown/accept", `{"profile_id":"5"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RemoveMatch(t *testing.T) {
	h := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodDelete, matchPath("1", "?profile_id=2"), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, h, http.MethodDelete, matchPath("1", "?profile_id=3"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, h, http.MethodGet, matchPath("1", "/messages?profile_id=1"), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// 3 is a candidate for 1 again
	assert.Contains(t, partnerIDs(t, h, "1"), "3")
}

func TestServer_Messages(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, matchPath("1", "/messages?profile_id=1"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list query.ListMessagesResult
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.NotEmpty(t, list.Messages)
	assert.Equal(t, 1, list.MarkedRead)
	assert.Equal(t, len(list.Messages), env.Meta.TotalCount)
	before := len(list.Messages)

	rec, _ = do(t, h, http.MethodGet, matchPath("1", "/messages?profile_id=2"), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, h, http.MethodPost, matchPath("1", "/messages"), `{"sender_id":"3","content":"See you at 6?"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = do(t, h, http.MethodPost, matchPath("1", "/messages"), `{"sender_id":"3","content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// match 2 is still pending
	rec, _ = do(t, h, http.MethodPost, matchPath("2", "/messages"), `{"sender_id":"1","content":"hi"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	_, env = do(t, h, http.MethodGet, matchPath("1", "/messages?profile_id=1&keep_unread=true"), "")
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list.Messages, before+1)
	assert.Zero(t, list.MarkedRead)
}

func TestServer_ListMatches(t *testing.T) {
	h := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/profiles/1/matches", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res query.ListMatchesResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "3", res.Accepted[0].Partner.ID)
	assert.Equal(t, 1, res.Accepted[0].UnreadCount)
	require.Len(t, res.Outgoing, 1)
	assert.Equal(t, "5", res.Outgoing[0].Partner.ID)
	assert.Empty(t, res.Incoming)
}

func TestServer_RateLimit(t *testing.T) {
	h := newTestServer(t, func(c *Config, _ *Dependencies) { c.RateLimitPerMinute = 2 })

	for range 2 {
		rec, _ := do(t, h, http.MethodGet, "/live", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, env := do(t, h, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestServer_RecoversFromPanic(t *testing.T) {
	s := NewServer(DefaultConfig(), Dependencies{Logger: logger.Nop()})
	defer s.rateLimiter.Stop()

	s.router.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec, env := do(t, s.Handler(), http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL", env.Error.Code)
}

func TestServer_NotConfigured(t *testing.T) {
	s := NewServer(DefaultConfig(), Dependencies{Logger: logger.Nop()})
	defer s.rateLimiter.Stop()

	rec, _ := do(t, s.Handler(), http.MethodGet, "/api/v1/profiles/1", "")
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{shared.ErrInvalidProfileID, http.StatusBadRequest},
		{shared.ErrEmptyMessage, http.StatusBadRequest},
		{shared.ErrProfileNotFound, http.StatusNotFound},
		{shared.ErrRelationshipFinal, http.StatusConflict},
		{shared.ErrRelationshipClosed, http.StatusConflict},
		{shared.ErrNotReceiver, http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		got, _ := statusForError(tt.err)
		assert.Equal(t, tt.want, got, tt.err.Error())
	}
}
