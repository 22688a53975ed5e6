package server

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jonathan/resume-builder/internal/stats"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAdminStats(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "boss@example.com", types.RoleAdmin)
	today := time.Now().UTC().Format("2006-01-02")
	env.stats.users = 3
	env.stats.resumes = 7
	env.stats.byDay = []types.DailyCount{{Date: today, Count: 2}}

	w := env.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decodeBody[types.AdminStats](t, w)
	assert.EqualValues(t, 3, got.TotalUsers)
	assert.EqualValues(t, 7, got.TotalResumes)
	require.Len(t, got.ResumesByDay, stats.Days)
	last := got.ResumesByDay[stats.Days-1]
	assert.Equal(t, today, last.Date)
	assert.EqualValues(t, 2, last.Count)
	assert.EqualValues(t, 0, got.ResumesByDay[0].Count)
}

func TestHandleAdminStats_Authorization(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.createUser(t, "user@example.com", types.RoleUser)

	w := env.do(t, http.MethodGet, "/api/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Access denied"}`, w.Body.String())
}

func TestHandleAdminStats_SourceFailure(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.createUser(t, "boss@example.com", types.RoleAdmin)
	env.stats.err = errors.New("relation \"resumes\" does not exist")

	w := env.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "relation")
}

func TestHandleAdminStats_NotConfigured(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.Stats = nil })
	_, adminToken := env.createUser(t, "boss@example.com", types.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/admin/stats", adminToken, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
