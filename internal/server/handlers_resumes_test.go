package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createResume(t *testing.T, env *testEnv, token string, body any) types.Resume {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/resume", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[types.Resume](t, w)
}

func TestResumeRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/resume"},
		{http.MethodGet, "/api/resume"},
		{http.MethodGet, "/api/resume/" + id},
		{http.MethodPut, "/api/resume/" + id},
		{http.MethodDelete, "/api/resume/" + id},
		{http.MethodGet, "/api/resume/" + id + "/render"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := env.do(t, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Not authorized, no token"}`, w.Body.String())

			w = env.do(t, rt.method, rt.path, "not-a-jwt", nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, `{"error":"Not authorized, token failed"}`, w.Body.String())
		})
	}
}

func TestHandleCreateResume(t *testing.T) {
	env := newTestEnv(t)
	ownerID, token := env.createUser(t, "owner@example.com", types.RoleUser)

	created := createResume(t, env, token, map[string]string{"title": "Draft"})

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.Equal(t, "Draft", created.Title)
	assert.Equal(t, types.DefaultTemplateID, created.TemplateID)
	assert.Equal(t, []types.Skill{{}}, created.Skills)
	assert.Equal(t, []string{""}, created.Interests)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestHandleCreateResume_WithOverrides(t *testing.T) {
	env := newTestEnv(t)
	ownerID, token := env.createUser(t, "owner@example.com", types.RoleUser)

	created := createResume(t, env, token, map[string]any{
		"title":      "Backend",
		"templateId": "02",
		"ownerId":    uuid.NewString(),
		"skills":     []map[string]any{{"name": "Go", "progress": 90}},
	})

	assert.Equal(t, ownerID, created.OwnerID, "owner comes from the session")
	assert.Equal(t, "02", created.TemplateID)
	assert.Equal(t, []types.Skill{{Name: "Go", Progress: 90}}, created.Skills)
	assert.Equal(t, []types.Education{{}}, created.Education)
}

func TestHandleCreateResume_Invalid(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{name: "empty body", body: nil, wantMsg: "title"},
		{name: "missing title", body: map[string]string{}, wantMsg: "title"},
		{name: "blank title", body: map[string]string{"title": "   "}, wantMsg: "title"},
		{name: "title not a string", body: map[string]int{"title": 5}, wantMsg: "title"},
		{name: "malformed JSON", body: `{"title":`, wantMsg: "malformed JSON"},
		{name: "array body", body: `[1,2]`, wantMsg: "body"},
		{name: "bad section type", body: map[string]any{"title": "x", "skills": "lots"}, wantMsg: "skills"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/resume", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantMsg)
		})
	}
	assert.Empty(t, env.resumes.resumes, "nothing is stored for rejected payloads")
}

func TestHandleListResumes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	_, otherToken := env.createUser(t, "other@example.com", types.RoleUser)

	createResume(t, env, token, map[string]string{"title": "First"})
	createResume(t, env, token, map[string]string{"title": "Second"})
	createResume(t, env, otherToken, map[string]string{"title": "Not mine"})

	w := env.do(t, http.MethodGet, "/api/resume", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]types.Resume](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Second", list[0].Title)
	assert.Equal(t, "First", list[1].Title)
}

func TestHandleListResumes_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)

	w := env.do(t, http.MethodGet, "/api/resume", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandleGetResume_Ownership(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	_, otherToken := env.createUser(t, "other@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]string{"title": "Mine"})
	path := "/api/resume/" + created.ID.String()

	w := env.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decodeBody[types.Resume](t, w).ID)

	foreign := env.do(t, http.MethodGet, path, otherToken, nil)
	missing := env.do(t, http.MethodGet, "/api/resume/"+uuid.NewString(), token, nil)
	malformed := env.do(t, http.MethodGet, "/api/resume/not-a-uuid", token, nil)

	for _, w := range []*httptest.ResponseRecorder{foreign, missing, malformed} {
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.JSONEq(t, `{"error":"resume not found"}`, malformed.Body.String())
}

func TestHandleUpdateResume(t *testing.T) {
	env := newTestEnv(t)
	ownerID, token := env.createUser(t, "owner@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]string{"title": "Draft"})
	path := "/api/resume/" + created.ID.String()

	w := env.do(t, http.MethodPut, path, token, map[string]any{
		"title":       "Final",
		"id":          uuid.NewString(),
		"ownerId":     uuid.NewString(),
		"createdAt":   "2000-01-01T00:00:00Z",
		"contactInfo": map[string]string{"email": "me@example.com"},
		"unknownKey":  true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[types.Resume](t, w)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, ownerID, updated.OwnerID)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, "me@example.com", updated.ContactInfo.Email)
	assert.Equal(t, []types.WorkExperience{{}}, updated.WorkExperience, "untouched sections keep their value")
}

func TestHandleUpdateResume_Errors(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	_, otherToken := env.createUser(t, "other@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]string{"title": "Draft"})
	path := "/api/resume/" + created.ID.String()

	w := env.do(t, http.MethodPut, path, otherToken, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPut, path, token, `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, path, token, map[string]any{"skills": map[string]string{"name": "Go"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPut, path, token, `{"skills":[{"name":"Go","progress":1e300}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid value")
	assert.NotContains(t, w.Body.String(), "unmarshal")

	w = env.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Draft", decodeBody[types.Resume](t, w).Title)
}

func TestHandleDeleteResume(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	_, otherToken := env.createUser(t, "other@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]any{
		"title":         "With assets",
		"thumbnailLink": "http://localhost:8000/uploads/thumb.png",
		"profileInfo":   map[string]string{"profileImage": "http://localhost:8000/uploads/me.png"},
	})
	path := "/api/resume/" + created.ID.String()

	w := env.do(t, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, env.assets.deleted)

	w = env.do(t, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Resume deleted successfully"}`, w.Body.String())
	assert.ElementsMatch(t, []string{
		"http://localhost:8000/uploads/thumb.png",
		"http://localhost:8000/uploads/me.png",
	}, env.assets.deleted)

	w = env.do(t, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDeleteResume_AssetFailureIsAWarning(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]string{
		"title":         "With assets",
		"thumbnailLink": "http://localhost:8000/uploads/thumb.png",
	})
	env.assets.err = errors.New("bucket unavailable")

	w := env.do(t, http.MethodDelete, "/api/resume/"+created.ID.String(), token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[DeleteResumeResponse](t, w)
	assert.Equal(t, "Resume deleted successfully", resp.Message)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "thumb.png")
	assert.NotContains(t, env.resumes.resumes, created.ID)
}

func TestHandleResume_StorageFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	env.resumes.err = errors.New("connection reset by peer")

	w := env.do(t, http.MethodGet, "/api/resume", token, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestHandleRenderResume(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)
	created := createResume(t, env, token, map[string]any{
		"title":      "Render me",
		"templateId": "03",
		"skills":     []map[string]any{{"name": "Go", "progress": 80}},
	})
	base := "/api/resume/" + created.ID.String() + "/render"

	t.Run("stored template by default", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		out := decodeBody[rendering.Output](t, w)
		assert.Equal(t, rendering.TemplateTertiary, out.TemplateID)
		assert.Equal(t, rendering.BaseWidth, out.Width)
		assert.Contains(t, out.HTML, "Go")
	})

	t.Run("query overrides template and width", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base+"?template=02&width=400", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decodeBody[rendering.Output](t, w)
		assert.Equal(t, rendering.TemplateSecondary, out.TemplateID)
		assert.Equal(t, 400, out.Width)
	})

	t.Run("unknown template falls back", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base+"?template=fancy", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, rendering.DefaultTemplate, decodeBody[rendering.Output](t, w).TemplateID)
	})

	t.Run("html format", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base+"?format=html", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
		assert.True(t, strings.Contains(w.Body.String(), "Render me"))
	})

	t.Run("accept header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, base, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		w := httptest.NewRecorder()
		env.handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	})

	t.Run("bad width", func(t *testing.T) {
		w := env.do(t, http.MethodGet, base+"?width=wide", token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "width")
	})
}

// A draft edited only in its skills keeps every other default, stores the
// out-of-range progress as given and renders it as a full bar.
func TestResumeLifecycle_SkillProgressOverHundred(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.createUser(t, "owner@example.com", types.RoleUser)

	created := createResume(t, env, token, map[string]string{"title": "Draft"})
	path := "/api/resume/" + created.ID.String()

	w := env.do(t, http.MethodPut, path, token, map[string]any{
		"skills": []map[string]any{{"name": "Go", "progress": 150}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[types.Resume](t, w)
	assert.Equal(t, "Draft", got.Title)
	assert.Equal(t, []types.Skill{{Name: "Go", Progress: 150}}, got.Skills)
	assert.Equal(t, []types.WorkExperience{{}}, got.WorkExperience)
	assert.Equal(t, []types.Education{{}}, got.Education)
	assert.Equal(t, []types.Project{{}}, got.Projects)
	assert.Equal(t, []types.Certification{{}}, got.Certifications)
	assert.Equal(t, []types.Language{{}}, got.Languages)
	assert.Equal(t, []string{""}, got.Interests)
	assert.Equal(t, created.ContactInfo, got.ContactInfo)

	w = env.do(t, http.MethodGet, path+"/render?template=02", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decodeBody[rendering.Output](t, w)
	assert.Contains(t, out.HTML, `class="fill" style="width: 100%"`)
	assert.NotContains(t, out.HTML, "width: 150%")
}

func TestExtractTitle(t *testing.T) {
	title, err := extractTitle([]byte(`{"title":"CV","skills":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "CV", title)

	title, err = extractTitle([]byte(`{"title":null}`))
	require.NoError(t, err)
	assert.Empty(t, title)

	_, err = extractTitle([]byte(`"just a string"`))
	assert.Error(t, err)
}
