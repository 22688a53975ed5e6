package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/server/middleware"
)

// maxResumeBody caps request bodies on resume writes.
const maxResumeBody = 1 << 20

// DeleteResumeResponse is returned after a resume is removed.
type DeleteResumeResponse struct {
	Message  string   `json:"message"`
	Warnings []string `json:"warnings,omitempty"`
}

// handleCreateResume creates a resume from {title, ...overrides}.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	title, err := extractTitle(body)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.resumes.Create(r.Context(), userID, title, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, created)
}

// handleListResumes returns the caller's resumes, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}

	resumes, err := s.resumes.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, resumes)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}

	res, err := s.resumes.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}

// handleUpdateResume merges the whitelisted top-level keys of the body.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	updated, err := s.resumes.Update(r.Context(), userID, id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}

	result, err := s.resumes.Delete(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := DeleteResumeResponse{Message: "Resume deleted successfully"}
	for _, warning := range result.Warnings {
		resp.Warnings = append(resp.Warnings, warning.String())
	}
	jsonResponse(w, http.StatusOK, resp)
}

// handleRenderResume renders the caller's resume. The template defaults to
// the one stored on the resume; format=html or Accept: text/html returns the
// document instead of the JSON layout.
func (s *Server) handleRenderResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := resumeID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	width := 0
	if raw := strings.TrimSpace(query.Get("width")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, &ErrValidation{Field: "width", Message: "must be a non-negative integer"})
			return
		}
		width = n
	}

	res, err := s.resumes.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	templateID := query.Get("template")
	if templateID == "" {
		templateID = res.TemplateID
	}
	out, err := rendering.Render(res, templateID, width)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, out.HTML)
		return
	}
	jsonResponse(w, http.StatusOK, out)
}

func wantsHTML(r *http.Request) bool {
	if strings.EqualFold(r.URL.Query().Get("format"), "html") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// sessionUser returns the authenticated user or writes a 401.
func sessionUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Not authorized")
		return uuid.Nil, false
	}
	return userID, true
}

// resumeID parses the {id} path value. A malformed id is reported exactly like
// a resume that does not exist.
func resumeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, &resume.NotFoundError{ID: uuid.Nil})
		return uuid.Nil, false
	}
	return id, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxResumeBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

// extractTitle reads the title key of a create payload. Malformed payloads are
// reported here so the title check does not mask them.
func extractTitle(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}
	if !json.Valid(body) {
		return "", &resume.ValidationError{Field: "body", Message: "malformed JSON"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", &resume.ValidationError{Field: "body", Message: "payload must be a JSON object"}
	}
	raw, ok := fields["title"]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", nil
	}
	var title string
	if err := json.Unmarshal(raw, &title); err != nil {
		return "", &resume.ValidationError{Field: "title", Message: "must be a string"}
	}
	return title, nil
}
