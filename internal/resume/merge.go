package resume

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
	rootschemas "github.com/jonathan/resume-builder/schemas"
	"github.com/rs/zerolog/log"
)

var patchSchema = schemas.MustCompile("resume_patch", rootschemas.ResumePatch)

// field applies one whitelisted top-level key onto a resume.
type field struct {
	key   string
	apply func(r *types.Resume, raw json.RawMessage) error
}

// mergeable is the closed set of keys a client may write, in application order.
// id, ownerId and the timestamps are absent and therefore never written.
var mergeable = []field{
	{"title", func(r *types.Resume, raw json.RawMessage) error {
		var title string
		if err := decode(raw, &title); err != nil {
			return err
		}
		title = strings.TrimSpace(title)
		if title == "" {
			return &ValidationError{Field: "title", Message: "title is required"}
		}
		r.Title = title
		return nil
	}},
	{"templateId", func(r *types.Resume, raw json.RawMessage) error {
		var id string
		if err := decode(raw, &id); err != nil {
			return err
		}
		r.TemplateID = rendering.ParseTemplateID(id).String()
		return nil
	}},
	{"thumbnailLink", replace(func(r *types.Resume) *string { return &r.ThumbnailLink })},
	{"profileInfo", replace(func(r *types.Resume) *types.ProfileInfo { return &r.ProfileInfo })},
	{"contactInfo", replace(func(r *types.Resume) *types.ContactInfo { return &r.ContactInfo })},
	{"workExperience", replaceList(func(r *types.Resume) *[]types.WorkExperience { return &r.WorkExperience })},
	{"education", replaceList(func(r *types.Resume) *[]types.Education { return &r.Education })},
	{"skills", replaceList(func(r *types.Resume) *[]types.Skill { return &r.Skills })},
	{"projects", replaceList(func(r *types.Resume) *[]types.Project { return &r.Projects })},
	{"certifications", replaceList(func(r *types.Resume) *[]types.Certification { return &r.Certifications })},
	{"languages", replaceList(func(r *types.Resume) *[]types.Language { return &r.Languages })},
	{"interests", replaceList(func(r *types.Resume) *[]string { return &r.Interests })},
}

// replace swaps a value field wholesale. null resets it to the zero value.
func replace[T any](target func(*types.Resume) *T) func(*types.Resume, json.RawMessage) error {
	return func(r *types.Resume, raw json.RawMessage) error {
		var v T
		if err := decode(raw, &v); err != nil {
			return err
		}
		*target(r) = v
		return nil
	}
}

// replaceList swaps a list section wholesale. null resets it to an empty list.
func replaceList[T any](target func(*types.Resume) *[]T) func(*types.Resume, json.RawMessage) error {
	return func(r *types.Resume, raw json.RawMessage) error {
		var v []T
		if err := decode(raw, &v); err != nil {
			return err
		}
		if v == nil {
			v = []T{}
		}
		*target(r) = v
		return nil
	}
}

// decode leaves v untouched for a JSON null.
func decode(raw json.RawMessage, v any) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// validatePayload checks that payload is a JSON object of the expected shape.
func validatePayload(payload []byte) error {
	if !json.Valid(payload) {
		return &ValidationError{Field: "body", Message: "malformed JSON"}
	}
	err := patchSchema.Validate(payload)
	if err == nil {
		return nil
	}

	verr, ok := err.(*schemas.ValidationError)
	if !ok {
		return &ValidationError{Field: "body", Message: err.Error()}
	}
	if len(verr.Errors) == 1 {
		fe := verr.Errors[0]
		return &ValidationError{Field: fieldName(fe.Field), Message: fe.Message}
	}
	msgs := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fieldName(fe.Field), fe.Message))
	}
	return &ValidationError{Field: "body", Message: strings.Join(msgs, "; ")}
}

func fieldName(schemaField string) string {
	if schemaField == "(root)" {
		return "body"
	}
	return schemaField
}

// patch is a validated payload split into its top-level keys.
type patch map[string]json.RawMessage

// parsePatch validates payload and splits it into top-level keys. An empty
// payload is an empty patch.
func parsePatch(payload []byte) (patch, error) {
	if len(bytes.TrimSpace(payload)) == 0 {
		return patch{}, nil
	}
	if err := validatePayload(payload); err != nil {
		return nil, err
	}
	var p patch
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, &ValidationError{Field: "body", Message: "payload must be a JSON object"}
	}
	return p, nil
}

// applyPatch shallow-merges p onto base and returns the merged resume
// together with the keys that were applied. Keys outside the whitelist are
// ignored. base is not modified.
func applyPatch(ctx context.Context, base types.Resume, p patch) (types.Resume, []string, error) {
	merged := base
	applied := make([]string, 0, len(p))
	for _, f := range mergeable {
		raw, ok := p[f.key]
		if !ok {
			continue
		}
		if err := f.apply(&merged, raw); err != nil {
			if _, isValidation := err.(*ValidationError); isValidation {
				return base, nil, err
			}
			log.Ctx(ctx).Debug().Err(err).Str("field", f.key).Msg("rejected resume field")
			return base, nil, &ValidationError{Field: f.key, Message: "invalid value"}
		}
		applied = append(applied, f.key)
	}
	merged.Normalize()
	return merged, applied, nil
}
