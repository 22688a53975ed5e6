package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResume_Defaults(t *testing.T) {
	owner := uuid.New()
	r := NewResume(owner, "Backend CV")

	assert.Equal(t, owner, r.OwnerID)
	assert.Equal(t, "Backend CV", r.Title)
	assert.Equal(t, DefaultTemplateID, r.TemplateID)
	assert.Len(t, r.WorkExperience, 1)
	assert.Len(t, r.Education, 1)
	assert.Len(t, r.Skills, 1)
	assert.Len(t, r.Projects, 1)
	assert.Len(t, r.Certifications, 1)
	assert.Len(t, r.Languages, 1)
	assert.Equal(t, []string{""}, r.Interests)
	assert.Equal(t, ProfileInfo{}, r.ProfileInfo)
	assert.Equal(t, ContactInfo{}, r.ContactInfo)
}

func TestResume_NormalizeEncodesEmptyLists(t *testing.T) {
	r := &Resume{Title: "x"}
	r.Normalize()

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
	assert.Contains(t, string(data), `"skills":[]`)
	assert.Contains(t, string(data), `"interests":[]`)
}

func TestResume_AssetRefs(t *testing.T) {
	tests := []struct {
		name string
		in   Resume
		want []string
	}{
		{
			name: "none",
			in:   Resume{},
			want: []string{},
		},
		{
			name: "thumbnail and preview",
			in: Resume{
				ThumbnailLink: "http://host/uploads/thumb.png",
				ProfileInfo:   ProfileInfo{ProfilePreviewURL: "http://host/uploads/me.png"},
			},
			want: []string{"http://host/uploads/thumb.png", "http://host/uploads/me.png"},
		},
		{
			name: "duplicates collapse",
			in: Resume{
				ThumbnailLink: "a.png",
				ProfileInfo:   ProfileInfo{ProfileImage: "a.png", ProfilePreviewURL: "a.png"},
			},
			want: []string{"a.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.AssetRefs())
		})
	}
}
