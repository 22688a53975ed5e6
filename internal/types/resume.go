// Package types provides type definitions for structured data used throughout the resume builder.
package types

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTemplateID is the template a resume starts with.
const DefaultTemplateID = "01"

// ProfileInfo holds the resume header.
type ProfileInfo struct {
	ProfileImage      string `json:"profileImage"`
	ProfilePreviewURL string `json:"profilePreviewUrl,omitempty"`
	FullName          string `json:"fullName"`
	Designation       string `json:"designation"`
	Summary           string `json:"summary"`
}

// ContactInfo holds optional contact strings.
type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// WorkExperience is one employment entry. Order in the slice is display order.
type WorkExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Education is one education entry.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Skill is a named skill with a self-assessed progress value.
// Progress is nominally 0-100 but is stored as given.
type Skill struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// Project is a portfolio entry.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GitHub      string `json:"github"`
	LiveDemo    string `json:"liveDemo"`
}

// Certification is a certificate entry.
type Certification struct {
	Title  string `json:"title"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Language is a spoken language with a progress value (stored as given, like Skill).
type Language struct {
	Name     string `json:"name"`
	Progress int    `json:"progress"`
}

// Resume is the stored resume document. It is owned by exactly one user.
type Resume struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"ownerId"`
	Title          string           `json:"title"`
	TemplateID     string           `json:"templateId"`
	ThumbnailLink  string           `json:"thumbnailLink,omitempty"`
	ProfileInfo    ProfileInfo      `json:"profileInfo"`
	ContactInfo    ContactInfo      `json:"contactInfo"`
	WorkExperience []WorkExperience `json:"workExperience"`
	Education      []Education      `json:"education"`
	Skills         []Skill          `json:"skills"`
	Projects       []Project        `json:"projects"`
	Certifications []Certification  `json:"certifications"`
	Languages      []Language       `json:"languages"`
	Interests      []string         `json:"interests"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// NewResume returns a resume with every section at its default: records empty and
// each list seeded with a single blank placeholder entry.
func NewResume(ownerID uuid.UUID, title string) *Resume {
	return &Resume{
		OwnerID:        ownerID,
		Title:          title,
		TemplateID:     DefaultTemplateID,
		WorkExperience: []WorkExperience{{}},
		Education:      []Education{{}},
		Skills:         []Skill{{}},
		Projects:       []Project{{}},
		Certifications: []Certification{{}},
		Languages:      []Language{{}},
		Interests:      []string{""},
	}
}

// Normalize replaces nil list sections with empty ones so the document never
// encodes a list as null.
func (r *Resume) Normalize() {
	if r.WorkExperience == nil {
		r.WorkExperience = []WorkExperience{}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	if r.Certifications == nil {
		r.Certifications = []Certification{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.Interests == nil {
		r.Interests = []string{}
	}
}

// AssetRefs returns the distinct external asset references held by the resume.
func (r *Resume) AssetRefs() []string {
	candidates := []string{r.ThumbnailLink, r.ProfileInfo.ProfileImage, r.ProfileInfo.ProfilePreviewURL}
	refs := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, ref := range candidates {
		if ref == "" || seen[ref] {
			continue
		}
		seen[ref] = true
		refs = append(refs, ref)
	}
	return refs
}
