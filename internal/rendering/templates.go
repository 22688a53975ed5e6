package rendering

import "strings"

// TemplateID identifies one of the closed set of visual templates.
type TemplateID string

const (
	// TemplatePrimary is a single-column layout.
	TemplatePrimary TemplateID = "01"
	// TemplateSecondary places contact, skills, languages and interests in a left sidebar.
	TemplateSecondary TemplateID = "02"
	// TemplateTertiary has a header band over two content columns.
	TemplateTertiary TemplateID = "03"

	// DefaultTemplate is used for any identifier outside the closed set.
	DefaultTemplate = TemplatePrimary
)

// Templates lists every known template in display order.
var Templates = []TemplateID{TemplatePrimary, TemplateSecondary, TemplateTertiary}

// ParseTemplateID maps a client supplied identifier onto the closed set.
// Legacy names are accepted; anything unrecognized, including "", falls back
// to DefaultTemplate.
func ParseTemplateID(s string) TemplateID {
	switch strings.TrimSpace(s) {
	case "01", "templateOne", "modern":
		return TemplatePrimary
	case "02", "templateTwo":
		return TemplateSecondary
	case "03", "templateThree":
		return TemplateTertiary
	default:
		return DefaultTemplate
	}
}

func (t TemplateID) String() string {
	return string(t)
}
