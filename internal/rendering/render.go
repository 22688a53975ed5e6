// Package rendering lays out resumes with one of the built-in visual templates
// and renders them to HTML.
package rendering

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// Parsed once; html/template sets are safe for concurrent execution.
var templateSet, templateErr = parseTemplates()

func parseTemplates() (*template.Template, error) {
	return template.New("resume").Funcs(template.FuncMap{
		"barWidth": barWidth,
	}).ParseFS(templateFS, "templates/*.html")
}

// Output is a rendered resume.
type Output struct {
	TemplateID TemplateID `json:"templateId"`
	Width      int        `json:"width"`
	Scale      float64    `json:"scale"`
	FontSize   float64    `json:"fontSize"`
	Layout     []Region   `json:"layout"`
	HTML       string     `json:"html"`
}

// Render lays out resume with the template named by templateID at the given
// container width. Unknown template ids use DefaultTemplate and a width <= 0
// uses BaseWidth. A nil resume renders as an empty one. The result depends
// only on the arguments.
func Render(resume *types.Resume, templateID string, containerWidth int) (*Output, error) {
	if templateErr != nil {
		return nil, &TemplateError{Cause: templateErr}
	}
	if resume == nil {
		resume = &types.Resume{}
	}

	id := ParseTemplateID(templateID)
	width := containerWidth
	if width <= 0 {
		width = BaseWidth
	}
	scale := float64(width) / BaseWidth

	c := collect(resume)
	regions := layoutFor(id).regions(scale, c.counts())

	out := &Output{
		TemplateID: id,
		Width:      width,
		Scale:      scale,
		FontSize:   round2(baseFontSize * scale),
		Layout:     regions,
	}

	name := "template-" + string(id)
	tmpl := templateSet.Lookup(name)
	if tmpl == nil {
		return nil, &TemplateError{TemplateID: id}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDocumentView(out, layoutFor(id), scale, c)); err != nil {
		return nil, &RenderError{TemplateID: id, Cause: err}
	}
	out.HTML = buf.String()
	return out, nil
}

// content is the resume with blank placeholder entries removed.
type content struct {
	Title          string
	Profile        types.ProfileInfo
	Contact        types.ContactInfo
	Experience     []types.WorkExperience
	Education      []types.Education
	Skills         []types.Skill
	Projects       []types.Project
	Certifications []types.Certification
	Languages      []types.Language
	Interests      []string
}

func collect(r *types.Resume) *content {
	c := &content{
		Title:   r.Title,
		Profile: r.ProfileInfo,
		Contact: r.ContactInfo,
	}
	for _, e := range r.WorkExperience {
		if !blank(e.Company, e.Role, e.StartDate, e.EndDate, e.Description) {
			c.Experience = append(c.Experience, e)
		}
	}
	for _, e := range r.Education {
		if !blank(e.Degree, e.Institution, e.StartDate, e.EndDate) {
			c.Education = append(c.Education, e)
		}
	}
	for _, s := range r.Skills {
		if !blank(s.Name) || s.Progress != 0 {
			c.Skills = append(c.Skills, s)
		}
	}
	for _, p := range r.Projects {
		if !blank(p.Title, p.Description, p.GitHub, p.LiveDemo) {
			c.Projects = append(c.Projects, p)
		}
	}
	for _, cert := range r.Certifications {
		if !blank(cert.Title, cert.Issuer, cert.Year) {
			c.Certifications = append(c.Certifications, cert)
		}
	}
	for _, l := range r.Languages {
		if !blank(l.Name) || l.Progress != 0 {
			c.Languages = append(c.Languages, l)
		}
	}
	for _, i := range r.Interests {
		if !blank(i) {
			c.Interests = append(c.Interests, i)
		}
	}
	return c
}

func (c *content) counts() map[Section]int {
	header := 0
	if !blank(c.Profile.FullName, c.Profile.Designation, c.Profile.ProfileImage) {
		header = 1
	}
	contact := 0
	for _, v := range []string{c.Contact.Email, c.Contact.Phone, c.Contact.Location, c.Contact.LinkedIn, c.Contact.GitHub, c.Contact.Website} {
		if !blank(v) {
			contact++
		}
	}
	summary := 0
	if !blank(c.Profile.Summary) {
		summary = 1
	}
	return map[Section]int{
		SectionHeader:         header,
		SectionContact:        contact,
		SectionSummary:        summary,
		SectionExperience:     len(c.Experience),
		SectionEducation:      len(c.Education),
		SectionSkills:         len(c.Skills),
		SectionProjects:       len(c.Projects),
		SectionCertifications: len(c.Certifications),
		SectionLanguages:      len(c.Languages),
		SectionInterests:      len(c.Interests),
	}
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// barWidth clamps a progress value for display. Stored values are never clamped.
func barWidth(progress int) int {
	switch {
	case progress < 0:
		return 0
	case progress > 100:
		return 100
	default:
		return progress
	}
}

type documentView struct {
	TemplateID TemplateID
	Title      string
	Width      int
	FontSize   float64
	Full       *columnView
	Columns    []*columnView
}

type columnView struct {
	Name    string
	X       float64
	Width   float64
	Regions []regionView
}

type regionView struct {
	Region
	C *content
}

func newDocumentView(out *Output, lay layoutSpec, scale float64, c *content) *documentView {
	byName := make(map[string]*columnView, len(lay.columns))
	doc := &documentView{
		TemplateID: out.TemplateID,
		Title:      c.Title,
		Width:      out.Width,
		FontSize:   out.FontSize,
	}
	for _, col := range lay.columns {
		cv := &columnView{Name: col.name, X: round2(col.x * scale), Width: round2(col.width * scale)}
		byName[col.name] = cv
		if col.name == "full" {
			doc.Full = cv
			continue
		}
		doc.Columns = append(doc.Columns, cv)
	}
	for _, r := range out.Layout {
		cv := byName[r.Column]
		cv.Regions = append(cv.Regions, regionView{Region: r, C: c})
	}
	return doc
}
