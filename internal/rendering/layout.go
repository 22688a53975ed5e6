package rendering

import "math"

// BaseWidth is the container width, in pixels, every layout is designed for.
const BaseWidth = 800

const (
	baseFontSize = 14
	basePadding  = 24
	narrowPad    = 16
)

// Section names a resume region. The order of Sections is the order regions
// appear in every layout.
type Section string

const (
	SectionHeader         Section = "header"
	SectionContact        Section = "contact"
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
	SectionLanguages      Section = "languages"
	SectionInterests      Section = "interests"
)

// Sections is the fixed region order.
var Sections = []Section{
	SectionHeader,
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionLanguages,
	SectionInterests,
}

var sectionTitles = map[Section]string{
	SectionHeader:         "",
	SectionContact:        "Contact",
	SectionSummary:        "Professional Summary",
	SectionExperience:     "Work Experience",
	SectionEducation:      "Education",
	SectionSkills:         "Skills",
	SectionProjects:       "Projects",
	SectionCertifications: "Certifications",
	SectionLanguages:      "Languages",
	SectionInterests:      "Interests",
}

// column is a vertical band of a layout at base width.
type column struct {
	name  string
	x     float64
	width float64
	pad   float64
}

// layoutSpec assigns every section to a column.
type layoutSpec struct {
	columns []column
	place   map[Section]string
}

// Region is one positioned block of a rendered resume.
type Region struct {
	Section Section `json:"section"`
	Title   string  `json:"title"`
	Column  string  `json:"column"`
	X       float64 `json:"x"`
	Width   float64 `json:"width"`
	Padding float64 `json:"padding"`
	Empty   bool    `json:"empty"`
	Items   int     `json:"items"`
}

func layoutFor(id TemplateID) layoutSpec {
	full := column{name: "full", x: 0, width: BaseWidth, pad: basePadding}

	switch id {
	case TemplatePrimary:
		return layoutSpec{
			columns: []column{full},
			place:   placeAll(full.name),
		}
	case TemplateSecondary:
		sidebar := column{name: "sidebar", x: 0, width: 260, pad: narrowPad}
		mainCol := column{name: "main", x: 260, width: 540, pad: basePadding}
		return layoutSpec{
			columns: []column{full, sidebar, mainCol},
			place: map[Section]string{
				SectionHeader:         full.name,
				SectionContact:        sidebar.name,
				SectionSummary:        mainCol.name,
				SectionExperience:     mainCol.name,
				SectionEducation:      mainCol.name,
				SectionSkills:         sidebar.name,
				SectionProjects:       mainCol.name,
				SectionCertifications: mainCol.name,
				SectionLanguages:      sidebar.name,
				SectionInterests:      sidebar.name,
			},
		}
	case TemplateTertiary:
		left := column{name: "left", x: 0, width: 480, pad: basePadding}
		right := column{name: "right", x: 480, width: 320, pad: narrowPad}
		return layoutSpec{
			columns: []column{full, left, right},
			place: map[Section]string{
				SectionHeader:         full.name,
				SectionContact:        full.name,
				SectionSummary:        full.name,
				SectionExperience:     left.name,
				SectionEducation:      right.name,
				SectionSkills:         right.name,
				SectionProjects:       left.name,
				SectionCertifications: right.name,
				SectionLanguages:      right.name,
				SectionInterests:      right.name,
			},
		}
	default:
		return layoutFor(DefaultTemplate)
	}
}

func placeAll(columnName string) map[Section]string {
	place := make(map[Section]string, len(Sections))
	for _, s := range Sections {
		place[s] = columnName
	}
	return place
}

func (l layoutSpec) column(name string) column {
	for _, c := range l.columns {
		if c.name == name {
			return c
		}
	}
	return l.columns[0]
}

// regions lays out every section at the given scale. items reports how many
// non-blank entries each section holds.
func (l layoutSpec) regions(scale float64, items map[Section]int) []Region {
	regions := make([]Region, 0, len(Sections))
	for _, s := range Sections {
		c := l.column(l.place[s])
		regions = append(regions, Region{
			Section: s,
			Title:   sectionTitles[s],
			Column:  c.name,
			X:       round2(c.x * scale),
			Width:   round2(c.width * scale),
			Padding: round2(c.pad * scale),
			Empty:   items[s] == 0,
			Items:   items[s],
		})
	}
	return regions
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
