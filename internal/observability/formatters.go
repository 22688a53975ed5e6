// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/schemas"
	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintResumeSummary outputs the resume header and how many entries each
// list section holds.
func (p *Printer) PrintResumeSummary(resume *types.Resume) {
	if resume == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:     %s\n", resume.Title))
	if resume.ProfileInfo.FullName != "" {
		sb.WriteString(fmt.Sprintf("Name:      %s\n", resume.ProfileInfo.FullName))
	}
	if resume.ProfileInfo.Designation != "" {
		sb.WriteString(fmt.Sprintf("Role:      %s\n", resume.ProfileInfo.Designation))
	}
	sb.WriteString("\n")

	counts := []struct {
		label string
		n     int
	}{
		{"Experience", len(resume.WorkExperience)},
		{"Education", len(resume.Education)},
		{"Skills", len(resume.Skills)},
		{"Projects", len(resume.Projects)},
		{"Certifications", len(resume.Certifications)},
		{"Languages", len(resume.Languages)},
		{"Interests", len(resume.Interests)},
	}
	for _, c := range counts {
		sb.WriteString(fmt.Sprintf("  %-16s %d\n", c.label+":", c.n))
	}

	if len(resume.Skills) > 0 {
		sb.WriteString("\nTop skills:\n")
		count := min(len(resume.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			s := resume.Skills[i]
			if s.Name == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("  • %s (%d)\n", s.Name, s.Progress))
		}
		if len(resume.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.Skills)-maxItemsToShow))
		}
	}

	p.printBox("RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLayout outputs the template, scale and per-region geometry of a render.
func (p *Printer) PrintLayout(out *rendering.Output) {
	if out == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Template:  %s\n", out.TemplateID))
	sb.WriteString(fmt.Sprintf("Width:     %dpx (scale %.3f)\n", out.Width, out.Scale))
	sb.WriteString(fmt.Sprintf("Font size: %.2fpx\n", out.FontSize))
	sb.WriteString("\n")

	for _, r := range out.Layout {
		marker := " "
		if r.Empty {
			marker = "∅"
		}
		sb.WriteString(fmt.Sprintf("%s %-14s %-7s x=%-6.1f w=%-6.1f items=%d\n",
			marker, r.Section, r.Column, r.X, r.Width, r.Items))
	}
	sb.WriteString(fmt.Sprintf("\nHTML: %d bytes", len(out.HTML)))

	p.printBox("RENDER LAYOUT", sb.String())
}

// PrintFieldErrors outputs document validation failures.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintFieldErrors(errs []schemas.FieldError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(errs)))
	for i, e := range errs {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", e.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", e.Message))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION ERRORS", strings.TrimSuffix(sb.String(), "\n"))
}
