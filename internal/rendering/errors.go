package rendering

import "fmt"

// TemplateError reports that the embedded template set is unusable: it failed
// to parse, or it has no definition for a template id.
type TemplateError struct {
	TemplateID TemplateID // empty when the whole set failed to parse
	Cause      error
}

func (e *TemplateError) Error() string {
	switch {
	case e.TemplateID == "":
		return fmt.Sprintf("rendering: templates failed to parse: %v", e.Cause)
	case e.Cause == nil:
		return fmt.Sprintf("rendering: template %s is not defined", e.TemplateID)
	default:
		return fmt.Sprintf("rendering: template %s: %v", e.TemplateID, e.Cause)
	}
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError wraps a failure while executing a template against a resume.
type RenderError struct {
	TemplateID TemplateID
	Cause      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering: executing template %s: %v", e.TemplateID, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
