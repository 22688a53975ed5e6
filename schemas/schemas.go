// Package schemas embeds the JSON Schema documents shipped with the resume builder.
package schemas

import _ "embed"

// ResumePatch is the schema every resume create/update payload must satisfy.
//
//go:embed resume_patch.schema.json
var ResumePatch string
