// internal/models/export.go
package models

import (
	"time"
)

// ExportResult wraps a script document prepared for download. Content is the
// exact JSON the operator receives; re-importing it must be accepted by the
// repository validator.
type ExportResult struct {
	ScriptID   string    `json:"script_id"`
	FileName   string    `json:"file_name"`
	Content    string    `json:"content"`
	ExportedAt time.Time `json:"exported_at"`
}
