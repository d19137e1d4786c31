package domain

import "time"

// BuildRecord is the persisted state of one planning pass, keyed by
// (triple, configuration, destination). The driver's cache state machine
// compares the stored signature and triple against the current inputs.
type BuildRecord struct {
	Signature     string    `json:"signature,omitzero"`
	Triple        string    `json:"triple,omitzero"`
	Configuration string    `json:"configuration,omitzero"`
	Destination   string    `json:"destination,omitzero"`
	ManifestPath  string    `json:"manifest_path,omitzero"`
	PlannedAt     time.Time `json:"planned_at,omitzero"`
}

// Diagnostic is one planner-emitted message. The planner composes message
// strings but never renders them; rendering belongs to the caller.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	// Target optionally names the target the diagnostic is about.
	Target string
	// File optionally names the file the diagnostic is about.
	File string
}

// DiagnosticSeverity grades a diagnostic.
type DiagnosticSeverity string

const (
	// SeverityWarning marks non-fatal diagnostics.
	SeverityWarning DiagnosticSeverity = "warning"
	// SeverityError marks fatal diagnostics.
	SeverityError DiagnosticSeverity = "error"
	// SeverityNote marks informational hints.
	SeverityNote DiagnosticSeverity = "note"
)
