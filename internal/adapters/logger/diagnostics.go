package logger

import (
	"fmt"
	"sync"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

var _ ports.DiagnosticsSink = (*Diagnostics)(nil)

// Diagnostics renders planner diagnostics through the logger and keeps them
// for callers that want to inspect what a pass produced.
type Diagnostics struct {
	log ports.Logger

	mu       sync.Mutex
	recorded []domain.Diagnostic
}

// NewDiagnostics creates a sink rendering through the given logger.
func NewDiagnostics(log ports.Logger) *Diagnostics {
	return &Diagnostics{log: log}
}

// Emit renders and records one diagnostic.
func (d *Diagnostics) Emit(diag domain.Diagnostic) {
	d.mu.Lock()
	d.recorded = append(d.recorded, diag)
	d.mu.Unlock()

	msg := diag.Message
	if diag.Target != "" {
		msg = fmt.Sprintf("[%s] %s", diag.Target, msg)
	}
	switch diag.Severity {
	case domain.SeverityError:
		d.log.Error(fmt.Errorf("%s", msg))
	case domain.SeverityWarning:
		d.log.Warn(msg)
	default:
		d.log.Info(msg)
	}
}

// Recorded returns a copy of everything emitted so far.
func (d *Diagnostics) Recorded() []domain.Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.Diagnostic, len(d.recorded))
	copy(out, d.recorded)
	return out
}
