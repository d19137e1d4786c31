package ports

import "go.trai.ch/forge/internal/core/domain"

// DiagnosticsSink receives planner-composed diagnostics. Implementations own
// rendering; the planner only composes message strings.
//
//go:generate go run go.uber.org/mock/mockgen -source=diagnostics.go -destination=mocks/mock_diagnostics.go -package=mocks
type DiagnosticsSink interface {
	Emit(d domain.Diagnostic)
}
