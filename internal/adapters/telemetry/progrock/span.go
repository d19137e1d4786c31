package progrock

import (
	"fmt"

	"github.com/vito/progrock"
)

// Span implements ports.Span wrapping *progrock.VertexRecorder.
type Span struct {
	vertex *progrock.VertexRecorder
	err    error
}

// Write streams span output to the vertex's stdout.
func (s *Span) Write(p []byte) (n int, err error) {
	return s.vertex.Stdout().Write(p)
}

// End completes the vertex, carrying any recorded error.
func (s *Span) End() {
	s.vertex.Done(s.err)
}

// RecordError records an error to report when the span ends.
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.err = err
	_, _ = fmt.Fprintf(s.vertex.Stderr(), "error: %v\n", err)
}

// SetAttribute logs a key-value pair on the vertex.
func (s *Span) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}
