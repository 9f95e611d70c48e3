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

// End completes the vertex with the last recorded error, if any.
func (s *Span) End() {
	s.vertex.Done(s.err)
}

// RecordError records an error for the vertex.
func (s *Span) RecordError(err error) {
	s.err = err
}

// SetAttribute writes a key-value pair to the vertex output stream.
func (s *Span) SetAttribute(key string, value any) {
	_, _ = fmt.Fprintf(s.vertex.Stdout(), "%s=%v\n", key, value)
}
