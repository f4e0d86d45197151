package cli

import "github.com/google/uuid"

// TraceIDGenerator produces the trace_id attached to JSON responses.
type TraceIDGenerator interface {
	Generate() string
}

// UUIDv7TraceID generates time-ordered UUIDv7 trace ids.
type UUIDv7TraceID struct{}

// Generate returns a new UUIDv7. It panics only if the system random source
// fails.
func (UUIDv7TraceID) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
