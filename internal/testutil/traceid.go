package testutil

import (
	"fmt"
	"sync"
)

// FixedTraceID returns the same trace id every time.
//
// Golden CLI output depends on the trace id, so tests that compare JSON
// responses byte-for-byte use this instead of a UUIDv7 generator.
type FixedTraceID struct {
	id string
}

// NewFixedTraceID creates a fixed generator. An empty id becomes
// "test-trace-default".
func NewFixedTraceID(id string) *FixedTraceID {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceID{id: id}
}

// Generate returns the fixed id.
func (g *FixedTraceID) Generate() string {
	return g.id
}

// SequenceTraceID hands out "trace-0001", "trace-0002", ... and can be reset
// so a test can replay the same command sequence.
//
// Safe for concurrent use.
type SequenceTraceID struct {
	mu  sync.Mutex
	seq int64
}

// NewSequenceTraceID creates a generator whose first id is "trace-0001".
func NewSequenceTraceID() *SequenceTraceID {
	return &SequenceTraceID{}
}

// Generate returns the next id in the sequence.
func (g *SequenceTraceID) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("trace-%04d", g.seq)
}

// Issued returns how many ids have been generated since the last reset.
func (g *SequenceTraceID) Issued() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.seq
}

// Reset restarts the sequence.
func (g *SequenceTraceID) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
