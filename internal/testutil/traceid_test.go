package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedTraceID(t *testing.T) {
	gen := NewFixedTraceID("abc")
	assert.Equal(t, "abc", gen.Generate())
	assert.Equal(t, "abc", gen.Generate())
}

func TestFixedTraceID_EmptyUsesDefault(t *testing.T) {
	assert.Equal(t, "test-trace-default", NewFixedTraceID("").Generate())
}

func TestSequenceTraceID(t *testing.T) {
	gen := NewSequenceTraceID()
	assert.Equal(t, int64(0), gen.Issued())
	assert.Equal(t, "trace-0001", gen.Generate())
	assert.Equal(t, "trace-0002", gen.Generate())
	assert.Equal(t, int64(2), gen.Issued())

	gen.Reset()
	assert.Equal(t, "trace-0001", gen.Generate())
}

func TestSequenceTraceID_Concurrent(t *testing.T) {
	gen := NewSequenceTraceID()
	seen := sync.Map{}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := gen.Generate()
			_, dup := seen.LoadOrStore(id, true)
			assert.False(t, dup, "duplicate id %s", id)
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(50), gen.Issued())
}
