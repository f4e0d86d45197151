package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardFingerprintDeterminism(t *testing.T) {
	q1 := IRObject{
		"type":     IRString("query"),
		"database": IRInt(1),
		"query":    IRObject{"source_table": IRInt(10), "aggregation": IRArray{IRString("count")}},
	}
	// Same content, built in a different order
	q2 := IRObject{
		"query":    IRObject{"aggregation": IRArray{IRString("count")}, "source_table": IRInt(10)},
		"database": IRInt(1),
		"type":     IRString("query"),
	}

	id1, err := CardFingerprint(q1)
	require.NoError(t, err)
	id2, err := CardFingerprint(q2)
	require.NoError(t, err)

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestCardFingerprintChangesWithQuery(t *testing.T) {
	id1, err := CardFingerprint(IRObject{"query": IRObject{"source_table": IRInt(1)}})
	require.NoError(t, err)
	id2, err := CardFingerprint(IRObject{"query": IRObject{"source_table": IRInt(2)}})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
}

func TestActionIDDomainSeparation(t *testing.T) {
	fp, err := CardFingerprint(IRObject{})
	require.NoError(t, err)

	a1, err := ActionID("sort", fp)
	require.NoError(t, err)
	a2, err := ActionID("quick-filter", fp)
	require.NoError(t, err)
	a3, err := ActionID("sort", "")
	require.NoError(t, err)

	assert.NotEqual(t, a1, a2)
	assert.NotEqual(t, a1, a3)
	assert.NotEqual(t, fp, a3, "action and card domains never collide")
}
