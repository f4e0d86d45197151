package mode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_StringRoundTrip(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestParseKind_CaseInsensitive(t *testing.T) {
	k, err := ParseKind("TimeSeries")
	require.NoError(t, err)
	assert.Equal(t, KindTimeseries, k)
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("table")
	assert.Error(t, err)
}

func TestKind_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Kind{"mode": KindGeo})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"geo"}`, string(data))

	var decoded struct {
		Mode Kind `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"pivot"}`), &decoded))
	assert.Equal(t, KindPivot, decoded.Mode)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"bogus"}`), &decoded))
}

func TestKind_UnknownString(t *testing.T) {
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func allModes() []*Mode {
	modes := make([]*Mode, 0, len(Kinds))
	for _, k := range Kinds {
		modes = append(modes, &Mode{Kind: k})
	}
	return modes
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(allModes()...)
	require.NoError(t, err)

	got := r.Modes()
	require.Len(t, got, len(Kinds))
	for i, k := range Kinds {
		assert.Equal(t, k, got[i].Kind)
		assert.Same(t, got[i], r.Get(k))
	}
}

func TestNewRegistry_Missing(t *testing.T) {
	modes := allModes()
	_, err := NewRegistry(modes[:len(modes)-1]...)
	assert.ErrorContains(t, err, "missing mode default")
}

func TestNewRegistry_Duplicate(t *testing.T) {
	modes := append(allModes(), &Mode{Kind: KindGeo})
	_, err := NewRegistry(modes...)
	assert.ErrorContains(t, err, "duplicate mode geo")
}

func TestNewRegistry_Nil(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)
}

func TestMustRegistry_Panics(t *testing.T) {
	assert.Panics(t, func() { MustRegistry() })
}

func TestClickObject_IsHeader(t *testing.T) {
	var nilClick *ClickObject
	assert.False(t, nilClick.IsHeader())
	assert.True(t, (&ClickObject{Column: &Column{Name: "TOTAL"}}).IsHeader())
	assert.False(t, (&ClickObject{}).IsHeader())
}

func TestCreatorFunc(t *testing.T) {
	c := NewCreator("x", func(Props) []ClickAction {
		return []ClickAction{{Name: "x"}}
	})
	assert.Equal(t, "x", c.Name())
	assert.Equal(t, []ClickAction{{Name: "x"}}, c.Create(Props{}))
}
