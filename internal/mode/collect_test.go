package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/query"
	"github.com/roach88/querymode/internal/testutil"
)

func fixed(name string, actions ...ClickAction) ActionCreator {
	return NewCreator(name, func(Props) []ClickAction { return actions })
}

// mutating adds a breakout to the card it receives and reports how many
// breakouts it saw beforehand.
func mutating(seen *[]int) ActionCreator {
	return NewCreator("mutating", func(p Props) []ClickAction {
		q := p.Card.Structured()
		*seen = append(*seen, len(q.Breakouts()))
		q.AddBreakout(query.FieldRef(testutil.OrdersStatus))
		return []ClickAction{{Name: "mutated", Card: p.Card}}
	})
}

func TestCollectActions_FlattensInOrder(t *testing.T) {
	a := ClickAction{Name: "a"}
	b := ClickAction{Name: "b"}
	c := ClickAction{Name: "c"}
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{fixed("f1", a, b), fixed("f2", c)}}

	got := CollectActions(m, testutil.CountCard(), testutil.OrdersMetadata())
	assert.Equal(t, []ClickAction{a, b, c}, got)
}

func TestCollectActions_EmptyCreators(t *testing.T) {
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{fixed("none"), fixed("one", ClickAction{Name: "x"}), fixed("none")}}

	got := CollectActions(m, testutil.CountCard(), testutil.OrdersMetadata())
	assert.Equal(t, []ClickAction{{Name: "x"}}, got)
}

func TestCollectActions_MissingArguments(t *testing.T) {
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{fixed("f", ClickAction{Name: "a"})}}
	card := testutil.CountCard()
	md := testutil.OrdersMetadata()

	tests := []struct {
		name string
		mode *Mode
		card *query.Card
		md   *metadata.TableMetadata
	}{
		{"no mode", nil, card, md},
		{"no card", m, nil, md},
		{"no metadata", m, card, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CollectActions(tt.mode, tt.card, tt.md)
			require.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestCollectDrills_MissingArguments(t *testing.T) {
	m := &Mode{Kind: KindDefault, Drills: []ActionCreator{fixed("f", ClickAction{Name: "a"})}}
	card := testutil.CountCard()
	md := testutil.OrdersMetadata()
	clicked := &ClickObject{Value: ir.IRInt(1)}

	assert.Empty(t, CollectDrills(nil, card, md, clicked))
	assert.Empty(t, CollectDrills(m, nil, md, clicked))
	assert.Empty(t, CollectDrills(m, card, nil, clicked))

	got := CollectDrills(m, card, md, nil)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollectDrills_PassesClickContext(t *testing.T) {
	clicked := &ClickObject{Value: ir.IRInt(42), Column: &Column{Name: "TOTAL"}}
	var got *ClickObject
	m := &Mode{Kind: KindDefault, Drills: []ActionCreator{
		NewCreator("capture", func(p Props) []ClickAction {
			got = p.Clicked
			return nil
		}),
	}}

	CollectDrills(m, testutil.CountCard(), testutil.OrdersMetadata(), clicked)
	assert.Same(t, clicked, got)
}

func TestCollectActions_NoClickContext(t *testing.T) {
	var got Props
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{
		NewCreator("capture", func(p Props) []ClickAction {
			got = p
			return nil
		}),
	}}
	md := testutil.OrdersMetadata()

	CollectActions(m, testutil.CountCard(), md)
	assert.Nil(t, got.Clicked)
	assert.Same(t, md, got.Metadata)
}

func TestCollectActions_CopyIsolation(t *testing.T) {
	var seen []int
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{mutating(&seen)}}
	card := testutil.CountCard()
	before := card.DatasetQuery.ToIR()
	md := testutil.OrdersMetadata()

	first := CollectActions(m, card, md)
	second := CollectActions(m, card, md)

	assert.Equal(t, []int{0, 0}, seen, "each call must see an unmodified copy")
	assert.True(t, ir.Equal(before, card.DatasetQuery.ToIR()), "caller's card must not change")
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.NotSame(t, first[0].Card, second[0].Card)
	assert.NotSame(t, card, first[0].Card)
}

func TestCollect_ActionsAndDrillsGetSeparateCopies(t *testing.T) {
	var seen []int
	m := &Mode{
		Kind:    KindDefault,
		Actions: []ActionCreator{mutating(&seen)},
		Drills:  []ActionCreator{mutating(&seen)},
	}
	card := testutil.CountCard()
	md := testutil.OrdersMetadata()

	CollectActions(m, card, md)
	CollectDrills(m, card, md, &ClickObject{Value: ir.IRInt(1)})

	assert.Equal(t, []int{0, 0}, seen)
}

func TestCollectActions_CreatorsShareOneCopyPerCall(t *testing.T) {
	var seen []int
	m := &Mode{Kind: KindDefault, Actions: []ActionCreator{mutating(&seen), mutating(&seen)}}

	CollectActions(m, testutil.CountCard(), testutil.OrdersMetadata())

	assert.Equal(t, []int{0, 1}, seen)
}

func TestClickAction_ID(t *testing.T) {
	a := ClickAction{Name: "underlying-data", Card: testutil.CountCard()}
	b := ClickAction{Name: "underlying-data", Card: testutil.CountCard()}

	idA, err := a.ID()
	require.NoError(t, err)
	idB, err := b.ID()
	require.NoError(t, err)
	assert.Equal(t, idA, idB)

	b.Card.Structured().AddBreakout(query.FieldRef(testutil.OrdersStatus))
	idB, err = b.ID()
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	noCard, err := ClickAction{Name: "underlying-data"}.ID()
	require.NoError(t, err)
	assert.NotEqual(t, idA, noCard)
}
