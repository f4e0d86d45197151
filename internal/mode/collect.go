package mode

import (
	"log/slog"

	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/query"
)

// CollectActions calls every action creator of m in order and concatenates
// the results. Creators receive a fresh copy of card. A nil argument yields
// an empty slice.
func CollectActions(m *Mode, card *query.Card, md *metadata.TableMetadata) []ClickAction {
	if m == nil || card == nil || md == nil {
		return []ClickAction{}
	}
	props := Props{Card: card.Clone(), Metadata: md}
	return collect(m.Kind, "actions", m.Actions, props)
}

// CollectDrills is CollectActions for the drill creators of m. clicked is
// required.
func CollectDrills(m *Mode, card *query.Card, md *metadata.TableMetadata, clicked *ClickObject) []ClickAction {
	if m == nil || card == nil || md == nil || clicked == nil {
		return []ClickAction{}
	}
	props := Props{Card: card.Clone(), Metadata: md, Clicked: clicked}
	return collect(m.Kind, "drills", m.Drills, props)
}

func collect(kind Kind, list string, creators []ActionCreator, props Props) []ClickAction {
	out := []ClickAction{}
	for _, c := range creators {
		produced := c.Create(props)
		slog.Debug("creator ran",
			"mode", kind.String(),
			"list", list,
			"creator", c.Name(),
			"count", len(produced))
		out = append(out, produced...)
	}
	return out
}
