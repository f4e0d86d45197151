package query

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/querymode/internal/ir"
)

// QueryType is the wire discriminator of a dataset query.
type QueryType string

const (
	TypeStructured QueryType = "query"
	TypeNative     QueryType = "native"
)

// Query is a native or structured query body.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
	cloneQuery() Query
	toIR() ir.IRObject
}

// Native is a raw query. Its body is carried but never inspected.
type Native struct {
	Body ir.IRObject
}

func (*Native) queryNode() {}

func (n *Native) cloneQuery() Query { return &Native{Body: n.Body.Clone()} }

func (n *Native) toIR() ir.IRObject {
	if n.Body == nil {
		return ir.IRObject{}
	}
	return n.Body
}

// Text returns the raw query text, if present.
func (n *Native) Text() string {
	s, _ := n.Body["query"].(ir.IRString)
	return string(s)
}

// DatasetQuery is the query of a card.
type DatasetQuery struct {
	Type     QueryType
	Database int64
	Query    Query // nil when the body is missing

	// extra holds keys other than type, database, query and native so they
	// survive a round trip.
	extra ir.IRObject
}

// bodyKey is the JSON key holding the body for each query type.
func (t QueryType) bodyKey() string {
	if t == TypeNative {
		return "native"
	}
	return "query"
}

// UnmarshalJSON implements json.Unmarshaler for DatasetQuery.
func (dq *DatasetQuery) UnmarshalJSON(data []byte) error {
	var obj ir.IRObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	parsed, err := DatasetQueryFromIR(obj)
	if err != nil {
		return err
	}
	*dq = parsed
	return nil
}

// DatasetQueryFromIR builds a DatasetQuery from its decoded object form.
func DatasetQueryFromIR(obj ir.IRObject) (DatasetQuery, error) {
	var dq DatasetQuery

	typ, ok := obj["type"].(ir.IRString)
	if !ok {
		return dq, fmt.Errorf("dataset_query: missing or non-string type")
	}
	dq.Type = QueryType(typ)
	if dq.Type != TypeStructured && dq.Type != TypeNative {
		return dq, fmt.Errorf("dataset_query: unknown type %q", typ)
	}

	if db, ok := ir.AsInt(obj["database"]); ok {
		dq.Database = db
	}

	if body, ok := obj[dq.Type.bodyKey()].(ir.IRObject); ok {
		body = body.Clone()
		if dq.Type == TypeNative {
			dq.Query = &Native{Body: body}
		} else {
			dq.Query = &Structured{body: body}
		}
	}

	for k, v := range obj {
		switch k {
		case "type", "database", "query", "native":
			continue
		}
		if dq.extra == nil {
			dq.extra = ir.IRObject{}
		}
		dq.extra[k] = ir.Clone(v)
	}
	return dq, nil
}

// ToIR returns the object form of the dataset query. The result never
// aliases the query body.
func (dq DatasetQuery) ToIR() ir.IRObject {
	obj := dq.extra.Clone()
	if obj == nil {
		obj = ir.IRObject{}
	}
	obj["type"] = ir.IRString(dq.Type)
	if dq.Database != 0 {
		obj["database"] = ir.IRInt(dq.Database)
	}
	if dq.Query != nil {
		obj[dq.Type.bodyKey()] = dq.Query.toIR().Clone()
	}
	return obj
}

// MarshalJSON implements json.Marshaler for DatasetQuery.
func (dq DatasetQuery) MarshalJSON() ([]byte, error) {
	return dq.ToIR().MarshalJSON()
}

// Clone returns a deep copy.
func (dq DatasetQuery) Clone() DatasetQuery {
	out := DatasetQuery{
		Type:     dq.Type,
		Database: dq.Database,
		extra:    dq.extra.Clone(),
	}
	if dq.Query != nil {
		out.Query = dq.Query.cloneQuery()
	}
	return out
}

// Card is a saved or ad-hoc question: a dataset query plus presentation.
type Card struct {
	ID                    int64        `json:"id,omitempty"`
	Name                  string       `json:"name,omitempty"`
	Display               string       `json:"display,omitempty"`
	DatasetQuery          DatasetQuery `json:"dataset_query"`
	VisualizationSettings ir.IRObject  `json:"visualization_settings,omitempty"`
}

// NewStructuredCard creates an ad-hoc structured card over a source table.
func NewStructuredCard(database, sourceTable int64) *Card {
	return &Card{
		Display: "table",
		DatasetQuery: DatasetQuery{
			Type:     TypeStructured,
			Database: database,
			Query:    NewStructured(sourceTable),
		},
	}
}

// NewNativeCard creates an ad-hoc native card.
func NewNativeCard(database int64, text string) *Card {
	return &Card{
		Display: "table",
		DatasetQuery: DatasetQuery{
			Type:     TypeNative,
			Database: database,
			Query:    &Native{Body: ir.IRObject{"query": ir.IRString(text)}},
		},
	}
}

// IsNative reports whether the card holds a native query.
func (c *Card) IsNative() bool {
	return c != nil && c.DatasetQuery.Type == TypeNative
}

// IsStructured reports whether the card holds a structured query,
// whether or not its body is present.
func (c *Card) IsStructured() bool {
	return c != nil && c.DatasetQuery.Type == TypeStructured
}

// Structured returns the structured query body, or nil.
func (c *Card) Structured() *Structured {
	if c == nil {
		return nil
	}
	s, _ := c.DatasetQuery.Query.(*Structured)
	return s
}

// Clone returns a deep copy of the card. A nil card clones to nil.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	out.DatasetQuery = c.DatasetQuery.Clone()
	out.VisualizationSettings = c.VisualizationSettings.Clone()
	return &out
}

// Fingerprint returns the content-addressed id of the card's dataset query.
func (c *Card) Fingerprint() (string, error) {
	if c == nil {
		return "", fmt.Errorf("fingerprint of nil card")
	}
	return ir.CardFingerprint(c.DatasetQuery.ToIR())
}
