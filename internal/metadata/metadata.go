// Package metadata describes the tables and fields a structured query runs
// against, and classifies each field into one semantic type.
//
// The semantic predicates (IsDate, IsAddress, IsCategory, IsPK) are pure
// functions over a *Field. A nil field fails every predicate, which is how
// unresolvable field references fall through classification rules.
package metadata

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SemanticType is the single classification a field carries.
type SemanticType int

const (
	SemanticNone SemanticType = iota
	SemanticDate
	SemanticAddress
	SemanticCategory
	SemanticPK
)

var semanticNames = map[SemanticType]string{
	SemanticNone:     "none",
	SemanticDate:     "date",
	SemanticAddress:  "address",
	SemanticCategory: "category",
	SemanticPK:       "pk",
}

// String returns the lower-case name used in documents.
func (s SemanticType) String() string {
	if name, ok := semanticNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SemanticType(%d)", int(s))
}

// ParseSemanticType parses a semantic type name. The empty string is none.
func ParseSemanticType(name string) (SemanticType, error) {
	if name == "" {
		return SemanticNone, nil
	}
	for st, n := range semanticNames {
		if strings.EqualFold(n, name) {
			return st, nil
		}
	}
	return SemanticNone, fmt.Errorf("unknown semantic type %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s SemanticType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SemanticType) UnmarshalText(text []byte) error {
	st, err := ParseSemanticType(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Base and special type names as they appear in field metadata.
const (
	TypeDateTime      = "type/DateTime"
	TypeDate          = "type/Date"
	TypeTime          = "type/Time"
	TypeBoolean       = "type/Boolean"
	TypePK            = "type/PK"
	TypeFK            = "type/FK"
	TypeCategory      = "type/Category"
	TypeName          = "type/Name"
	TypeAddress       = "type/Address"
	TypeCity          = "type/City"
	TypeState         = "type/State"
	TypeCountry       = "type/Country"
	TypeZipCode       = "type/ZipCode"
	TypeUNIXTimestamp = "type/UNIXTimestamp"
	TypeISO8601String = "type/ISO8601DateTimeString"
)

var addressTypes = map[string]bool{
	TypeAddress: true,
	TypeCity:    true,
	TypeState:   true,
	TypeCountry: true,
	TypeZipCode: true,
}

// Field describes one column of a table.
type Field struct {
	ID          int64        `json:"id" validate:"gt=0"`
	TableID     int64        `json:"table_id" validate:"gt=0"`
	Name        string       `json:"name" validate:"required"`
	DisplayName string       `json:"display_name,omitempty"`
	BaseType    string       `json:"base_type,omitempty"`
	SpecialType string       `json:"special_type,omitempty"`
	Semantic    SemanticType `json:"semantic,omitempty"`
	TargetID    int64        `json:"fk_target_field_id,omitempty"`
}

// UnmarshalJSON decodes a field and derives its semantic type when the
// document does not state one.
func (f *Field) UnmarshalJSON(data []byte) error {
	type plain Field
	var raw struct {
		plain
		Semantic *SemanticType `json:"semantic,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Field(raw.plain)
	if raw.Semantic != nil {
		f.Semantic = *raw.Semantic
	} else {
		f.Semantic = Classify(f)
	}
	return nil
}

// Label returns the display name, falling back to the column name.
func (f *Field) Label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// Classify derives a semantic type from base and special types.
// Precedence is PK > Date > Address > Category.
func Classify(f *Field) SemanticType {
	if f == nil {
		return SemanticNone
	}
	switch {
	case f.SpecialType == TypePK:
		return SemanticPK
	case isDateType(f.BaseType) || strings.HasPrefix(f.SpecialType, TypeUNIXTimestamp) || f.SpecialType == TypeISO8601String:
		return SemanticDate
	case addressTypes[f.SpecialType]:
		return SemanticAddress
	case f.SpecialType == TypeCategory || f.SpecialType == TypeName || f.BaseType == TypeBoolean:
		return SemanticCategory
	}
	return SemanticNone
}

// isDateType matches the temporal base types and their children,
// e.g. type/DateTimeWithTZ.
func isDateType(baseType string) bool {
	return strings.HasPrefix(baseType, TypeDateTime) ||
		baseType == TypeDate ||
		baseType == TypeTime
}

// IsDate reports whether f is a date field.
func IsDate(f *Field) bool { return f != nil && f.Semantic == SemanticDate }

// IsAddress reports whether f is an address field.
func IsAddress(f *Field) bool { return f != nil && f.Semantic == SemanticAddress }

// IsCategory reports whether f is a category field.
func IsCategory(f *Field) bool { return f != nil && f.Semantic == SemanticCategory }

// IsPK reports whether f is a primary key.
func IsPK(f *Field) bool { return f != nil && f.Semantic == SemanticPK }

// IsNumeric reports whether f holds numbers.
func IsNumeric(f *Field) bool {
	if f == nil {
		return false
	}
	switch f.BaseType {
	case "type/Integer", "type/BigInteger", "type/Float", "type/Decimal", "type/Number":
		return true
	}
	return false
}

// Table is a table with its fields.
type Table struct {
	ID          int64    `json:"id" validate:"gt=0"`
	DBID        int64    `json:"db_id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	DisplayName string   `json:"display_name,omitempty"`
	Fields      []*Field `json:"fields" validate:"dive"`
}

// TableMetadata is the source table of a query plus the tables its foreign
// keys point at. Field lookups span all of them.
type TableMetadata struct {
	Table
	Related []*Table `json:"related,omitempty" validate:"dive"`

	lookup map[int64]*Field
}

// Index builds the field lookup used by Field. Unindexed metadata falls back
// to a scan. Own fields win over related fields with the same id.
func (md *TableMetadata) Index() *TableMetadata {
	md.lookup = make(map[int64]*Field)
	for _, t := range md.Related {
		if t == nil {
			continue
		}
		for _, f := range t.Fields {
			if f != nil {
				md.lookup[f.ID] = f
			}
		}
	}
	for _, f := range md.Fields {
		if f != nil {
			md.lookup[f.ID] = f
		}
	}
	return md
}

// Field returns the field with the given id, or nil.
func (md *TableMetadata) Field(id int64) *Field {
	if md == nil {
		return nil
	}
	if md.lookup != nil {
		return md.lookup[id]
	}
	// Not indexed: scan without writing so concurrent readers stay safe.
	for _, f := range md.Fields {
		if f != nil && f.ID == id {
			return f
		}
	}
	for _, t := range md.Related {
		if t == nil {
			continue
		}
		for _, f := range t.Fields {
			if f != nil && f.ID == id {
				return f
			}
		}
	}
	return nil
}

// FieldsOf returns the source table's own fields matching pred, in
// declaration order.
func (md *TableMetadata) FieldsOf(pred func(*Field) bool) []*Field {
	if md == nil {
		return nil
	}
	var out []*Field
	for _, f := range md.Fields {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// PrimaryKey returns the first PK field of the source table, or nil.
func (md *TableMetadata) PrimaryKey() *Field {
	if pks := md.FieldsOf(IsPK); len(pks) > 0 {
		return pks[0]
	}
	return nil
}

// NewField creates a field with an explicit semantic type.
func NewField(id, tableID int64, name string, semantic SemanticType) *Field {
	return &Field{
		ID:       id,
		TableID:  tableID,
		Name:     name,
		Semantic: semantic,
	}
}
