// Package loader reads cards, table metadata and click objects from JSON,
// YAML or CUE files. Every document is unified with an embedded CUE schema
// and must be concrete before it is decoded.
package loader

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

//go:embed schema.cue
var schemaSource []byte

// Schema definitions a document can be checked against.
const (
	DefCard     = "#Card"
	DefMetadata = "#TableMetadata"
	DefClick    = "#ClickObject"
)

// Error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E004" // File could not be read or parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Schema or document failed to build
	ErrCodeFormat      = "E010" // Unsupported file extension
	ErrCodeSchema      = "E011" // Document violates the schema
	ErrCodeDecode      = "E012" // Validated document did not decode
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Loader checks documents against the schema. A Loader owns a CUE context
// and is not safe for concurrent use.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// New compiles the embedded schema.
func New() (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("compiling schema: %v", err)}
	}
	return &Loader{ctx: ctx, schema: schema}, nil
}

// File parses a .json, .yaml, .yml or .cue file into a CUE value.
func (l *Loader) File(path string) (cue.Value, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cue.Value{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path)}
	}
	if err != nil {
		return cue.Value{}, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var v cue.Value
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".cue":
		// JSON is valid CUE, and compiling it keeps source positions.
		v = l.ctx.CompileBytes(data, cue.Filename(path))
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return cue.Value{}, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("parsing %s: %v", path, err)}
		}
		v = l.ctx.Encode(doc)
	default:
		return cue.Value{}, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unsupported file type %q: %s", filepath.Ext(path), path)}
	}

	if err := v.Err(); err != nil {
		return cue.Value{}, cueError(ErrCodeReadFailed, err)
	}
	return v, nil
}

// Value converts an already decoded document (for example a YAML subtree)
// into a CUE value.
func (l *Loader) Value(doc any) (cue.Value, error) {
	v := l.ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return cue.Value{}, cueError(ErrCodeBuildFailed, err)
	}
	return v, nil
}

// Decode unifies doc with the schema definition def, requires the result
// to be concrete, and decodes it into out through JSON.
func (l *Loader) Decode(def string, doc cue.Value, out any) error {
	schema := l.schema.LookupPath(cue.ParsePath(def))
	if !schema.Exists() {
		return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("unknown schema definition %s", def)}
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueError(ErrCodeSchema, err)
	}

	data, err := unified.MarshalJSON()
	if err != nil {
		return cueError(ErrCodeSchema, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &LoadError{Code: ErrCodeDecode, Message: fmt.Sprintf("decoding %s: %v", def, err)}
	}
	return nil
}

// Card decodes a card document.
func (l *Loader) Card(doc cue.Value) (*query.Card, error) {
	var card query.Card
	if err := l.Decode(DefCard, doc, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Metadata decodes and indexes a table metadata document.
func (l *Loader) Metadata(doc cue.Value) (*metadata.TableMetadata, error) {
	var md metadata.TableMetadata
	if err := l.Decode(DefMetadata, doc, &md); err != nil {
		return nil, err
	}
	return md.Index(), nil
}

// Click decodes a click object document.
func (l *Loader) Click(doc cue.Value) (*mode.ClickObject, error) {
	var clicked mode.ClickObject
	if err := l.Decode(DefClick, doc, &clicked); err != nil {
		return nil, err
	}
	return &clicked, nil
}

// LoadCard reads a card file.
func LoadCard(path string) (*query.Card, error) {
	return loadFile(path, (*Loader).Card)
}

// LoadMetadata reads a table metadata file.
func LoadMetadata(path string) (*metadata.TableMetadata, error) {
	return loadFile(path, (*Loader).Metadata)
}

// LoadClick reads a click object file.
func LoadClick(path string) (*mode.ClickObject, error) {
	return loadFile(path, (*Loader).Click)
}

func loadFile[T any](path string, decode func(*Loader, cue.Value) (T, error)) (T, error) {
	var zero T
	l, err := New()
	if err != nil {
		return zero, err
	}
	v, err := l.File(path)
	if err != nil {
		return zero, err
	}
	return decode(l, v)
}

// cueError converts a CUE error to a LoadError, keeping the first position.
func cueError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	msg := first.Error()
	if len(errs) > 1 {
		msg = fmt.Sprintf("%s (and %d more errors)", msg, len(errs)-1)
	}
	return &LoadError{Code: code, Message: msg, Pos: first.Position()}
}
