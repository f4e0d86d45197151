package harness

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/querymode/internal/actions"
	"github.com/roach88/querymode/internal/loader"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

// Harness runs scenarios against a mode registry.
type Harness struct {
	registry *mode.Registry
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry replaces the built-in registry.
func WithRegistry(r *mode.Registry) Option {
	return func(h *Harness) { h.registry = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a harness over the built-in registry.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: actions.DefaultRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(scenario)
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Check card, metadata and click documents against the schema
//  2. Select the mode
//  3. Collect actions, and drills when a click is given
//  4. Compare against expect and evaluate assertions
//
// Errors are returned only when a document cannot be loaded; failed
// expectations are reported in the Result.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	l, err := loader.New()
	if err != nil {
		return nil, err
	}

	card, md, clicked, err := h.documents(l, scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult(scenario.Name)
	if md != nil {
		for _, verr := range metadata.Validate(md) {
			result.AddError(fmt.Sprintf("metadata: %s", verr.Error()))
		}
	}

	m := h.registry.Select(card, md)
	if m != nil {
		result.Mode = m.Name()
	}

	if result.Actions, err = Records(mode.CollectActions(m, card, md)); err != nil {
		return nil, fmt.Errorf("recording actions: %w", err)
	}
	if result.Drills, err = Records(mode.CollectDrills(m, card, md, clicked)); err != nil {
		return nil, fmt.Errorf("recording drills: %w", err)
	}

	h.logger.Info("scenario executed",
		"scenario", scenario.Name,
		"mode", result.Mode,
		"actions", len(result.Actions),
		"drills", len(result.Drills),
	)

	checkExpect(result, scenario.Expect)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	if !result.Pass {
		h.logger.Info("scenario failed", "scenario", scenario.Name, "errors", len(result.Errors))
	}
	return result, nil
}

// documents loads the card, metadata and click of a scenario. Missing
// metadata or click documents yield nil.
func (h *Harness) documents(l *loader.Loader, s *Scenario) (*query.Card, *metadata.TableMetadata, *mode.ClickObject, error) {
	cardValue, err := l.Value(s.Card)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("card: %w", err)
	}
	card, err := l.Card(cardValue)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("card: %w", err)
	}

	var md *metadata.TableMetadata
	switch {
	case s.MetadataFile != "":
		v, err := l.File(s.MetadataFile)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("metadata: %w", err)
		}
		if md, err = l.Metadata(v); err != nil {
			return nil, nil, nil, fmt.Errorf("metadata: %w", err)
		}
	case s.Metadata != nil:
		v, err := l.Value(s.Metadata)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("metadata: %w", err)
		}
		if md, err = l.Metadata(v); err != nil {
			return nil, nil, nil, fmt.Errorf("metadata: %w", err)
		}
	}

	var clicked *mode.ClickObject
	if s.Clicked != nil {
		v, err := l.Value(s.Clicked)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("clicked: %w", err)
		}
		if clicked, err = l.Click(v); err != nil {
			return nil, nil, nil, fmt.Errorf("clicked: %w", err)
		}
	}

	return card, md, clicked, nil
}

// checkExpect compares the mode and, when given, the exact action names.
func checkExpect(result *Result, expect Expect) {
	if result.Mode != expect.Mode {
		result.AddError(fmt.Sprintf("mode: expected %s, got %s", expect.Mode, result.Mode))
	}
	if expect.Actions != nil && !slices.Equal(expect.Actions, names(result.Actions)) {
		result.AddError(fmt.Sprintf("actions: expected %v, got %v", expect.Actions, names(result.Actions)))
	}
	if expect.Drills != nil && !slices.Equal(expect.Drills, names(result.Drills)) {
		result.AddError(fmt.Sprintf("drills: expected %v, got %v", expect.Drills, names(result.Drills)))
	}
}
