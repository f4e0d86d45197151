package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/querymode/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	List     []ActionRecord // The list the assertion ran against
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nCollected:\n")
	for i, rec := range e.List {
		fmt.Fprintf(&buf, "  [%d] %s %q\n", i+1, rec.Name, rec.Title)
	}

	return buf.String()
}

// assertContains checks that an action with the name, and title when
// given, was collected.
func assertContains(list []ActionRecord, a Assertion) error {
	for _, rec := range list {
		if rec.Name == a.Name && (a.Title == "" || rec.Title == a.Title) {
			return nil
		}
	}

	expected := a.Name
	if a.Title != "" {
		expected = fmt.Sprintf("%s titled %q", a.Name, a.Title)
	}
	return &AssertionError{
		Type:     AssertActionContains,
		Expected: expected,
		Actual:   "not collected",
		List:     list,
	}
}

// assertOrder checks that the first occurrences of the names appear in the
// given order. Other actions may appear in between.
func assertOrder(list []ActionRecord, a Assertion) error {
	positions := make(map[string]int)
	for i, rec := range list {
		if _, seen := positions[rec.Name]; !seen {
			positions[rec.Name] = i
		}
	}

	for _, name := range a.Names {
		if _, ok := positions[name]; !ok {
			return &AssertionError{
				Type:     AssertActionOrder,
				Expected: fmt.Sprintf("order %v", a.Names),
				Actual:   fmt.Sprintf("%s not collected", name),
				List:     list,
			}
		}
	}

	for i := 1; i < len(a.Names); i++ {
		prev, cur := a.Names[i-1], a.Names[i]
		if positions[prev] >= positions[cur] {
			return &AssertionError{
				Type:     AssertActionOrder,
				Expected: fmt.Sprintf("%s before %s", prev, cur),
				Actual:   fmt.Sprintf("%s at %d, %s at %d", prev, positions[prev], cur, positions[cur]),
				List:     list,
			}
		}
	}
	return nil
}

// assertCount checks that the name appears exactly Count times.
func assertCount(list []ActionRecord, a Assertion) error {
	count := 0
	for _, rec := range list {
		if rec.Name == a.Name {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertActionCount,
			Expected: fmt.Sprintf("%s exactly %d times", a.Name, a.Count),
			Actual:   fmt.Sprintf("%d times", count),
			List:     list,
		}
	}
	return nil
}

// assertQuery checks the structured query the first action with the name
// leads to: every key of a.Query must match and no key of a.Absent may be
// set.
func assertQuery(list []ActionRecord, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: AssertActionQuery, Expected: expected, Actual: actual, List: list}
	}

	var rec *ActionRecord
	for i := range list {
		if list[i].Name == a.Name {
			rec = &list[i]
			break
		}
	}
	if rec == nil {
		return fail(fmt.Sprintf("an action named %s", a.Name), "not collected")
	}

	body, ok := rec.Query["query"].(ir.IRObject)
	if !ok {
		return fail(fmt.Sprintf("%s to lead to a structured query", a.Name), "no structured query")
	}

	expected, err := ir.FromAny(a.Query)
	if err != nil {
		return fail("a valid expected query", err.Error())
	}
	if !matchSubset(body, expected.(ir.IRObject)) {
		return fail(fmt.Sprintf("query containing %s", render(expected)), render(body))
	}

	for _, key := range a.Absent {
		if _, set := body[key]; set {
			return fail(fmt.Sprintf("no %s clause", key), render(body))
		}
	}
	return nil
}

// matchSubset checks if actual contains all expected keys with equal
// values. Extra keys in actual are ignored.
func matchSubset(actual, expected ir.IRObject) bool {
	for key, want := range expected {
		got, exists := actual[key]
		if !exists || !ir.Equal(got, want) {
			return false
		}
	}
	return true
}

func render(v ir.IRValue) string {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		list := result.List(assertion.List)

		var err error
		switch assertion.Type {
		case AssertActionContains:
			err = assertContains(list, assertion)
		case AssertActionOrder:
			err = assertOrder(list, assertion)
		case AssertActionCount:
			err = assertCount(list, assertion)
		case AssertActionQuery:
			err = assertQuery(list, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
