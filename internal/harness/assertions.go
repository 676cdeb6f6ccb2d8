package harness

import (
	"fmt"
	"math"
)

// Check validates every assertion in s against r, returning the first
// failure encountered. A scenario with no assertions always passes: it is
// then only useful in combination with golden-file comparison.
func (s *Scenario) Check(r *Result) error {
	for i, a := range s.Assertions {
		if err := a.check(r); err != nil {
			return fmt.Errorf("scenario %s: assertion %d (%s): %w", s.Name, i, a.Type, err)
		}
	}
	return nil
}

func (a *Assertion) check(r *Result) error {
	switch a.Type {
	case "value_equals":
		return a.checkValueEquals(r, 0)
	case "value_in_delta":
		return a.checkValueEquals(r, a.Delta)
	case "state_equals":
		got := stateName(r.Property.State())
		if got != a.State {
			return fmt.Errorf("state = %q, want %q", got, a.State)
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func (a *Assertion) checkValueEquals(r *Result, tolerance float64) error {
	got := r.Property.GetValue()
	for i, want := range a.Value {
		gotMember := got.Member(i)
		if math.Abs(gotMember-want) > tolerance {
			return fmt.Errorf("member %d = %v, want %v (tolerance %v)", i, gotMember, want, tolerance)
		}
	}
	return nil
}
