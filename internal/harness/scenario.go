// Package harness runs YAML-defined conformance scenarios against a single
// Property: a sequence of received updates and convergence ticks, checked
// against assertions about the property's value at the end of the run.
package harness

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/property"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
	"github.com/hollis-tate/repliprop/internal/wire"
)

// Scenario defines a conformance test for one Property Type and a single
// Property of that type.
type Scenario struct {
	// Name uniquely identifies this scenario, and names its golden file.
	Name string `yaml:"name"`

	// Description explains what behavior this scenario validates.
	Description string `yaml:"description"`

	// Kind is the property's kind name: float, int32, vector3, etc.
	Kind string `yaml:"kind"`

	// Config overlays proptype.Config fields before the type is activated.
	Config proptype.Config `yaml:"config"`

	// Initial is the property's seed value's primitive members.
	Initial []float64 `yaml:"initial"`

	// Steps runs in order against the property.
	Steps []Step `yaml:"steps"`

	// Assertions validate the property's state after all Steps have run.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one action in a scenario's timeline: exactly one of Receive or
// Tick must be set.
type Step struct {
	// Receive simulates an update arriving from a peer.
	Receive *ReceiveStep `yaml:"receive,omitempty"`

	// Tick advances the scheduler by one convergence pass.
	Tick *TickStep `yaml:"tick,omitempty"`
}

// ReceiveStep serializes Value from the scenario's persistent peer property
// and deserializes the result onto the scenario's own property, exactly as
// engine.applyUpdate does for a real inbound Update. A Value that the peer's
// change check does not report as changed is not sent. The peer retains its
// own LastValue across steps so a serialization mode that gates on a delta
// threshold (SerializeChanged) behaves the way a real sender would across
// a sequence of updates, rather than comparing each value against itself.
type ReceiveStep struct {
	Value     []float64 `yaml:"value"`
	Timestamp float64   `yaml:"timestamp"`
	Frame     uint64    `yaml:"frame"`
	Now       float64   `yaml:"now"`
}

// TickStep advances convergence directly (bypassing the scheduler's frame
// striping, since a scenario's single property would always land in
// stripe 0 of a single-stripe index anyway).
type TickStep struct {
	At float64 `yaml:"at"`
}

// Assertion checks a condition against the property after all steps run.
type Assertion struct {
	// Type is one of: "value_equals", "value_in_delta", "state_equals".
	Type string `yaml:"type"`

	// Value is the expected primitive members, for value_equals/value_in_delta.
	Value []float64 `yaml:"value,omitempty"`

	// Delta is the tolerance for value_in_delta.
	Delta float64 `yaml:"delta,omitempty"`

	// State is the expected convergence state name, for state_equals:
	// "none", "active", or "resting".
	State string `yaml:"state,omitempty"`
}

// LoadScenario reads and parses a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("load scenario %s: %w", path, err)
	}
	return &s, nil
}

// Result is the outcome of running a Scenario. RunID identifies this
// particular execution independent of the scenario's own Name, so repeated
// runs of the same scenario file (e.g. across a golden-file regeneration
// and the run that follows it) can still be told apart in logs.
type Result struct {
	RunID    string
	Property *property.Property
	Trace    []TraceEntry
}

// TraceEntry records one step's effect, for golden-file comparison.
type TraceEntry struct {
	Step  string    `json:"step"`
	Value []float64 `json:"value"`
	State string    `json:"state"`
}

// Run executes every step of s against a freshly constructed Property Type
// and Property, returning the final state plus a per-step trace.
func Run(s *Scenario) (*Result, error) {
	k, ok := kind.ParseName(s.Kind)
	if !ok {
		return nil, fmt.Errorf("run scenario %s: unknown kind %q", s.Name, s.Kind)
	}

	pt := proptype.New(s.Name, k, nil)
	if err := proptype.ApplyConfig(pt, s.Config); err != nil {
		return nil, fmt.Errorf("run scenario %s: apply config: %w", s.Name, err)
	}
	if err := pt.Activate(); err != nil {
		return nil, fmt.Errorf("run scenario %s: activate: %w", s.Name, err)
	}

	p := property.New(s.Name, pt, value.NewArithmetic(k, s.Initial...))
	peer := property.New(s.Name, pt, value.NewArithmetic(k, s.Initial...))

	var trace []TraceEntry
	for i, step := range s.Steps {
		switch {
		case step.Receive != nil:
			if err := applyReceive(p, peer, k, step.Receive); err != nil {
				return nil, fmt.Errorf("run scenario %s: step %d: %w", s.Name, i, err)
			}
			trace = append(trace, snapshot("receive", p))
		case step.Tick != nil:
			// Mirrors scheduler.Scheduler.tickIndex's dispatch: a property
			// only ever receives a convergence tick appropriate to the index
			// it is currently parked in (active vs. resting); one already
			// back at None is not scheduled anywhere and gets no tick at all.
			switch p.State() {
			case property.ConvergenceActive:
				p.ConvergeActiveNow(step.Tick.At)
			case property.ConvergenceResting:
				p.ConvergeRestingNow(step.Tick.At)
			}
			trace = append(trace, snapshot("tick", p))
		default:
			return nil, fmt.Errorf("run scenario %s: step %d: neither receive nor tick set", s.Name, i)
		}
	}

	runID := ""
	if id, err := uuid.NewV7(); err == nil {
		runID = id.String()
	}
	return &Result{RunID: runID, Property: p, Trace: trace}, nil
}

func applyReceive(p, peer *property.Property, k kind.Kind, step *ReceiveStep) error {
	peer.SetValue(value.NewArithmetic(k, step.Value...))
	// A real sender transmits only when ReactToChanges detects an Outgoing
	// change: a value within the delta threshold of peer's LastValue sends
	// nothing, and p is left untouched.
	if !peer.ReactToChanges(step.Timestamp, property.Normal, property.Outgoing, false) {
		return nil
	}
	w := wire.NewWriter()
	if err := peer.Serialize(w, property.Normal, step.Timestamp); err != nil {
		return err
	}
	// Mirrors a real sender's post-send bookkeeping (UpdateLastValue for
	// an Outgoing change): commits peer's LastValue so
	// the next step's delta-threshold comparison is against what was
	// actually last transmitted, not against the value just set.
	peer.UpdateLastValue(false)

	r := wire.NewReader(w.Bytes())
	return p.Deserialize(r, property.Normal, step.Timestamp, step.Frame, step.Now)
}

func snapshot(stepName string, p *property.Property) TraceEntry {
	v := p.GetValue()
	d := kind.Lookup(p.PropertyType().Kind())
	members := make([]float64, 0, 4)
	if d != nil {
		for i := 0; i < d.PrimitiveCount; i++ {
			members = append(members, v.Member(i))
		}
	}
	return TraceEntry{Step: stepName, Value: members, State: stateName(p.State())}
}

func stateName(s property.ConvergenceState) string {
	switch s {
	case property.ConvergenceActive:
		return "active"
	case property.ConvergenceResting:
		return "resting"
	default:
		return "none"
	}
}
