// Package property implements the Property: a single replicated field's
// change detection, serialization, curve-based interpolation and
// convergence-based smoothing, built on a Property Type's frozen
// configuration.
package property

import (
	"log/slog"

	"github.com/hollis-tate/repliprop/internal/curve"
	"github.com/hollis-tate/repliprop/internal/kind"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/value"
)

// Phase distinguishes the very first update a Property ever receives or
// sends (Initialization) from steady-state traffic (Normal): several
// operations behave differently only during initialization.
type Phase int

const (
	Normal Phase = iota
	Initialization
)

// Direction distinguishes a locally originated update (Outgoing) from one
// received from elsewhere (Incoming).
type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

// ConvergenceState is the three-state convergence lifecycle: None (not
// scheduled), Active (converging toward a freshly received value) and
// Resting (holding/fading after the active phase finished extrapolating).
type ConvergenceState int

const (
	ConvergenceNone ConvergenceState = iota
	ConvergenceActive
	ConvergenceResting
)

// Getter reads the current externally-held value, returning the empty
// Value if it is currently unreadable.
type Getter func() value.Value

// Setter writes a new externally-held value.
type Setter func(value.Value)

// Property is one replicated field. Property does not know about peers,
// channels or transport; Serialize/Deserialize work directly against a
// wire.Writer/wire.Reader, and scheduling suppression is expressed as a
// narrow AuthorityCheck callback rather than a concrete channel/peer type.
type Property struct {
	name string
	pt   *proptype.PropertyType

	get Getter
	set Setter

	stored value.Value // backing store used when get/set are not overridden

	lastValue               value.Value
	lastReceivedChangeValue value.Value
	lastReceivedChangeTime  float64
	lastReceivedChangeFrame uint64
	lastChangeTimestamp     float64

	state              ConvergenceState
	restingStartTime   float64

	histories [16]curve.History
	baked     [16]curve.Baked

	log *slog.Logger
}

// Option configures a new Property.
type Option func(*Property)

// WithGetter overrides the default backing-store getter.
func WithGetter(g Getter) Option { return func(p *Property) { p.get = g } }

// WithSetter overrides the default backing-store setter.
func WithSetter(s Setter) Option { return func(p *Property) { p.set = s } }

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option { return func(p *Property) { p.log = l } }

// New constructs a Property of the given Property Type, seeded with an
// initial value.
func New(name string, pt *proptype.PropertyType, initial value.Value, opts ...Option) *Property {
	p := &Property{
		name:   name,
		pt:     pt,
		stored: initial,
		lastValue: initial,
		log:    slog.Default(),
	}
	p.get = func() value.Value { return p.stored }
	p.set = func(v value.Value) { p.stored = v }
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the property's name.
func (p *Property) Name() string { return p.name }

// PropertyType returns the owning Property Type.
func (p *Property) PropertyType() *proptype.PropertyType { return p.pt }

// State returns the current convergence state.
func (p *Property) State() ConvergenceState { return p.state }

// GetValue reads the current value, falling back to the last known value
// if the getter currently reports empty.
func (p *Property) GetValue() value.Value {
	v := p.get()
	if v.IsEmpty() {
		return p.lastValue
	}
	return v
}

// SetValue writes v directly, bypassing convergence and curve smoothing
// entirely.
func (p *Property) SetValue(v value.Value) {
	p.set(v)
}

// LastValue returns the most recently committed last-value snapshot.
func (p *Property) LastValue() value.Value { return p.lastValue }

// LastReceivedChangeValue returns the most recent value received from a
// peer, independent of any local convergence smoothing applied since.
func (p *Property) LastReceivedChangeValue() value.Value { return p.lastReceivedChangeValue }

// LastReceivedChangeFrame returns the frame id stamped on the most recent
// successful Deserialize call, used by the scheduler to avoid converging
// a property in the same frame it just received a fresh value on.
func (p *Property) LastReceivedChangeFrame() uint64 { return p.lastReceivedChangeFrame }

// LastChangeTimestamp returns the timestamp of the most recent accepted
// change, local or remote.
func (p *Property) LastChangeTimestamp() float64 { return p.lastChangeTimestamp }

func (p *Property) descriptor() *kind.Descriptor { return kind.Lookup(p.pt.Kind()) }
