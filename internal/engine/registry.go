package engine

import (
	"sync"

	"github.com/hollis-tate/repliprop/internal/fault"
	"github.com/hollis-tate/repliprop/internal/property"
	"github.com/hollis-tate/repliprop/internal/proptype"
	"github.com/hollis-tate/repliprop/internal/scheduler"
)

// Registry is the engine's live set of Property Types, Properties and the
// per-type Schedulers that converge them. One Registry is shared by every
// property the engine drives; a Property Type's Scheduler is created once,
// at RegisterType time, after the Property Type itself has been activated.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]*proptype.PropertyType
	scheds map[string]*scheduler.Scheduler
	props  map[string]*property.Property
	owner  map[string]string // property name -> owning type name
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:  make(map[string]*proptype.PropertyType),
		scheds: make(map[string]*scheduler.Scheduler),
		props:  make(map[string]*property.Property),
		owner:  make(map[string]string),
	}
}

// RegisterType adds an already-activated Property Type under typeName and
// allocates its Scheduler. authority may be nil. Fails if typeName is
// already registered or pt has not been activated.
func (reg *Registry) RegisterType(typeName string, pt *proptype.PropertyType, authority scheduler.AuthorityCheck) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.types[typeName]; exists {
		return fault.New(fault.DuplicateSchedule, "property type already registered", map[string]string{"type": typeName})
	}
	if !pt.IsValid() {
		return fault.New(fault.ConfigAfterActivation, "property type not yet activated", map[string]string{"type": typeName})
	}
	sched := scheduler.New(authority, nil)
	if err := sched.Activate(pt.Snapshot().ConvergenceInterval); err != nil {
		return err
	}
	reg.types[typeName] = pt
	reg.scheds[typeName] = sched
	return nil
}

// RegisterProperty associates p, an instance of typeName, with the
// registry under p.Name(). Fails if the name is already taken or typeName
// is unknown.
func (reg *Registry) RegisterProperty(typeName string, p *property.Property) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.props[p.Name()]; exists {
		return fault.New(fault.DuplicateSchedule, "property already registered", map[string]string{"name": p.Name()})
	}
	if _, exists := reg.types[typeName]; !exists {
		return fault.New(fault.TypeMismatch, "unknown property type", map[string]string{"type": typeName})
	}
	reg.props[p.Name()] = p
	reg.owner[p.Name()] = typeName
	return nil
}

// Property looks up a registered property by name.
func (reg *Registry) Property(name string) (*property.Property, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	p, ok := reg.props[name]
	return p, ok
}

// schedulerFor returns the Scheduler owning name's property, if any.
func (reg *Registry) schedulerFor(name string) (*scheduler.Scheduler, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	typeName, ok := reg.owner[name]
	if !ok {
		return nil, false
	}
	sched, ok := reg.scheds[typeName]
	return sched, ok
}

// Tick runs one convergence pass, for the given frame and time, across
// every registered Property Type's Scheduler.
func (reg *Registry) Tick(frameID uint64, now float64) {
	reg.mu.RLock()
	scheds := make([]*scheduler.Scheduler, 0, len(reg.scheds))
	for _, s := range reg.scheds {
		scheds = append(scheds, s)
	}
	reg.mu.RUnlock()
	for _, s := range scheds {
		s.Tick(frameID, now)
	}
}
