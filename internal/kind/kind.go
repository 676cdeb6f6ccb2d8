// Package kind defines the closed set of primitive value kinds a Typed
// Value can hold, and a small per-kind descriptor table that the rest of
// the engine dispatches through instead of switching on the kind directly.
package kind

import (
	"strings"
	"sync"
	"sync/atomic"
)

// Kind identifies the shape of a Typed Value. The set below Size is fixed
// and compiled in; values at or above Size are runtime-registered and only
// exist for the lifetime of the process that registered them.
type Kind uint32

const (
	Unknown Kind = iota
	Bool
	Char
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float
	Double
	Vector2
	Vector3
	Vector4
	Quaternion
	Matrix2
	Matrix3
	Matrix4
	String
	Size
)

var names = map[Kind]string{
	Unknown: "Unknown", Bool: "Bool", Char: "Char",
	Int8: "Int8", Int16: "Int16", Int32: "Int32", Int64: "Int64",
	Uint8: "Uint8", Uint16: "Uint16", Uint32: "Uint32", Uint64: "Uint64",
	Float: "Float", Double: "Double",
	Vector2: "Vector2", Vector3: "Vector3", Vector4: "Vector4",
	Quaternion: "Quaternion",
	Matrix2:    "Matrix2", Matrix3: "Matrix3", Matrix4: "Matrix4",
	String: "String",
}

var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(names))
	for k, n := range names {
		m[strings.ToLower(n)] = k
	}
	return m
}()

// ParseName looks up a compiled-in Kind by its String() name, case
// insensitively so config and scenario files can write "float" or "Float"
// interchangeably. It does not see runtime-registered kinds.
func ParseName(name string) (Kind, bool) {
	k, ok := byName[strings.ToLower(name)]
	return k, ok
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	if k >= Size {
		if n, ok := runtimeNames.Load(k); ok {
			return n.(string)
		}
	}
	return "Invalid"
}

var runtimeNames atomicKindNameMap

// atomicKindNameMap is a trivial concurrent map; the registry of runtime
// kinds is expected to be small and append-only.
type atomicKindNameMap struct {
	m sync.Map
}

func (a *atomicKindNameMap) Load(k Kind) (any, bool) { return a.m.Load(k) }
func (a *atomicKindNameMap) Store(k Kind, v any)     { a.m.Store(k, v) }

// nextRuntimeKind mirrors AcquireNextRuntimeNativeTypeId: a single atomic
// post-increment counter, lazily seeded at the first ID past the closed
// compiled-in set. Only RegisterRuntime advances it.
var nextRuntimeKind atomic.Uint32

func init() {
	nextRuntimeKind.Store(uint32(Size))
}

// RegisterRuntime mints a new Kind for a type not known at compile time and
// records its descriptor. It is safe for concurrent use. The closed set of
// kinds this engine actually exercises never calls this; it exists so the
// kind table keeps the constant-vs-runtime split the type-id scheme it is
// modeled on relies on for extensibility.
func RegisterRuntime(name string, d Descriptor) Kind {
	id := Kind(nextRuntimeKind.Add(1) - 1)
	d.Kind = id
	runtimeNames.Store(id, name)
	registryMu.Lock()
	registry[id] = &d
	registryMu.Unlock()
	return id
}
