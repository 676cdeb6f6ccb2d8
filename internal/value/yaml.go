package value

import (
	"fmt"

	"github.com/hollis-tate/repliprop/internal/kind"
)

// yamlShadow is the plain-data shape a Value round-trips through YAML as:
// Value itself keeps its fields private so equality and normalization
// can't be bypassed by construction from outside the package.
type yamlShadow struct {
	Kind    string    `yaml:"kind"`
	Bool    *bool     `yaml:"bool,omitempty"`
	String  *string   `yaml:"string,omitempty"`
	Members []float64 `yaml:"members,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (any, error) {
	if v.IsEmpty() {
		return yamlShadow{Kind: kind.Unknown.String()}, nil
	}
	s := yamlShadow{Kind: v.k.String()}
	switch v.k {
	case kind.Bool:
		s.Bool = &v.b
	case kind.String:
		s.String = &v.s
	default:
		n := v.PrimitiveCount()
		s.Members = make([]float64, n)
		for i := 0; i < n; i++ {
			s.Members[i] = v.prim[i]
		}
	}
	return s, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var s yamlShadow
	if err := unmarshal(&s); err != nil {
		return err
	}
	k, ok := kind.ParseName(s.Kind)
	if !ok || k == kind.Unknown {
		*v = Empty()
		return nil
	}
	switch k {
	case kind.Bool:
		if s.Bool == nil {
			return fmt.Errorf("value: missing bool payload for kind Bool")
		}
		*v = NewBool(*s.Bool)
	case kind.String:
		if s.String == nil {
			return fmt.Errorf("value: missing string payload for kind String")
		}
		*v = NewString(*s.String)
	default:
		*v = NewArithmetic(k, s.Members...)
	}
	return nil
}
