package params

import (
	"sort"

	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Box is a ParameterBox (spec.md §6): the parameters owned by one
// component, keyed by the component's name (its CLI/JSON prefix).
type Box struct {
	Prefix  string
	entries map[string]entry
}

// NewBox builds an empty Box for the given prefix.
func NewBox(prefix string) *Box {
	return &Box{Prefix: prefix, entries: make(map[string]entry)}
}

func (b *Box) register(e entry) {
	b.entries[e.Name()] = e
}

// Bool, Int, Uint, Float64, String register and return a typed Parameter
// under this Box, following the same (name, description, default) shape.
func (b *Box) Bool(name, description string, def *bool) *Parameter[bool] {
	p := NewParameter(name, description, def)
	b.register(p)
	return p
}

func (b *Box) Int(name, description string, def *int) *Parameter[int] {
	p := NewParameter(name, description, def)
	b.register(p)
	return p
}

func (b *Box) Uint(name, description string, def *uint) *Parameter[uint] {
	p := NewParameter(name, description, def)
	b.register(p)
	return p
}

func (b *Box) Float64(name, description string, def *float64) *Parameter[float64] {
	p := NewParameter(name, description, def)
	b.register(p)
	return p
}

func (b *Box) String(name, description string, def *string) *Parameter[string] {
	p := NewParameter(name, description, def)
	b.register(p)
	return p
}

// BoolParam, IntParam, UintParam, Float64Param, StringParam look up an
// already-registered Parameter by name, for callers (e.g. cmd/localsearch)
// that register parameters once via NewCoreRegistry and then need to read
// back the value a CLI flag or JSON document applied — re-registering
// would hand back a fresh Parameter with no default, discarding whatever
// ApplyPFlags/FromJSON already set.
func (b *Box) BoolParam(name string) (*Parameter[bool], bool) {
	p, ok := b.entries[name].(*Parameter[bool])
	return p, ok
}

func (b *Box) IntParam(name string) (*Parameter[int], bool) {
	p, ok := b.entries[name].(*Parameter[int])
	return p, ok
}

func (b *Box) UintParam(name string) (*Parameter[uint], bool) {
	p, ok := b.entries[name].(*Parameter[uint])
	return p, ok
}

func (b *Box) Float64Param(name string) (*Parameter[float64], bool) {
	p, ok := b.entries[name].(*Parameter[float64])
	return p, ok
}

func (b *Box) StringParam(name string) (*Parameter[string], bool) {
	p, ok := b.entries[name].(*Parameter[string])
	return p, ok
}

// Names returns the registered parameter names in sorted order, for stable
// --help output and JSON encoding.
func (b *Box) Names() []string {
	names := make([]string, 0, len(b.entries))
	for n := range b.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SetString applies a CLI-style string value to the named parameter
// (spec.md §6: "--<prefix>::<name> <value>"). Returns
// errkind.IncorrectParameterValue for an unknown name or a value that
// doesn't parse as the parameter's declared type.
func (b *Box) SetString(name, value string) error {
	e, ok := b.entries[name]
	if !ok {
		return errkind.New(errkind.IncorrectParameterValue, b.Prefix, "unknown parameter: "+name)
	}
	return e.setFromString(value)
}

// ToJSON renders every parameter's current value (spec.md §6's JSON
// surface), skipping parameters that are unset with no default rather than
// failing the whole box.
func (b *Box) ToJSON() map[string]any {
	out := make(map[string]any, len(b.entries))
	for _, name := range b.Names() {
		v, err := b.entries[name].jsonValue()
		if err != nil {
			continue
		}
		out[name] = v
	}
	return out
}

// FromJSON applies a {"<name>": <value>, ...} object to this Box's
// parameters.
func (b *Box) FromJSON(data map[string]any) error {
	for name, v := range data {
		e, ok := b.entries[name]
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, b.Prefix, "unknown parameter: "+name)
		}
		if err := e.setFromJSON(v); err != nil {
			return err
		}
	}
	return nil
}

// Describe returns (name, description) pairs in sorted order, the raw
// material for --help autogeneration.
func (b *Box) Describe() []struct{ Name, Description string } {
	out := make([]struct{ Name, Description string }, 0, len(b.entries))
	for _, name := range b.Names() {
		out = append(out, struct{ Name, Description string }{name, b.entries[name].Description()})
	}
	return out
}
