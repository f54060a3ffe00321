// Package params implements the parameter registry of spec.md §6: named,
// typed parameters grouped under a component-prefixed ParameterBox, with a
// CLI surface (--<prefix>::<name>), a JSON round-trip surface, and
// environment-variable defaults for the "recognized core parameters" table.
package params

import (
	"strconv"

	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Value is the set of scalar types a Parameter may hold (spec.md §6:
// bool | int | unsigned | f64 | string; vector<T> is not implemented —
// no recognized core parameter in spec.md §6's table needs one).
type Value interface {
	~bool | ~int | ~uint | ~float64 | ~string
}

// entry is the type-erased view of a Parameter a Box stores, letting a
// single map hold parameters of different concrete T.
type entry interface {
	Name() string
	Description() string
	IsSet() bool
	setFromString(s string) error
	jsonValue() (any, error)
	setFromJSON(v any) error
}

// Parameter is a single named, typed, optionally-defaulted value (spec.md
// §6): name, description, type (via T), optional default, an "is set" bit
// distinct from having a default, and JSON round-trip.
type Parameter[T Value] struct {
	name        string
	description string
	def         *T
	value       T
	isSet       bool
}

// NewParameter builds a Parameter with an optional default (nil means no
// default: reading an unset Parameter with no default is
// errkind.ParameterNotSet, spec.md §7).
func NewParameter[T Value](name, description string, def *T) *Parameter[T] {
	return &Parameter[T]{name: name, description: description, def: def}
}

func (p *Parameter[T]) Name() string        { return p.name }
func (p *Parameter[T]) Description() string { return p.description }
func (p *Parameter[T]) IsSet() bool         { return p.isSet }

// Set assigns v explicitly, distinct from whatever default was configured.
func (p *Parameter[T]) Set(v T) {
	p.value = v
	p.isSet = true
}

// Get returns the explicit value if set, else the default, else
// errkind.ParameterNotSet.
func (p *Parameter[T]) Get() (T, error) {
	if p.isSet {
		return p.value, nil
	}
	if p.def != nil {
		return *p.def, nil
	}
	var zero T
	return zero, errkind.New(errkind.ParameterNotSet, p.name, "parameter has no default and was not set")
}

// MustGet panics if the parameter is unset with no default; for call sites
// that have already validated the parameter during initialize_run.
func (p *Parameter[T]) MustGet() T {
	v, err := p.Get()
	if err != nil {
		panic(err)
	}
	return v
}

func (p *Parameter[T]) setFromString(s string) error {
	var v any
	var err error
	switch any(p.value).(type) {
	case bool:
		v, err = strconv.ParseBool(s)
	case int:
		var i int64
		i, err = strconv.ParseInt(s, 10, 64)
		v = int(i)
	case uint:
		var u uint64
		u, err = strconv.ParseUint(s, 10, 64)
		v = uint(u)
	case float64:
		v, err = strconv.ParseFloat(s, 64)
	case string:
		v = s
	}
	if err != nil {
		return errkind.Wrap(errkind.IncorrectParameterValue, p.name, "setFromString", err)
	}
	p.Set(v.(T))
	return nil
}

func (p *Parameter[T]) jsonValue() (any, error) {
	v, err := p.Get()
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (p *Parameter[T]) setFromJSON(v any) error {
	switch any(p.value).(type) {
	case bool:
		b, ok := v.(bool)
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, p.name, "expected bool")
		}
		p.Set(any(b).(T))
	case int:
		f, ok := v.(float64)
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, p.name, "expected number")
		}
		p.Set(any(int(f)).(T))
	case uint:
		f, ok := v.(float64)
		if !ok || f < 0 {
			return errkind.New(errkind.IncorrectParameterValue, p.name, "expected non-negative number")
		}
		p.Set(any(uint(f)).(T))
	case float64:
		f, ok := v.(float64)
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, p.name, "expected number")
		}
		p.Set(any(f).(T))
	case string:
		s, ok := v.(string)
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, p.name, "expected string")
		}
		p.Set(any(s).(T))
	}
	return nil
}
