// Package state implements StateManager (spec.md §4.1): random/greedy state
// generation, cost evaluation against a registry of cost components,
// consistency checking and state distance.
//
// Grounded on _examples/original_source/include/helpers/statemanager.hh
// (RandomState/GreedyState/CostFunctionComponents/StateDistance surface) and
// on the teacher's Config{Validate()}/New(cfg, rng) constructor idiom
// (r3b0rn-acc-flowShop/internal/{sa,ts,ga}/*.go).
package state

import (
	"math/rand"

	"github.com/r3b0rn/localsearch/internal/cost"
	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Hooks is the set of operations a problem implementation must supply.
// I is the (read-only) input type, S the mutable state type.
type Hooks[I any, S any] interface {
	// NewState allocates a zero-value State for the given Input.
	NewState(in I) S
	// RandomState fills st with a uniformly random solution, drawing from rng
	// so that seeding the solver's RNG makes the initial state reproducible.
	RandomState(in I, st *S, rng *rand.Rand)
	// CheckConsistency validates that st's redundant data structures (if
	// any) agree with its primary ones.
	CheckConsistency(in I, st S) bool
	// ToJSON/FromJSON implement the state's JSON round-trip.
	ToJSON(in I, st S) (map[string]any, error)
	FromJSON(in I, st *S, data map[string]any) error
}

// GreedyHook is optionally implemented by problems that support GRASP-style
// restricted-candidate-list greedy construction (spec.md §4.1).
type GreedyHook[I any, S any] interface {
	GreedyState(in I, st *S, alpha float64, k uint)
}

// GreedySimpleHook is optionally implemented when a plain (non-RCL) greedy
// construction exists; absent, GreedyState() falls back to RandomState.
type GreedySimpleHook[I any, S any] interface {
	GreedyStateSimple(in I, st *S)
}

// DistanceHook is optionally implemented to provide a problem-specific
// distance between two states (e.g. Hamming distance).
type DistanceHook[I any, S any] interface {
	StateDistance(in I, s1, s2 S) uint32
}

// Manager is the generic StateManager: it owns the Hooks implementation plus
// a registry of cost components, and assembles CostStructure values from
// them per spec.md §4.1.
type Manager[I any, S any, C cost.Number] struct {
	Name       string
	Hooks      Hooks[I, S]
	Ordering   cost.Ordering
	HardWeight C

	components []cost.Component[I, S, C]
	index      map[uint64]int
}

// New builds a Manager with the given hooks and a default (flat) ordering
// and HardWeight matching cost.DefaultHardWeight.
func New[I any, S any, C cost.Number](name string, hooks Hooks[I, S]) *Manager[I, S, C] {
	return &Manager[I, S, C]{
		Name:       name,
		Hooks:      hooks,
		Ordering:   cost.Flat,
		HardWeight: C(cost.DefaultHardWeight),
		index:      make(map[uint64]int),
	}
}

// AddCostComponent registers a cost component, indexed by its Hash.
func (m *Manager[I, S, C]) AddCostComponent(c cost.Component[I, S, C]) {
	m.index[c.Hash] = len(m.components)
	m.components = append(m.components, c)
}

// ClearComponents drops every registered cost component.
func (m *Manager[I, S, C]) ClearComponents() {
	m.components = nil
	m.index = make(map[uint64]int)
}

// Components returns the registered cost components in registration order.
func (m *Manager[I, S, C]) Components() []cost.Component[I, S, C] {
	return m.components
}

// Component returns the i-th registered cost component.
func (m *Manager[I, S, C]) Component(i int) cost.Component[I, S, C] {
	return m.components[i]
}

// IndexOf returns the registration index of c, or false if it was never
// registered.
func (m *Manager[I, S, C]) IndexOf(c cost.Component[I, S, C]) (int, bool) {
	i, ok := m.index[c.Hash]
	return i, ok
}

// CostFunctionComponents evaluates every registered component and assembles
// a CostStructure: each component's value times its Weight is summed into
// Violations (hard) or Objective (soft), Total = HardWeight*Violations +
// Objective, and Components keeps the unweighted values (spec.md §4.1).
// When weights is non-nil it must have one entry per
// registered component and Weighted is filled accordingly.
func (m *Manager[I, S, C]) CostFunctionComponents(in I, st S, weights []float64) cost.Structure[C] {
	components := make([]C, len(m.components))
	var violations, objective C
	var weighted float64
	isWeighted := weights != nil

	for i, c := range m.components {
		v := c.Evaluate(in, st)
		components[i] = v
		if c.IsHard {
			violations += c.Weight * v
		} else {
			objective += c.Weight * v
		}
		if isWeighted {
			if c.IsHard {
				weighted += float64(m.HardWeight) * weights[i] * float64(v)
			} else {
				weighted += weights[i] * float64(v)
			}
		}
	}

	total := m.HardWeight*violations + objective
	if isWeighted {
		return cost.FromComponentsWeighted(total, weighted, violations, objective, components)
	}
	return cost.FromComponents(total, violations, objective, components)
}

// LowerBoundReached reports whether costs represents the trivial lower
// bound; the default definition is "all zero".
func (m *Manager[I, S, C]) LowerBoundReached(costs cost.Structure[C]) bool {
	var zero C
	if costs.Total != zero {
		return false
	}
	for _, c := range costs.Components {
		if c != zero {
			return false
		}
	}
	return true
}

// OptimalStateReached forwards through CostFunctionComponents by default.
func (m *Manager[I, S, C]) OptimalStateReached(in I, st S) bool {
	return m.LowerBoundReached(m.CostFunctionComponents(in, st, nil))
}

// RandomState generates a uniformly random state.
func (m *Manager[I, S, C]) RandomState(in I, rng *rand.Rand) S {
	st := m.Hooks.NewState(in)
	m.Hooks.RandomState(in, &st, rng)
	return st
}

// GreedyState builds a state via the plain (non-RCL) greedy hook if the
// problem implements one, else falls back to RandomState (spec.md §4.1:
// "Default behaviour is RandomState").
func (m *Manager[I, S, C]) GreedyState(in I, rng *rand.Rand) S {
	st := m.Hooks.NewState(in)
	if h, ok := m.Hooks.(GreedySimpleHook[I, S]); ok {
		h.GreedyStateSimple(in, &st)
		return st
	}
	m.Hooks.RandomState(in, &st, rng)
	return st
}

// GreedyStateRCL builds a state via GRASP-style restricted-candidate-list
// construction. Returns errkind.NotImplemented if the problem did not
// implement GreedyHook (spec.md §4.1 failure model).
func (m *Manager[I, S, C]) GreedyStateRCL(in I, alpha float64, k uint) (S, error) {
	var zero S
	h, ok := m.Hooks.(GreedyHook[I, S])
	if !ok {
		return zero, errkind.New(errkind.NotImplemented, m.Name, "GreedyState(alpha, k) not implemented by problem")
	}
	st := m.Hooks.NewState(in)
	h.GreedyState(in, &st, alpha, k)
	return st, nil
}

// SampleState generates `trials` random states and keeps the best by
// CostStructure ordering (spec.md §4.1).
func (m *Manager[I, S, C]) SampleState(in I, trials int, rng *rand.Rand) (S, cost.Structure[C]) {
	best := m.RandomState(in, rng)
	bestCost := m.CostFunctionComponents(in, best, nil)
	for t := 1; t < trials; t++ {
		st := m.RandomState(in, rng)
		c := m.CostFunctionComponents(in, st, nil)
		if cost.Compare(c, bestCost, m.Ordering) < 0 {
			best, bestCost = st, c
		}
	}
	return best, bestCost
}

// StateDistance forwards to the problem's DistanceHook. Returns
// errkind.NotImplemented if absent (spec.md §4.1 failure model).
func (m *Manager[I, S, C]) StateDistance(in I, s1, s2 S) (uint32, error) {
	h, ok := m.Hooks.(DistanceHook[I, S])
	if !ok {
		return 0, errkind.New(errkind.NotImplemented, m.Name, "StateDistance not implemented by problem")
	}
	return h.StateDistance(in, s1, s2), nil
}

// CheckConsistency forwards to the problem hook.
func (m *Manager[I, S, C]) CheckConsistency(in I, st S) bool {
	return m.Hooks.CheckConsistency(in, st)
}

// ToJSON/FromJSON forward to the problem hooks.
func (m *Manager[I, S, C]) ToJSON(in I, st S) (map[string]any, error) {
	return m.Hooks.ToJSON(in, st)
}

func (m *Manager[I, S, C]) FromJSON(in I, st *S, data map[string]any) error {
	return m.Hooks.FromJSON(in, st, data)
}
