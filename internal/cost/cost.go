// Package cost implements the CostStructure and CostComponent value types
// of spec.md §3-4.1: aggregation of hard/soft cost terms with either flat
// (weighted-sum) or hierarchical (lexicographic) ordering.
//
// Grounded on the arithmetic/ordering split documented in
// _examples/original_source/include/easylocal/helpers/coststructure.hh
// (DefaultCostStructure's operator+=/-=/< family), adapted from C++ operator
// overloads to explicit methods per spec.md §9 design notes, and on the
// teacher's (r3b0rn-acc-flowShop) plain numeric-config style.
package cost

import "math"

// Number is the set of cost-value types the engine supports: integer by
// default, float for problems that need it (spec.md §3).
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// DefaultHardWeight is the default multiplier of the violations term when
// StateManager assembles Total = HardWeight*Violations + Objective (spec.md §4.1). Exposed as a
// variable rather than a language constant so a StateManager can override it
// per spec.md §9 ("expose as a builder parameter rather than a module-wide
// define"); the package-level default matches the original HARD_WEIGHT.
var DefaultHardWeight = 1000

// Structure is the CostStructure value object: total, violations, objective,
// an optional weighted scalar, and the ordered per-component raw values.
// Components[i] is never pre-multiplied by weights.
type Structure[C Number] struct {
	Total      C
	Violations C
	Objective  C
	Weighted   float64
	IsWeighted bool
	Components []C
}

// Zero returns the additive identity CostStructure.
func Zero[C Number]() Structure[C] {
	return Structure[C]{}
}

// FromComponents builds a Structure from already-computed total/violations/
// objective and the raw per-component values.
func FromComponents[C Number](total, violations, objective C, components []C) Structure[C] {
	return Structure[C]{Total: total, Violations: violations, Objective: objective, Components: components}
}

// FromComponentsWeighted is FromComponents plus a weighted scalar, used when
// the StateManager was given per-component weights.
func FromComponentsWeighted[C Number](total C, weighted float64, violations, objective C, components []C) Structure[C] {
	return Structure[C]{Total: total, Violations: violations, Objective: objective, Weighted: weighted, IsWeighted: true, Components: components}
}

func zeroPad[C Number](dst []C, n int) []C {
	if len(dst) >= n {
		return dst
	}
	out := make([]C, n)
	copy(out, dst)
	return out
}

// AddAssign adds other into s in place: total/violations/objective add
// directly, components zero-pad the shorter side then add elementwise.
// Replaces the original's operator+= per spec.md §9.
func (s *Structure[C]) AddAssign(other Structure[C]) {
	s.Total += other.Total
	s.Violations += other.Violations
	s.Objective += other.Objective
	n := len(other.Components)
	s.Components = zeroPad(s.Components, n)
	for i := 0; i < n; i++ {
		s.Components[i] += other.Components[i]
	}
}

// SubAssign is the in-place inverse of AddAssign.
func (s *Structure[C]) SubAssign(other Structure[C]) {
	s.Total -= other.Total
	s.Violations -= other.Violations
	s.Objective -= other.Objective
	n := len(other.Components)
	s.Components = zeroPad(s.Components, n)
	for i := 0; i < n; i++ {
		s.Components[i] -= other.Components[i]
	}
}

// Add returns a new Structure equal to a+b, leaving both operands untouched.
func Add[C Number](a, b Structure[C]) Structure[C] {
	r := Clone(a)
	r.AddAssign(b)
	return r
}

// Sub returns a new Structure equal to a-b, leaving both operands untouched.
func Sub[C Number](a, b Structure[C]) Structure[C] {
	r := Clone(a)
	r.SubAssign(b)
	return r
}

// Clone returns a deep copy of s: the Components backing array is copied
// rather than shared, so mutating the clone's Components via AddAssign/
// SubAssign never affects s's.
func Clone[C Number](s Structure[C]) Structure[C] {
	comps := make([]C, len(s.Components))
	copy(comps, s.Components)
	s.Components = comps
	return s
}

// Tolerance is the absolute tolerance used by ApproxEqual, matching the
// "approximate equality predicate" of spec.md §3 for floating cost types.
var Tolerance = 1e-9

func approxEqual[C Number](a, b C) bool {
	return math.Abs(float64(a)-float64(b)) <= Tolerance
}

// Ordering selects between the flat and hierarchical comparison rules of
// spec.md §3.
type Ordering int

const (
	// Flat orders by Weighted when both sides are weighted, else by Total.
	Flat Ordering = iota
	// Hierarchical orders lexicographically over Components; the first
	// differing index decides and subsequent indices are ignored.
	Hierarchical
)

// Compare returns -1, 0, 1 for a<b, a==b, a>b under the given Ordering.
func Compare[C Number](a, b Structure[C], ordering Ordering) int {
	switch ordering {
	case Hierarchical:
		return compareHierarchical(a, b)
	default:
		return compareFlat(a, b)
	}
}

func compareFlat[C Number](a, b Structure[C]) int {
	if a.IsWeighted && b.IsWeighted {
		return cmpFloat(a.Weighted, b.Weighted)
	}
	return cmpNumber(a.Total, b.Total)
}

// compareHierarchical implements the lexicographic rule and explicitly does
// not fall back to the flat weighted path, per spec.md §9 ("does not
// inherit the flat weighted path" — several TODOs in the original suggested
// otherwise; this is the documented Open Question resolution, see
// DESIGN.md).
func compareHierarchical[C Number](a, b Structure[C]) int {
	n := len(a.Components)
	if len(b.Components) > n {
		n = len(b.Components)
	}
	ac := zeroPad(a.Components, n)
	bc := zeroPad(b.Components, n)
	for i := 0; i < n; i++ {
		if c := cmpNumber(ac[i], bc[i]); c != 0 {
			return c
		}
	}
	return 0
}

func cmpNumber[C Number](a, b C) int {
	if approxEqual(a, b) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cmpFloat(a, b float64) int {
	if math.Abs(a-b) <= Tolerance {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

// EqualScalar compares a Structure against a bare scalar. spec.md §3 flags
// this as "convenience only" and "semantically dubious" — kept for parity
// with the original's hybrid operator==, but callers should prefer Compare
// against another Structure.
func EqualScalar[C Number](s Structure[C], scalar C, ordering Ordering) bool {
	if ordering == Hierarchical {
		// No natural hierarchical reading of a bare scalar: fall back to Total.
		return approxEqual(s.Total, scalar)
	}
	if s.IsWeighted {
		return math.Abs(s.Weighted-float64(scalar)) <= Tolerance
	}
	return approxEqual(s.Total, scalar)
}

// Component is a single named term of the cost function (spec.md §3): its
// value times Weight is added to Violations for a hard constraint and to
// Objective for a soft term. Identified by Hash, used by StateManager to
// index components.
type Component[I any, S any, C Number] struct {
	Name   string
	Weight C
	IsHard bool
	Hash   uint64
	Fn     func(in I, st S) C
}

// NewComponent builds a Component; Hash is derived from Name so that two
// components with the same name collide deterministically (mirrors the
// original's std::hash<std::string> keyed lookup).
func NewComponent[I any, S any, C Number](name string, weight C, isHard bool, fn func(in I, st S) C) Component[I, S, C] {
	return Component[I, S, C]{Name: name, Weight: weight, IsHard: isHard, Hash: fnvHash(name), Fn: fn}
}

func fnvHash(s string) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}

// Evaluate computes the raw cost of this component on (in, st).
func (c Component[I, S, C]) Evaluate(in I, st S) C {
	return c.Fn(in, st)
}
