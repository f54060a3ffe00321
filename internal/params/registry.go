package params

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"github.com/r3b0rn/localsearch/internal/errkind"
)

// Registry aggregates every component's Box, keyed by prefix, and exposes
// the CLI (--<prefix>::<name>) and JSON ({"<prefix>": {"<name>": ...}})
// surfaces of spec.md §6.
type Registry struct {
	boxes map[string]*Box
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{boxes: make(map[string]*Box)}
}

// Box returns the named Box, creating it if this is the first reference.
func (r *Registry) Box(prefix string) *Box {
	b, ok := r.boxes[prefix]
	if !ok {
		b = NewBox(prefix)
		r.boxes[prefix] = b
	}
	return b
}

// Prefixes returns every registered prefix in sorted order.
func (r *Registry) Prefixes() []string {
	out := make([]string, 0, len(r.boxes))
	for p := range r.boxes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// flagName builds the --<prefix>::<name> flag spelling of spec.md §6.
func flagName(prefix, name string) string {
	return prefix + "::" + name
}

// BindPFlags registers a string flag per parameter across every Box on fs,
// spelled --<prefix>::<name> (spec.md §6). pflag's own --help output is the
// "auto-generated text" spec.md names; values are parsed as strings here and
// coerced to each parameter's declared type by Box.SetString, since pflag
// has no single flag constructor generic over Parameter's declared type.
func (r *Registry) BindPFlags(fs *pflag.FlagSet) {
	for _, prefix := range r.Prefixes() {
		b := r.Box(prefix)
		for _, d := range b.Describe() {
			fs.String(flagName(prefix, d.Name), "", fmt.Sprintf("[%s] %s", prefix, d.Description))
		}
	}
}

// ApplyPFlags reads every flag that was explicitly set on fs and applies it
// to the matching Box/Parameter. Call after fs.Parse.
func (r *Registry) ApplyPFlags(fs *pflag.FlagSet) error {
	var firstErr error
	fs.Visit(func(f *pflag.Flag) {
		if firstErr != nil {
			return
		}
		prefix, name, ok := strings.Cut(f.Name, "::")
		if !ok {
			return
		}
		b, exists := r.boxes[prefix]
		if !exists {
			firstErr = errkind.New(errkind.IncorrectParameterValue, prefix, "unknown parameter prefix: "+prefix)
			return
		}
		if err := b.SetString(name, f.Value.String()); err != nil {
			firstErr = err
		}
	})
	return firstErr
}

// ToJSON renders every Box's parameters under its prefix (spec.md §6's
// `{ "<prefix>": { "<name>": <value>, ... }, ... }` surface), encoded with
// goccy/go-json.
func (r *Registry) ToJSON() ([]byte, error) {
	out := make(map[string]any, len(r.boxes))
	for _, prefix := range r.Prefixes() {
		out[prefix] = r.boxes[prefix].ToJSON()
	}
	return json.Marshal(out)
}

// FromJSON applies a `{"<prefix>": {"<name>": <value>, ...}, ...}` document
// to the matching boxes.
func (r *Registry) FromJSON(data []byte) error {
	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return errkind.Wrap(errkind.IncorrectParameterValue, "registry", "FromJSON", err)
	}
	for prefix, values := range doc {
		b, ok := r.boxes[prefix]
		if !ok {
			return errkind.New(errkind.IncorrectParameterValue, "registry", "unknown parameter prefix: "+prefix)
		}
		if err := b.FromJSON(values); err != nil {
			return err
		}
	}
	return nil
}
