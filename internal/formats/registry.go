package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
)

// ErrUnrecognizedFormat is returned when no registered pattern matches a
// filename. It is distinct from load failures, which surface the underlying
// I/O or parse error instead.
var ErrUnrecognizedFormat = errors.New("unrecognized instrument format")

// Binding pairs a filename pattern with the constructor for the handler that
// parses files of that format. Patterns are anchored at the start of the base
// filename, matching how instrument exports are named.
type Binding struct {
	// Name identifies the naming convention (a vendor may have several).
	Name string
	// Handler names the handler type the binding constructs.
	Handler string
	Pattern *regexp.Regexp
	New     Constructor
}

// Registry is the ordered dispatch table from filename patterns to handler
// constructors. Evaluation order is fixed: overlapping patterns resolve to the
// earliest binding. The registry is populated at process start and never
// mutated afterwards.
type Registry struct {
	bindings []Binding
}

// NewRegistry builds a registry evaluating bindings in the given order.
func NewRegistry(bindings ...Binding) *Registry {
	owned := make([]Binding, len(bindings))
	copy(owned, bindings)
	return &Registry{bindings: owned}
}

// Defaults returns the canonical registry of supported instrument formats.
// FastCharge and plain Arbin naming both construct the Arbin handler; the
// xTesladiag convention shares the Maccor handler. Order matters: the
// xTesladiag pattern is a subset of the general Maccor one.
func Defaults() *Registry {
	return NewRegistry(
		Binding{Name: "fastcharge", Handler: "arbin", Pattern: regexp.MustCompile(`^FastCharge_\d+_CH\d+\.csv`), New: NewArbin},
		Binding{Name: "arbin", Handler: "arbin", Pattern: regexp.MustCompile(`^.*CH\d+\.csv`), New: NewArbin},
		Binding{Name: "xtesladiag", Handler: "maccor", Pattern: regexp.MustCompile(`^xTESLADIAG_.*\.\d{3}`), New: NewMaccor},
		Binding{Name: "maccor", Handler: "maccor", Pattern: regexp.MustCompile(`^.*\.\d{3}`), New: NewMaccor},
		Binding{Name: "indigo", Handler: "indigo", Pattern: regexp.MustCompile(`^.*_indigo_.*\.json`), New: NewIndigo},
		Binding{Name: "biologic", Handler: "biologic", Pattern: regexp.MustCompile(`^.*\.mpt`), New: NewBiologic},
		Binding{Name: "neware", Handler: "neware", Pattern: regexp.MustCompile(`^.*neware.*\.csv`), New: NewNeware},
	)
}

// Bindings returns a copy of the dispatch table in evaluation order.
func (r *Registry) Bindings() []Binding {
	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Lookup classifies a filename and returns the first matching binding.
// Matching is against the base name, not the full path.
func (r *Registry) Lookup(path string) (Binding, error) {
	base := filepath.Base(path)
	for _, binding := range r.bindings {
		if binding.Pattern.MatchString(base) {
			return binding, nil
		}
	}
	return Binding{}, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, base)
}

// Open classifies the file at path and constructs its handler, loading the raw
// content. A dispatch miss returns ErrUnrecognizedFormat; load failures return
// the handler's own error.
func (r *Registry) Open(path string) (Datapath, error) {
	binding, err := r.Lookup(path)
	if err != nil {
		return nil, err
	}
	return binding.New(path)
}
