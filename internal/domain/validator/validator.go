// Package validator holds the single-table validators used by the legacy
// ReportV0 path, and the registry that resolves them by kind.
package validator

import (
	"fmt"
	"sort"

	"github.com/fairyhq/fairy/internal/domain"
)

// GenericKind is the fallback kind used when no validator matches.
const GenericKind = "generic"

// Validator summarizes one table and reports per-cell warnings.
type Validator interface {
	Name() string
	Version() string
	Validate(t *domain.Table) domain.Meta
}

// Registry maps kinds to validators. It is built once at startup and passed
// to whatever needs it.
type Registry struct {
	validators map[string]Validator
}

// NewRegistry returns a registry holding the given validators, keyed by
// their names. Later entries replace earlier ones with the same name.
func NewRegistry(vs ...Validator) *Registry {
	r := &Registry{validators: make(map[string]Validator, len(vs))}
	for _, v := range vs {
		r.validators[v.Name()] = v
	}
	return r
}

// NewDefaultRegistry returns a registry with the rna and generic validators.
func NewDefaultRegistry() *Registry {
	return NewRegistry(RNA{}, Generic{})
}

// Lookup returns the validator registered for kind, without fallback.
func (r *Registry) Lookup(kind string) (Validator, bool) {
	v, ok := r.validators[kind]
	return v, ok
}

// Resolve returns the validator for kind, falling back to the generic
// validator. It fails only when neither is registered.
func (r *Registry) Resolve(kind string) (Validator, error) {
	if v, ok := r.validators[kind]; ok {
		return v, nil
	}
	if v, ok := r.validators[GenericKind]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: no validator registered for kind %q or %q", domain.ErrConfiguration, kind, GenericKind)
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.validators))
	for k := range r.validators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func capWarnings(items []domain.WarningItem) []domain.WarningItem {
	if len(items) > domain.MaxWarnings {
		return items[:domain.MaxWarnings]
	}
	return items
}
