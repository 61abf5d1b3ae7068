package permissions

import (
	"fmt"

	"github.com/voltgrid/auth-server/identities"
)

// Action names shared across features.
const (
	ActionAccess   = "access"
	ActionCreate   = "create"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionExport   = "export"
	ActionDispatch = "dispatch"
)

// FeatureSpec declares one feature and the allowance for each of its actions.
type FeatureSpec struct {
	Name    string
	Actions map[string]Allowance
}

// Registry is the capability table: an immutable feature × action × role
// map built once at startup. Lookups never mutate it, so unbounded
// concurrent reads are safe without locking. If runtime updates are ever
// needed, build a new Registry and swap the pointer atomically.
type Registry struct {
	features map[string]map[string]Allowance
	strict   bool
}

type RegistryOption func(*Registry)

// WithStrictActions makes lookups of undeclared actions on known features
// panic instead of silently denying. Intended for DEV and test builds so
// action-name typos surface immediately; production stays fail-closed.
func WithStrictActions() RegistryOption {
	return func(r *Registry) {
		r.strict = true
	}
}

// NewRegistry builds the capability table from feature specs. Group
// expansion has already happened inside each Allowance.
func NewRegistry(specs []FeatureSpec, options ...RegistryOption) *Registry {
	features := make(map[string]map[string]Allowance, len(specs))
	for _, spec := range specs {
		actions := make(map[string]Allowance, len(spec.Actions))
		for action, allowance := range spec.Actions {
			actions[action] = allowance
		}
		features[spec.Name] = actions
	}

	r := &Registry{features: features}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Allowed reports whether the role may perform the action on the feature.
// Unknown features and undeclared actions deny (fail-closed), never error.
func (r *Registry) Allowed(role identities.Role, feature, action string) bool {
	actions, ok := r.features[feature]
	if !ok {
		return false
	}
	allowance, ok := actions[action]
	if !ok {
		if r.strict {
			panic(fmt.Sprintf("permissions: feature %q does not declare action %q", feature, action))
		}
		return false
	}
	return allowance.Permits(role)
}

// ForFeature resolves every declared action of a feature for the role,
// returned as a full map for UI gating. Unknown features return an empty
// map: all absent, effectively all denied.
func (r *Registry) ForFeature(role identities.Role, feature string) map[string]bool {
	actions, ok := r.features[feature]
	if !ok {
		return map[string]bool{}
	}
	result := make(map[string]bool, len(actions))
	for action, allowance := range actions {
		result[action] = allowance.Permits(role)
	}
	return result
}

// Features lists the declared feature names.
func (r *Registry) Features() []string {
	names := make([]string, 0, len(r.features))
	for name := range r.features {
		names = append(names, name)
	}
	return names
}
