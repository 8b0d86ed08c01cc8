package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry manages rule registration and lookup.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: make(map[string]Rule),
	}
}

// Register adds a rule to the registry.
// Panics if a rule with the same code is already registered or the code has no namespace.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := rule.Metadata().Code
	if !strings.Contains(code, "/") {
		panic(fmt.Sprintf("rule %q has no namespace", code))
	}
	if _, exists := r.rules[code]; exists {
		panic(fmt.Sprintf("rule %q already registered", code))
	}
	r.rules[code] = rule
}

// Get retrieves a rule by its code.
// Returns nil if no rule is found.
func (r *Registry) Get(code string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules[code]
}

// Has returns true if a rule with the given code is registered.
func (r *Registry) Has(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.rules[code]
	return exists
}

// All returns all registered rules sorted by code.
func (r *Registry) All() []Rule {
	return r.filter(func(Rule) bool { return true })
}

// Codes returns all registered rule codes sorted alphabetically.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ByNamespace returns the rules whose code starts with "<namespace>/".
func (r *Registry) ByNamespace(namespace string) []Rule {
	prefix := strings.TrimSuffix(namespace, "/") + "/"
	return r.filter(func(rule Rule) bool {
		return strings.HasPrefix(rule.Metadata().Code, prefix)
	})
}

// EnabledByDefault returns rules that are enabled by default.
func (r *Registry) EnabledByDefault() []Rule {
	return r.filter(func(rule Rule) bool { return rule.Metadata().EnabledByDefault })
}

// ByCategory returns rules filtered by category.
func (r *Registry) ByCategory(category string) []Rule {
	return r.filter(func(rule Rule) bool { return rule.Metadata().Category == category })
}

func (r *Registry) filter(keep func(Rule) bool) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		if keep(rule) {
			result = append(result, rule)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Metadata().Code < result[j].Metadata().Code
	})
	return result
}

// defaultRegistry is the global default registry.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds a rule to the default registry.
func Register(rule Rule) {
	defaultRegistry.Register(rule)
}

// Get retrieves a rule from the default registry.
func Get(code string) Rule {
	return defaultRegistry.Get(code)
}

// All returns all rules from the default registry.
func All() []Rule {
	return defaultRegistry.All()
}

// Codes returns all rule codes from the default registry.
func Codes() []string {
	return defaultRegistry.Codes()
}

// ByNamespace returns the rules of one namespace from the default registry.
func ByNamespace(namespace string) []Rule {
	return defaultRegistry.ByNamespace(namespace)
}
