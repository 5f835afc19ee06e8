package scrape

import (
	"fmt"
	"sort"
	"strings"

	"slot-aggregator/core/provider"
)

// Registry maps dispatch keys to adapter factories.
type Registry struct {
	factories map[string]Factory
	aliases   map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		aliases:   make(map[string]string),
	}
}

// Register adds a factory under kind and any aliases. Keys are case-insensitive.
func (r *Registry) Register(kind string, f Factory, aliases ...string) {
	key := normalizeKind(kind)
	r.factories[key] = f
	for _, a := range aliases {
		r.aliases[normalizeKind(a)] = key
	}
}

// Lookup returns the factory for kind, resolving aliases.
func (r *Registry) Lookup(kind string) (Factory, bool) {
	key := normalizeKind(kind)
	if target, ok := r.aliases[key]; ok {
		key = target
	}
	f, ok := r.factories[key]
	return f, ok
}

// Kinds lists every registered key and alias, sorted.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.factories)+len(r.aliases))
	for k := range r.factories {
		out = append(out, k)
	}
	for k := range r.aliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Skip is a configuration rejected before the run.
type Skip struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Validate splits configs into runnable ones and skips. Missing ids, duplicate ids
// and unknown dispatch keys are skipped; the first record with a given id wins.
func (r *Registry) Validate(configs []provider.Config) ([]provider.Config, []Skip) {
	var valid []provider.Config
	var skipped []Skip
	seen := make(map[string]bool, len(configs))

	for i, c := range configs {
		switch {
		case c.ID == "":
			skipped = append(skipped, Skip{ID: fmt.Sprintf("#%d", i), Type: c.Type, Reason: provider.Configf("missing id").Error()})
		case seen[c.ID]:
			skipped = append(skipped, Skip{ID: c.ID, Type: c.Type, Reason: provider.Configf("duplicate id").Error()})
		default:
			seen[c.ID] = true
			if _, ok := r.Lookup(c.Type); !ok {
				skipped = append(skipped, Skip{ID: c.ID, Type: c.Type, Reason: provider.Configf("unknown scraper type %q", c.Type).Error()})
				continue
			}
			valid = append(valid, c)
		}
	}
	return valid, skipped
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
