package access

import (
	"errors"
	"fmt"
	"strings"
)

// Matrix is the validated combination of catalog, feature rules, navigation
// table and quick actions. It is immutable once built.
type Matrix struct {
	catalog    *Catalog
	rules      map[Feature]Rule
	navigation []NavigationItem
	quick      map[Role][]QuickAction
}

// NewMatrix validates the tables against each other. Every navigation item
// must carry exactly one gate, feature gates must have a rule, role gates
// and rule members must exist in the catalog, keys and paths must be unique,
// and the quick-action table must hold exactly one row per catalog role.
func NewMatrix(catalog *Catalog, rules map[Feature]Rule, navigation []NavigationItem, quick []QuickActionSet) (*Matrix, error) {
	if catalog == nil {
		return nil, errors.New("access: nil catalog")
	}

	var errs []error

	for f, rule := range rules {
		if f == "" {
			errs = append(errs, errors.New("access: rule with empty feature key"))
		}
		if !rule.Any && len(rule.Roles) == 0 {
			errs = append(errs, fmt.Errorf("access: feature %q grants no roles", f))
		}
		for _, r := range rule.Roles {
			if !catalog.has(r) {
				errs = append(errs, fmt.Errorf("access: feature %q references unknown role %q", f, r))
			}
		}
	}

	keys := make(map[NavKey]struct{}, len(navigation))
	paths := make(map[string]struct{}, len(navigation))
	for _, item := range navigation {
		if item.Key == "" {
			errs = append(errs, fmt.Errorf("access: navigation item at %q has no key", item.Path))
		}
		if _, dup := keys[item.Key]; dup {
			errs = append(errs, fmt.Errorf("access: duplicate navigation key %q", item.Key))
		}
		keys[item.Key] = struct{}{}

		if !strings.HasPrefix(item.Path, "/") {
			errs = append(errs, fmt.Errorf("access: navigation item %q path %q must start with /", item.Key, item.Path))
		}
		if _, dup := paths[item.Path]; dup {
			errs = append(errs, fmt.Errorf("access: duplicate navigation path %q", item.Path))
		}
		paths[item.Path] = struct{}{}

		mode, err := item.Mode()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch mode {
		case GateFeature:
			if _, ok := rules[item.Feature]; !ok {
				errs = append(errs, fmt.Errorf("access: navigation item %q requires feature %q which has no rule", item.Key, item.Feature))
			}
		case GateRole:
			if !catalog.has(item.Role) {
				errs = append(errs, fmt.Errorf("access: navigation item %q requires unknown role %q", item.Key, item.Role))
			}
		case GateMinLevel:
			if item.MinLevel < 0 {
				errs = append(errs, fmt.Errorf("access: navigation item %q has negative min level", item.Key))
			}
		}
	}

	quickByRole := make(map[Role][]QuickAction, len(quick))
	for _, set := range quick {
		if !catalog.has(set.Role) {
			errs = append(errs, fmt.Errorf("access: quick actions for unknown role %q", set.Role))
			continue
		}
		if _, dup := quickByRole[set.Role]; dup {
			errs = append(errs, fmt.Errorf("access: quick actions defined twice for role %q", set.Role))
			continue
		}
		quickByRole[set.Role] = set.Actions
	}
	for _, r := range catalog.order {
		if _, ok := quickByRole[r]; !ok {
			errs = append(errs, fmt.Errorf("access: no quick actions for role %q", r))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	ruleCopy := make(map[Feature]Rule, len(rules))
	for f, r := range rules {
		r.Roles = append([]Role(nil), r.Roles...)
		ruleCopy[f] = r
	}

	return &Matrix{
		catalog:    catalog,
		rules:      ruleCopy,
		navigation: append([]NavigationItem(nil), navigation...),
		quick:      quickByRole,
	}, nil
}

// DefaultMatrix returns the built-in access matrix.
func DefaultMatrix() *Matrix {
	m, err := NewMatrix(DefaultCatalog(), defaultRules(), defaultNavigation(), defaultQuickActions())
	if err != nil {
		panic(err)
	}
	return m
}

// Catalog returns the matrix's role catalog.
func (m *Matrix) Catalog() *Catalog { return m.catalog }

// Features returns every feature that has a rule.
func (m *Matrix) Features() []Feature {
	out := make([]Feature, 0, len(m.rules))
	for f := range m.rules {
		out = append(out, f)
	}
	return out
}

// Navigation returns the full navigation table in declaration order.
func (m *Matrix) Navigation() []NavigationItem {
	return append([]NavigationItem(nil), m.navigation...)
}
