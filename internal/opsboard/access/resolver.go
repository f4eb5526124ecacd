package access

import "strings"

// Resolver answers access questions against a Matrix. All methods are pure
// and safe for concurrent use.
type Resolver struct {
	m *Matrix
}

// NewResolver returns a resolver over m.
func NewResolver(m *Matrix) *Resolver {
	return &Resolver{m: m}
}

// Catalog exposes the underlying role catalog.
func (r *Resolver) Catalog() *Catalog { return r.m.catalog }

// Matrix exposes the underlying matrix.
func (r *Resolver) Matrix() *Matrix { return r.m }

// HasFeatureAccess reports whether role may use feature. Unknown roles and
// unregistered features are denied.
func (r *Resolver) HasFeatureAccess(role string, feature Feature) bool {
	if !r.m.catalog.has(Role(role)) {
		return false
	}
	rule, ok := r.m.rules[feature]
	if !ok {
		return false
	}
	return rule.permits(Role(role))
}

// HasRoleLevel reports whether role is at least as privileged as minLevel.
func (r *Resolver) HasRoleLevel(role string, minLevel int) bool {
	return r.m.catalog.HasMinimumLevel(role, minLevel)
}

// CanAccess checks role against the item's single gating mode.
func (r *Resolver) CanAccess(role string, item NavigationItem) bool {
	mode, err := item.Mode()
	if err != nil {
		return false
	}

	switch mode {
	case GateFeature:
		return r.HasFeatureAccess(role, item.Feature)
	case GateRole:
		return r.m.catalog.has(Role(role)) && Role(role) == item.Role
	case GateMinLevel:
		return r.HasRoleLevel(role, item.MinLevel)
	default:
		return false
	}
}

// VisibleNavigation returns the items role may access, in declaration order.
func (r *Resolver) VisibleNavigation(role string) []NavigationItem {
	var out []NavigationItem
	for _, item := range r.m.navigation {
		if r.CanAccess(role, item) {
			out = append(out, item)
		}
	}
	return out
}

// LandingPath is the first navigation path visible to role, or "" if none.
func (r *Resolver) LandingPath(role string) string {
	for _, item := range r.m.navigation {
		if r.CanAccess(role, item) {
			return item.Path
		}
	}
	return ""
}

// ItemByKey finds a navigation item by key.
func (r *Resolver) ItemByKey(key NavKey) (NavigationItem, bool) {
	for _, item := range r.m.navigation {
		if item.Key == key {
			return item, true
		}
	}
	return NavigationItem{}, false
}

// ItemByPath finds the navigation item owning path: an exact match, or the
// longest item path that is a segment prefix of it. "/" only matches itself.
func (r *Resolver) ItemByPath(path string) (NavigationItem, bool) {
	var (
		best  NavigationItem
		found bool
	)
	for _, item := range r.m.navigation {
		if item.Path == path {
			return item, true
		}
		if item.Path == "/" || !strings.HasPrefix(path, item.Path+"/") {
			continue
		}
		if !found || len(item.Path) > len(best.Path) {
			best, found = item, true
		}
	}
	return best, found
}

// QuickActions returns the quick-action row for role, or nil for unknown
// roles.
func (r *Resolver) QuickActions(role string) []QuickAction {
	return append([]QuickAction(nil), r.m.quick[Role(role)]...)
}
