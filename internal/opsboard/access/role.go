// Package access resolves what each role may see and do: the role catalog,
// the feature rules and the navigation table, validated together as one
// Matrix.
package access

import (
	"errors"
	"fmt"
	"slices"
)

// Role is a role name from the catalog.
type Role string

const (
	SuperAdmin Role = "super_admin"
	Admin      Role = "admin"
	Manager    Role = "manager"
	Accountant Role = "accountant"
	Employee   Role = "employee"
)

// RoleInfo describes a catalog entry. Lower Level means more privileged.
type RoleInfo struct {
	Name        Role   `json:"name" yaml:"name"`
	Level       int    `json:"level" yaml:"level"`
	Description string `json:"description" yaml:"description"`
}

// Catalog is the immutable table of known roles.
type Catalog struct {
	roles map[Role]RoleInfo
	order []Role
}

// NewCatalog builds a catalog, rejecting empty or duplicate names and
// non-positive levels.
func NewCatalog(roles ...RoleInfo) (*Catalog, error) {
	if len(roles) == 0 {
		return nil, errors.New("access: catalog has no roles")
	}

	c := &Catalog{roles: make(map[Role]RoleInfo, len(roles))}
	for _, r := range roles {
		if r.Name == "" {
			return nil, errors.New("access: role with empty name")
		}
		if r.Level <= 0 {
			return nil, fmt.Errorf("access: role %q has non-positive level %d", r.Name, r.Level)
		}
		if _, dup := c.roles[r.Name]; dup {
			return nil, fmt.Errorf("access: duplicate role %q", r.Name)
		}
		c.roles[r.Name] = r
		c.order = append(c.order, r.Name)
	}
	return c, nil
}

// DefaultCatalog returns the built-in five role hierarchy.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		RoleInfo{Name: SuperAdmin, Level: 1, Description: "Full control including system settings and audit"},
		RoleInfo{Name: Admin, Level: 2, Description: "Manages users, invitations and all operational data"},
		RoleInfo{Name: Manager, Level: 3, Description: "Runs a department: approvals, reports and team invitations"},
		RoleInfo{Name: Accountant, Level: 4, Description: "Vouchers, expenses and financial reports"},
		RoleInfo{Name: Employee, Level: 5, Description: "Own profile, calendar and expense submissions"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// GetRole looks up a role by name.
func (c *Catalog) GetRole(name string) (RoleInfo, bool) {
	r, ok := c.roles[Role(name)]
	return r, ok
}

// LevelOf returns the hierarchy level of a role.
func (c *Catalog) LevelOf(name string) (int, bool) {
	r, ok := c.roles[Role(name)]
	return r.Level, ok
}

// HasMinimumLevel reports whether name is at least as privileged as
// requiredLevel. Unknown roles never qualify.
func (c *Catalog) HasMinimumLevel(name string, requiredLevel int) bool {
	level, ok := c.LevelOf(name)
	return ok && level <= requiredLevel
}

// Roles returns all roles in declaration order.
func (c *Catalog) Roles() []RoleInfo {
	out := make([]RoleInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.roles[name])
	}
	return out
}

func (c *Catalog) has(r Role) bool {
	return slices.Contains(c.order, r)
}
