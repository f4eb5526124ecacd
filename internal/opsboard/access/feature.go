package access

import "slices"

// Feature is a named capability gated independently of raw role identity.
type Feature string

const (
	FeatureDashboard         Feature = "dashboard"
	FeatureProfile           Feature = "profile"
	FeatureCalendar          Feature = "calendar"
	FeatureExpenses          Feature = "expenses"
	FeatureVouchers          Feature = "vouchers"
	FeatureReports           Feature = "reports"
	FeatureManageUsers       Feature = "manage_users"
	FeatureManageInvitations Feature = "manage_invitations"
	FeatureAdminDashboard    Feature = "admin_dashboard"
)

// AnyRole is the wildcard accepted in policy files.
const AnyRole = "*"

// Rule lists the roles granted a feature. Any grants every known role.
type Rule struct {
	Any   bool
	Roles []Role
}

// Allow builds a rule for the listed roles.
func Allow(roles ...Role) Rule { return Rule{Roles: roles} }

// AllowAny builds a wildcard rule.
func AllowAny() Rule { return Rule{Any: true} }

func (r Rule) permits(role Role) bool {
	return r.Any || slices.Contains(r.Roles, role)
}

func defaultRules() map[Feature]Rule {
	return map[Feature]Rule{
		FeatureDashboard:         AllowAny(),
		FeatureProfile:           AllowAny(),
		FeatureCalendar:          AllowAny(),
		FeatureExpenses:          AllowAny(),
		FeatureVouchers:          Allow(SuperAdmin, Admin, Manager, Accountant),
		FeatureReports:           Allow(SuperAdmin, Admin, Manager, Accountant),
		FeatureManageUsers:       Allow(SuperAdmin, Admin),
		FeatureManageInvitations: Allow(SuperAdmin, Admin, Manager),
		FeatureAdminDashboard:    Allow(SuperAdmin, Admin),
	}
}
