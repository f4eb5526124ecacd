package access

import "fmt"

// NavKey identifies a navigation item.
type NavKey string

const (
	NavDashboard   NavKey = "dashboard"
	NavProfile     NavKey = "profile"
	NavCalendar    NavKey = "calendar"
	NavExpenses    NavKey = "expenses"
	NavVouchers    NavKey = "vouchers"
	NavReports     NavKey = "reports"
	NavUsers       NavKey = "users"
	NavInvitations NavKey = "invitations"
	NavAdmin       NavKey = "admin"
	NavSettings    NavKey = "settings"
	NavAudit       NavKey = "audit"
)

// GateMode says which field of a NavigationItem gates it.
type GateMode string

const (
	GateFeature  GateMode = "feature"
	GateRole     GateMode = "role"
	GateMinLevel GateMode = "min_level"
)

// NavigationItem is one entry of the navigation table. Exactly one of
// Feature, Role and MinLevel is set.
type NavigationItem struct {
	Key      NavKey  `json:"key" yaml:"key"`
	Path     string  `json:"path" yaml:"path"`
	Label    string  `json:"label" yaml:"label"`
	Feature  Feature `json:"feature,omitempty" yaml:"feature,omitempty"`
	Role     Role    `json:"role,omitempty" yaml:"role,omitempty"`
	MinLevel int     `json:"min_level,omitempty" yaml:"min_level,omitempty"`
}

// Mode returns the item's gating mode, or an error unless exactly one is set.
func (n NavigationItem) Mode() (GateMode, error) {
	var modes []GateMode
	if n.Feature != "" {
		modes = append(modes, GateFeature)
	}
	if n.Role != "" {
		modes = append(modes, GateRole)
	}
	if n.MinLevel != 0 {
		modes = append(modes, GateMinLevel)
	}
	if len(modes) != 1 {
		return "", fmt.Errorf("access: navigation item %q must have exactly one gate, has %d", n.Key, len(modes))
	}
	return modes[0], nil
}

// QuickAction is a dashboard shortcut offered to a role.
type QuickAction struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}

// QuickActionSet is the quick-action table row for one role.
type QuickActionSet struct {
	Role    Role          `yaml:"role"`
	Actions []QuickAction `yaml:"actions"`
}

func defaultNavigation() []NavigationItem {
	return []NavigationItem{
		{Key: NavDashboard, Path: "/", Label: "Dashboard", Feature: FeatureDashboard},
		{Key: NavProfile, Path: "/profile", Label: "My Profile", Feature: FeatureProfile},
		{Key: NavCalendar, Path: "/calendar", Label: "Calendar", Feature: FeatureCalendar},
		{Key: NavExpenses, Path: "/expenses", Label: "Expenses", Feature: FeatureExpenses},
		{Key: NavVouchers, Path: "/vouchers", Label: "Vouchers", Feature: FeatureVouchers},
		{Key: NavReports, Path: "/reports", Label: "Reports", Feature: FeatureReports},
		{Key: NavUsers, Path: "/users", Label: "Users", Feature: FeatureManageUsers},
		{Key: NavInvitations, Path: "/invitations", Label: "Invitations", Feature: FeatureManageInvitations},
		{Key: NavAdmin, Path: "/admin", Label: "Admin Dashboard", Feature: FeatureAdminDashboard},
		{Key: NavSettings, Path: "/settings", Label: "Settings", MinLevel: 2},
		{Key: NavAudit, Path: "/audit", Label: "Audit Log", Role: SuperAdmin},
	}
}

func defaultQuickActions() []QuickActionSet {
	return []QuickActionSet{
		{Role: SuperAdmin, Actions: []QuickAction{
			{Key: "invite_user", Label: "Invite user", Path: "/invitations/new"},
			{Key: "view_audit", Label: "Review audit log", Path: "/audit"},
			{Key: "system_settings", Label: "System settings", Path: "/settings"},
		}},
		{Role: Admin, Actions: []QuickAction{
			{Key: "invite_user", Label: "Invite user", Path: "/invitations/new"},
			{Key: "manage_users", Label: "Manage users", Path: "/users"},
			{Key: "view_reports", Label: "View reports", Path: "/reports"},
		}},
		{Role: Manager, Actions: []QuickAction{
			{Key: "invite_team_member", Label: "Invite team member", Path: "/invitations/new"},
			{Key: "approve_expenses", Label: "Approve expenses", Path: "/expenses?status=submitted"},
			{Key: "view_reports", Label: "View reports", Path: "/reports"},
		}},
		{Role: Accountant, Actions: []QuickAction{
			{Key: "new_voucher", Label: "New voucher", Path: "/vouchers/new"},
			{Key: "review_expenses", Label: "Review expenses", Path: "/expenses"},
			{Key: "financial_reports", Label: "Financial reports", Path: "/reports"},
		}},
		{Role: Employee, Actions: []QuickAction{
			{Key: "submit_expense", Label: "Submit expense", Path: "/expenses/new"},
			{Key: "view_calendar", Label: "View calendar", Path: "/calendar"},
			{Key: "edit_profile", Label: "Edit profile", Path: "/profile"},
		}},
	}
}
