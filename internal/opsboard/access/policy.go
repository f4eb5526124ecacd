package access

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// policyFile is the YAML layout of an access policy:
//
//	roles:
//	  - {name: admin, level: 2, description: ...}
//	features:
//	  reports: [admin, manager]
//	  profile: ["*"]
//	navigation:
//	  - {key: reports, path: /reports, label: Reports, feature: reports}
//	quick_actions:
//	  - role: admin
//	    actions: [{key: invite_user, label: Invite user, path: /invitations/new}]
type policyFile struct {
	Roles        []RoleInfo           `yaml:"roles"`
	Features     map[Feature][]string `yaml:"features"`
	Navigation   []NavigationItem     `yaml:"navigation"`
	QuickActions []QuickActionSet     `yaml:"quick_actions"`
}

// ParsePolicy decodes and validates a YAML access policy.
func ParsePolicy(data []byte) (*Matrix, error) {
	var pf policyFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		return nil, fmt.Errorf("access: decode policy: %w", err)
	}

	catalog, err := NewCatalog(pf.Roles...)
	if err != nil {
		return nil, err
	}

	rules := make(map[Feature]Rule, len(pf.Features))
	for f, members := range pf.Features {
		var rule Rule
		for _, m := range members {
			if m == AnyRole {
				rule.Any = true
				continue
			}
			rule.Roles = append(rule.Roles, Role(m))
		}
		rules[f] = rule
	}

	return NewMatrix(catalog, rules, pf.Navigation, pf.QuickActions)
}

// LoadPolicyFile reads and validates the policy at path.
func LoadPolicyFile(path string) (*Matrix, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("access: read policy: %w", err)
	}
	return ParsePolicy(data)
}
