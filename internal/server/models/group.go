package models

import "strings"

// AdminRule grants every permission.
const AdminRule = "*:*"

// AdminsGroup is the name of the group superusers are added to.
const AdminsGroup = "Admins"

// Group is a named set of permission rules. Rules is a comma separated list
// of "App:Action" pairs where either side may be "*".
type Group struct {
	ID    int64
	Name  string
	Rules string
}

// RuleList returns the trimmed, non-empty rules of the group.
func (g Group) RuleList() []string {
	var rules []string
	for _, r := range strings.Split(g.Rules, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rules = append(rules, r)
		}
	}
	return rules
}

// IsAdmin reports whether the group carries the admin rule.
func (g Group) IsAdmin() bool {
	for _, r := range g.RuleList() {
		if r == AdminRule {
			return true
		}
	}
	return false
}
