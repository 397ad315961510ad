// Package access evaluates group permission rules and the permission
// predicates guarding add-on scoped resources.
package access

import (
	"strings"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

// Permission names used by the predicates below.
const (
	AppAddons            = "Addons"
	ActionReview         = "Review"
	ActionReviewUnlisted = "ReviewUnlisted"
)

// ActionAllowed reports whether any rule of groups grants app:action.
// Either side of a rule may be "*".
func ActionAllowed(groups []models.Group, app, action string) bool {
	for _, g := range groups {
		for _, rule := range g.RuleList() {
			ruleApp, ruleAction, ok := strings.Cut(rule, ":")
			if !ok {
				continue
			}
			if match(ruleApp, app) && match(ruleAction, action) {
				return true
			}
		}
	}
	return false
}

func match(pattern, value string) bool {
	return pattern == "*" || strings.EqualFold(pattern, value)
}

// Subject is what a permission is evaluated against: the caller, the addon
// the resource belongs to, and whether the caller is one of its authors.
type Subject struct {
	User     *models.User
	Addon    *models.Addon
	IsAuthor bool
}

// Permission grants or denies access to an add-on scoped resource.
type Permission func(s Subject) bool

// AllowAddonAuthor lets the add-on's authors through.
func AllowAddonAuthor(s Subject) bool {
	return s.User != nil && s.IsAuthor
}

// AllowReviewer lets reviewers see listed add-ons.
func AllowReviewer(s Subject) bool {
	return s.User != nil && s.Addon != nil && s.Addon.IsListed &&
		ActionAllowed(s.User.Groups, AppAddons, ActionReview)
}

// AllowReviewerUnlisted lets unlisted reviewers see unlisted add-ons.
func AllowReviewerUnlisted(s Subject) bool {
	return s.User != nil && s.Addon != nil && !s.Addon.IsListed &&
		ActionAllowed(s.User.Groups, AppAddons, ActionReviewUnlisted)
}

// AnyOf grants access when at least one of perms does.
func AnyOf(perms ...Permission) Permission {
	return func(s Subject) bool {
		for _, p := range perms {
			if p(s) {
				return true
			}
		}
		return false
	}
}
