// Package models defines server-side data models persisted in the database
// together with the rules derived from them.
package models

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/hashers"
	"github.com/dmitrijs2005/addonaccounts/internal/locale"
	"github.com/google/uuid"
)

const anonymousPrefix = "anonymous-"

var (
	anonymousUsername = regexp.MustCompile(`^anonymous-[0-9a-f]{32}$`)
	slugUsername      = regexp.MustCompile(`^[\w.@+-]+$`)
)

// User is an account profile.
//
// Groups is loaded once together with the user and is not refreshed when
// memberships change afterwards.
type User struct {
	ID          int64
	Username    string
	DisplayName string
	Email       *string
	Password    string
	Lang        string
	FxaID       string
	PictureType string
	BioID       *int64
	Deleted     bool
	Modified    time.Time
	CreatedAt   time.Time

	Groups []Group
}

// WelcomeName is the name used to greet the user.
func (u *User) WelcomeName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.HasAnonymousUsername() {
		return "Anonymous user " + strings.TrimPrefix(u.Username, anonymousPrefix)[:6]
	}
	return u.Username
}

// AnonymizeUsername replaces the username with a random anonymous one.
func (u *User) AnonymizeUsername() {
	u.Username = anonymousPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (u *User) HasAnonymousUsername() bool {
	return anonymousUsername.MatchString(u.Username)
}

func (u *User) HasAnonymousDisplayName() bool {
	return u.DisplayName == "" && u.HasAnonymousUsername()
}

// IsSuperuser reports membership in a group carrying the admin rule.
func (u *User) IsSuperuser() bool {
	for _, g := range u.Groups {
		if g.IsAdmin() {
			return true
		}
	}
	return false
}

// IsStaff is the same as IsSuperuser; there is no separate staff flag.
func (u *User) IsStaff() bool {
	return u.IsSuperuser()
}

// FxaMigrated reports whether the account is linked to a Firefox Account.
func (u *User) FxaMigrated() bool {
	return u.FxaID != ""
}

// PictureKey is the object storage key of the user's picture.
func (u *User) PictureKey() string {
	return fmt.Sprintf("userpics/%d/%d/%d.png", u.ID/1000000, u.ID/1000, u.ID)
}

// PictureURL returns the public URL of the user's picture, or of the
// anonymous placeholder when no picture was uploaded.
func (u *User) PictureURL(mediaURL, staticURL string) string {
	if u.PictureType == "" {
		return strings.TrimRight(staticURL, "/") + "/img/zamboni/anon_user.png"
	}
	return fmt.Sprintf("%s/%s?modified=%d", strings.TrimRight(mediaURL, "/"), u.PictureKey(), u.Modified.Unix())
}

// URLPath is the path of the user's public profile page. The username is
// used only when it is safe to put in a URL.
func (u *User) URLPath(lang, app string) string {
	segment := strconv.FormatInt(u.ID, 10)
	if u.Username != "" && slugUsername.MatchString(u.Username) {
		segment = u.Username
	}
	return fmt.Sprintf("/%s/%s/user/%s/", lang, app, segment)
}

// ActivateLang returns ctx with the user's language activated.
func (u *User) ActivateLang(ctx context.Context) context.Context {
	return locale.WithLocale(ctx, u.Lang)
}

// SetPassword stores a fresh current-format record for raw.
func (u *User) SetPassword(raw string) error {
	encoded, err := hashers.Encode(raw)
	if err != nil {
		return err
	}
	u.Password = encoded
	return nil
}

// SetUnusablePassword disables password logins.
func (u *User) SetUnusablePassword() {
	u.Password = hashers.MakeUnusable()
}

// CheckPassword verifies raw against the stored record. A match against a
// legacy record replaces Password with a current one and reports upgraded;
// the caller is responsible for persisting it.
func (u *User) CheckPassword(raw string) (ok, upgraded bool) {
	if !hashers.Check(raw, u.Password) {
		return false, false
	}
	if encoded, changed := hashers.UpgradeIfNeeded(raw, u.Password); changed {
		u.Password = encoded
		return true, true
	}
	return true, false
}

func (u *User) HasUsablePassword() bool {
	return hashers.IsUsable(u.Password)
}

// Anonymize strips personal data from the profile and disables it.
func (u *User) Anonymize() {
	u.Email = nil
	u.DisplayName = ""
	u.FxaID = ""
	u.PictureType = ""
	u.BioID = nil
	u.AnonymizeUsername()
	u.SetUnusablePassword()
	u.Deleted = true
}
