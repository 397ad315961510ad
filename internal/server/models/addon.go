package models

import "time"

// Addon types.
const (
	AddonExtension = 1
	AddonTheme     = 2
)

type Addon struct {
	ID       int64
	Name     string
	Type     int
	IsListed bool
}

// AddonUser links an author to an add-on. Only Listed authors are shown
// publicly.
type AddonUser struct {
	AddonID int64
	UserID  int64
	Listed  bool
}

type Version struct {
	ID      int64
	AddonID int64
	Version string
	Deleted bool
}

// Review is a user rating of an add-on version. Developer replies carry
// the id of the review they answer in ReplyTo.
type Review struct {
	ID        int64
	AddonID   int64
	VersionID int64
	UserID    int64
	ReplyTo   *int64
	Rating    int
	Body      string
	CreatedAt time.Time
}
