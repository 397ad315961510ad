package models

// CollectionType distinguishes the special per-user collections from
// ordinary ones.
type CollectionType int

const (
	CollectionNormal    CollectionType = 0
	CollectionFavorites CollectionType = 4
	CollectionMobile    CollectionType = 5
)

// Slug returns the fixed slug of a special collection type.
func (t CollectionType) Slug() string {
	switch t {
	case CollectionFavorites:
		return "favorites"
	case CollectionMobile:
		return "mobile"
	default:
		return ""
	}
}

type Collection struct {
	ID       int64
	AuthorID *int64
	Name     string
	Slug     string
	Type     CollectionType
}
