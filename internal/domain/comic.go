package domain

import "time"

type ComicStatus string

const (
	ComicStatusRead    ComicStatus = "read"
	ComicStatusPending ComicStatus = "pending"
)

// IsValid reports whether the status is one of the known values.
func (s ComicStatus) IsValid() bool {
	return s == ComicStatusRead || s == ComicStatusPending
}

// Comic represents a single comic book in a user's collection.
type Comic struct {
	ID        string
	Title     string
	Author    string
	Year      int
	Publisher string
	Status    ComicStatus
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComicUpdate carries a partial set of fields for an update; nil fields
// are left untouched.
type ComicUpdate struct {
	Title     *string
	Author    *string
	Year      *int
	Publisher *string
	Status    *ComicStatus
}

// IsEmpty reports whether no recognized field is present.
func (u ComicUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.Year == nil && u.Publisher == nil && u.Status == nil
}

// TitleCount is one row of the public popularity aggregation.
type TitleCount struct {
	Title string
	Count int64
}
