package models

// Profile represents a household or living location that bills belong to.
// A profile is created by a user and may only be changed or deleted by that user.
type Profile struct {
	// ID is the unique identifier for the profile (UUID format).
	ID string

	// UserID is the owning user.
	UserID string

	// Name is the display name (e.g., "Home", "Holiday flat").
	Name string

	Street string
	City   string

	// Country is an ISO 3166-1 alpha-2 code, upper-cased.
	Country string

	// CreatedAt is the Unix timestamp when the profile was created.
	CreatedAt int64
}
