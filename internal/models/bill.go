package models

// DefaultRecurringDay is the due day used when a bill does not set one.
const DefaultRecurringDay = 1

// Bill represents a payable attached to a profile.
// Recurring bills get one BillInstance per month; one-off bills only have
// the instances created by hand.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// ProfileID is the profile this bill belongs to.
	ProfileID string

	// Name is the payee or bill name (e.g., "Electricity").
	Name string

	// IsRecurring marks bills that are due every month.
	IsRecurring bool

	// RecurringDay is the day of month the bill is due (1-31).
	// Months shorter than RecurringDay use their last day.
	RecurringDay int

	// Link is an optional URL of the e-bill portal.
	Link string

	// Username and Password are the optional e-bill portal credentials.
	// Services hand these to storage in encrypted form only.
	Username string
	Password string

	// CreatedAt is the Unix timestamp when the bill was created.
	// Monthly backfill starts from this month.
	CreatedAt int64
}
