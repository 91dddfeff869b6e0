package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillInstance represents one billing cycle of a bill.
type BillInstance struct {
	// ID is the unique identifier for the instance (UUID format).
	ID string

	// BillID is the bill this instance belongs to.
	BillID string

	// Month is the first day of the billing month.
	Month time.Time

	// DueDate is the day the payment is due.
	DueDate time.Time

	// Amount is the amount due, in the profile's currency.
	Amount decimal.Decimal

	// IsPaid is set once the instance has been paid.
	IsPaid bool

	// Description is free text (e.g., a payment reference).
	Description string

	// CreatedAt is the Unix timestamp when the instance was created.
	CreatedAt int64
}

// CalendarEvent is a BillInstance joined with the names of its bill and
// profile. It is assembled at read time and never stored.
type CalendarEvent struct {
	ID          string
	BillID      string
	Month       time.Time
	DueDate     time.Time
	Amount      decimal.Decimal
	IsPaid      bool
	Description string
	BillName    string
	ProfileName string
}

// FirstOfMonth returns midnight UTC on the first day of t's month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the month containing t.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDateIn returns the due date for a recurring day in the month of t,
// clamped to the last day of that month.
func DueDateIn(month time.Time, day int) time.Time {
	if day < 1 {
		day = DefaultRecurringDay
	}
	if n := DaysIn(month); day > n {
		day = n
	}
	return time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
}
