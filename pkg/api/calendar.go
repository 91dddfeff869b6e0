package api

import "github.com/shopspring/decimal"

type GetCalendarRequest struct {
	// Month as YYYY-MM; empty means the current month.
	Month string `json:"month" validate:"omitempty,datetime=2006-01"`
}

type GetCalendarResponse struct {
	Month      string `json:"month"`
	MonthLabel string `json:"month_label"`
	PrevMonth  string `json:"prev_month"`
	NextMonth  string `json:"next_month"`

	// Weekdays are the localized column headers, Monday first.
	Weekdays []string `json:"weekdays"`

	// Weeks holds rows of exactly 7 days.
	Weeks [][]*CalendarDay `json:"weeks"`
}

type CalendarDay struct {
	Date    string           `json:"date"`
	Day     int              `json:"day"`
	InMonth bool             `json:"in_month"`
	IsToday bool             `json:"is_today"`
	Events  []*CalendarEvent `json:"events"`
}

// CalendarEvent is a bill instance shown on its due date.
type CalendarEvent struct {
	InstanceID  string          `json:"instance_id"`
	BillID      string          `json:"bill_id"`
	BillName    string          `json:"bill_name"`
	ProfileName string          `json:"profile_name"`
	DueDate     string          `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	Description string          `json:"description"`
}
