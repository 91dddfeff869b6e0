// Package calculator aggregates bills and bill instances into dashboard figures.
package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/mmynk/billcal/internal/locale"
	"github.com/mmynk/billcal/internal/models"
)

// MonthlyAmount is the sum of instance amounts billed in one month.
type MonthlyAmount struct {
	Month  time.Time
	Label  string // Localized month name, e.g. "October 2024"
	Amount decimal.Decimal
}

// Summary holds the dashboard statistics for one user.
type Summary struct {
	TotalProfiles int
	TotalBills    int
	PaidCount     int
	UnpaidCount   int

	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	UnpaidAmount decimal.Decimal

	// Monthly is ordered chronologically.
	Monthly []MonthlyAmount
}

// Summarize computes the dashboard summary.
//
// billsByProfile maps each profile ID to its bills. Instances are counted as
// paid or unpaid and their amounts are bucketed by instance month.
func Summarize(profiles []*models.Profile, billsByProfile map[string][]*models.Bill, events []*models.CalendarEvent, tag language.Tag) *Summary {
	s := &Summary{
		TotalProfiles: len(profiles),
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		UnpaidAmount:  decimal.Zero,
	}

	for _, p := range profiles {
		s.TotalBills += len(billsByProfile[p.ID])
	}

	buckets := make(map[time.Time]decimal.Decimal)
	for _, e := range events {
		if e.IsPaid {
			s.PaidCount++
			s.PaidAmount = s.PaidAmount.Add(e.Amount)
		} else {
			s.UnpaidCount++
			s.UnpaidAmount = s.UnpaidAmount.Add(e.Amount)
		}
		s.TotalAmount = s.TotalAmount.Add(e.Amount)

		month := models.FirstOfMonth(e.Month)
		buckets[month] = buckets[month].Add(e.Amount)
	}

	for month, amount := range buckets {
		s.Monthly = append(s.Monthly, MonthlyAmount{
			Month:  month,
			Label:  MonthLabel(tag, month),
			Amount: amount,
		})
	}
	sort.Slice(s.Monthly, func(i, j int) bool {
		return s.Monthly[i].Month.Before(s.Monthly[j].Month)
	})

	return s
}

// MonthLabel renders a month as "<localized name> <year>".
func MonthLabel(tag language.Tag, month time.Time) string {
	return locale.MonthName(tag, month.Month()) + " " + month.Format("2006")
}
