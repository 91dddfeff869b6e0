package calculator

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/mmynk/billcal/internal/models"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func event(m time.Time, amount string, paid bool) *models.CalendarEvent {
	return &models.CalendarEvent{
		Month:   m,
		DueDate: m.AddDate(0, 0, 4),
		Amount:  decimal.RequireFromString(amount),
		IsPaid:  paid,
	}
}

func TestSummarize(t *testing.T) {
	profiles := []*models.Profile{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}}
	bills := map[string][]*models.Bill{
		"p1": {{ID: "b1"}, {ID: "b2"}},
		"p2": {{ID: "b3"}},
	}
	events := []*models.CalendarEvent{
		event(month(2024, time.November), "10.10", false),
		event(month(2024, time.October), "45.50", true),
		event(month(2024, time.October), "20.25", false),
		event(month(2024, time.September), "0.20", true),
	}

	s := Summarize(profiles, bills, events, language.English)

	if s.TotalProfiles != 3 {
		t.Errorf("TotalProfiles = %d, want 3", s.TotalProfiles)
	}
	if s.TotalBills != 3 {
		t.Errorf("TotalBills = %d, want 3", s.TotalBills)
	}
	if s.PaidCount != 2 || s.UnpaidCount != 2 {
		t.Errorf("paid/unpaid = %d/%d, want 2/2", s.PaidCount, s.UnpaidCount)
	}
	if !s.TotalAmount.Equal(decimal.RequireFromString("76.05")) {
		t.Errorf("TotalAmount = %s, want 76.05", s.TotalAmount)
	}
	if !s.PaidAmount.Equal(decimal.RequireFromString("45.70")) {
		t.Errorf("PaidAmount = %s, want 45.70", s.PaidAmount)
	}
	if !s.UnpaidAmount.Equal(decimal.RequireFromString("30.35")) {
		t.Errorf("UnpaidAmount = %s, want 30.35", s.UnpaidAmount)
	}

	if len(s.Monthly) != 3 {
		t.Fatalf("Monthly has %d entries, want 3", len(s.Monthly))
	}
	wantLabels := []string{"September 2024", "October 2024", "November 2024"}
	wantAmounts := []string{"0.2", "65.75", "10.1"}
	for i, m := range s.Monthly {
		if m.Label != wantLabels[i] {
			t.Errorf("Monthly[%d].Label = %q, want %q", i, m.Label, wantLabels[i])
		}
		if !m.Amount.Equal(decimal.RequireFromString(wantAmounts[i])) {
			t.Errorf("Monthly[%d].Amount = %s, want %s", i, m.Amount, wantAmounts[i])
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil, nil, language.English)
	if s.TotalProfiles != 0 || s.TotalBills != 0 || len(s.Monthly) != 0 {
		t.Errorf("unexpected summary for no data: %+v", s)
	}
	if !s.TotalAmount.IsZero() {
		t.Errorf("TotalAmount = %s, want 0", s.TotalAmount)
	}
}

func TestMonthLabelLocalized(t *testing.T) {
	if got := MonthLabel(language.Croatian, month(2024, time.October)); got != "listopad 2024" {
		t.Errorf("MonthLabel(hr) = %q", got)
	}
}
