package api

import "github.com/shopspring/decimal"

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	TotalProfiles int `json:"total_profiles"`
	TotalBills    int `json:"total_bills"`
	PaidCount     int `json:"paid_count"`
	UnpaidCount   int `json:"unpaid_count"`

	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	UnpaidAmount decimal.Decimal `json:"unpaid_amount"`

	// Monthly is ordered chronologically.
	Monthly []*MonthlyAmount `json:"monthly"`
}

type MonthlyAmount struct {
	Month  string          `json:"month"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}
