package api

import "github.com/shopspring/decimal"

// Wire layouts for months and dates.
const (
	MonthLayout = "2006-01"
	DateLayout  = "2006-01-02"
)

// BillInstance is one month of a bill. Amount is encoded as a decimal string.
type BillInstance struct {
	ID          string          `json:"id"`
	BillID      string          `json:"bill_id"`
	Month       string          `json:"month"`
	DueDate     string          `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	Description string          `json:"description"`
	CreatedAt   int64           `json:"created_at"`
}

// CreateBillInstanceRequest adds a month to a bill. An empty DueDate uses
// the bill's recurring day within Month.
type CreateBillInstanceRequest struct {
	BillID      string          `json:"bill_id" validate:"required"`
	Month       string          `json:"month" validate:"required,datetime=2006-01"`
	DueDate     string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	Description string          `json:"description" validate:"max=500"`
}

type CreateBillInstanceResponse struct {
	Instance *BillInstance `json:"instance"`
}

type GetBillInstanceRequest struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

type GetBillInstanceResponse struct {
	Instance *BillInstance `json:"instance"`
}

// ListBillInstancesRequest lists a bill's instances, optionally limited to
// the months FromMonth through ToMonth inclusive.
type ListBillInstancesRequest struct {
	BillID    string `json:"bill_id" validate:"required"`
	FromMonth string `json:"from_month" validate:"omitempty,datetime=2006-01"`
	ToMonth   string `json:"to_month" validate:"omitempty,datetime=2006-01"`
}

type ListBillInstancesResponse struct {
	Instances []*BillInstance `json:"instances"`
}

type UpdateBillInstanceRequest struct {
	InstanceID  string          `json:"instance_id" validate:"required"`
	Month       string          `json:"month" validate:"required,datetime=2006-01"`
	DueDate     string          `json:"due_date" validate:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal `json:"amount"`
	IsPaid      bool            `json:"is_paid"`
	Description string          `json:"description" validate:"max=500"`
}

type UpdateBillInstanceResponse struct {
	Instance *BillInstance `json:"instance"`
}

type DeleteBillInstanceRequest struct {
	InstanceID string `json:"instance_id" validate:"required"`
}

type DeleteBillInstanceResponse struct{}

// GenerateMissingBillInstancesRequest backfills recurring bills through
// Through (default: current month).
type GenerateMissingBillInstancesRequest struct {
	Through string `json:"through" validate:"omitempty,datetime=2006-01"`
}

type GenerateMissingBillInstancesResponse struct {
	Created int `json:"created"`
}
