package api

// Bill is a payee attached to a profile. Username and Password are
// returned decrypted to the owner only.
type Bill struct {
	ID           string `json:"id"`
	ProfileID    string `json:"profile_id"`
	Name         string `json:"name"`
	IsRecurring  bool   `json:"is_recurring"`
	RecurringDay int    `json:"recurring_day"`
	Link         string `json:"link,omitempty"`
	Username     string `json:"username,omitempty"`
	Password     string `json:"password,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type CreateBillRequest struct {
	ProfileID    string `json:"profile_id" validate:"required"`
	Name         string `json:"name" validate:"notblank,max=100"`
	IsRecurring  bool   `json:"is_recurring"`
	RecurringDay int    `json:"recurring_day" validate:"omitempty,min=1,max=31"`
	Link         string `json:"link" validate:"omitempty,http_url"`
	Username     string `json:"username" validate:"max=200"`
	Password     string `json:"password" validate:"max=200"`
}

type CreateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type GetBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type GetBillResponse struct {
	Bill *Bill `json:"bill"`
}

type ListBillsRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
}

type ListBillsResponse struct {
	Bills []*Bill `json:"bills"`
}

// UpdateBillRequest replaces every editable field of a bill.
type UpdateBillRequest struct {
	BillID       string `json:"bill_id" validate:"required"`
	Name         string `json:"name" validate:"notblank,max=100"`
	IsRecurring  bool   `json:"is_recurring"`
	RecurringDay int    `json:"recurring_day" validate:"omitempty,min=1,max=31"`
	Link         string `json:"link" validate:"omitempty,http_url"`
	Username     string `json:"username" validate:"max=200"`
	Password     string `json:"password" validate:"max=200"`
}

type UpdateBillResponse struct {
	Bill *Bill `json:"bill"`
}

type DeleteBillRequest struct {
	BillID string `json:"bill_id" validate:"required"`
}

type DeleteBillResponse struct{}
