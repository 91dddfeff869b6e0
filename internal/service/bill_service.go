package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

// Cipher encrypts bill credentials at rest. credentials.Encryptor implements it.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// BillService implements the Connect BillService.
type BillService struct {
	apiconnect.UnimplementedBillServiceHandler
	store  storage.Store
	owned  owned
	cipher Cipher
}

// NewBillService creates a new BillService. Usernames and passwords pass
// through cipher on their way in and out of storage.
func NewBillService(store storage.Store, cipher Cipher) *BillService {
	return &BillService{store: store, owned: owned{store: store}, cipher: cipher}
}

// sealCredentials encrypts the credentials of bill in place.
func (s *BillService) sealCredentials(bill *models.Bill) error {
	var err error
	if bill.Username, err = s.cipher.Encrypt(bill.Username); err != nil {
		return err
	}
	bill.Password, err = s.cipher.Encrypt(bill.Password)
	return err
}

// toAPIBill decrypts the stored credentials. Credentials that no longer
// decrypt (e.g. after a secret change) are returned empty.
func (s *BillService) toAPIBill(b *models.Bill) *api.Bill {
	out := &api.Bill{
		ID:           b.ID,
		ProfileID:    b.ProfileID,
		Name:         b.Name,
		IsRecurring:  b.IsRecurring,
		RecurringDay: b.RecurringDay,
		Link:         b.Link,
		CreatedAt:    b.CreatedAt,
	}
	username, err := s.cipher.Decrypt(b.Username)
	if err != nil {
		slog.Warn("Failed to decrypt bill username", "bill_id", b.ID, "error", err)
	}
	password, err := s.cipher.Decrypt(b.Password)
	if err != nil {
		slog.Warn("Failed to decrypt bill password", "bill_id", b.ID, "error", err)
	}
	out.Username, out.Password = username, password
	return out
}

func recurringDay(day int) int {
	if day == 0 {
		return models.DefaultRecurringDay
	}
	return day
}

// CreateBill adds a bill to one of the caller's profiles.
func (s *BillService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	slog.Info("CreateBill request received",
		"profile_id", req.Msg.ProfileID,
		"name", req.Msg.Name,
		"is_recurring", req.Msg.IsRecurring,
	)

	if _, err := s.owned.profile(ctx, userID, req.Msg.ProfileID); err != nil {
		return nil, storeError("create bill", err, "profile_id", req.Msg.ProfileID)
	}

	bill := &models.Bill{
		ProfileID:    req.Msg.ProfileID,
		Name:         strings.TrimSpace(req.Msg.Name),
		IsRecurring:  req.Msg.IsRecurring,
		RecurringDay: recurringDay(req.Msg.RecurringDay),
		Link:         strings.TrimSpace(req.Msg.Link),
		Username:     req.Msg.Username,
		Password:     req.Msg.Password,
	}
	if err := s.sealCredentials(bill); err != nil {
		return nil, storeError("create bill", err, "profile_id", req.Msg.ProfileID)
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, storeError("create bill", err, "profile_id", req.Msg.ProfileID)
	}

	slog.Info("Bill created", "bill_id", bill.ID)
	return connect.NewResponse(&api.CreateBillResponse{Bill: s.toAPIBill(bill)}), nil
}

// GetBill retrieves a bill with decrypted credentials.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	bill, err := s.owned.bill(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, storeError("get bill", err, "bill_id", req.Msg.BillID)
	}

	return connect.NewResponse(&api.GetBillResponse{Bill: s.toAPIBill(bill)}), nil
}

// ListBills lists the bills of one of the caller's profiles.
func (s *BillService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.owned.profile(ctx, userID, req.Msg.ProfileID); err != nil {
		return nil, storeError("list bills", err, "profile_id", req.Msg.ProfileID)
	}
	bills, err := s.store.ListBills(ctx, req.Msg.ProfileID)
	if err != nil {
		return nil, storeError("list bills", err, "profile_id", req.Msg.ProfileID)
	}

	out := make([]*api.Bill, len(bills))
	for i, b := range bills {
		out[i] = s.toAPIBill(b)
	}

	slog.Info("ListBills successful", "profile_id", req.Msg.ProfileID, "count", len(out))
	return connect.NewResponse(&api.ListBillsResponse{Bills: out}), nil
}

// UpdateBill replaces every editable field of a bill. The owning profile
// cannot change.
func (s *BillService) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	bill, err := s.owned.bill(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, storeError("update bill", err, "bill_id", req.Msg.BillID)
	}

	bill.Name = strings.TrimSpace(req.Msg.Name)
	bill.IsRecurring = req.Msg.IsRecurring
	bill.RecurringDay = recurringDay(req.Msg.RecurringDay)
	bill.Link = strings.TrimSpace(req.Msg.Link)
	bill.Username = req.Msg.Username
	bill.Password = req.Msg.Password
	if err := s.sealCredentials(bill); err != nil {
		return nil, storeError("update bill", err, "bill_id", bill.ID)
	}
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		return nil, storeError("update bill", err, "bill_id", bill.ID)
	}

	slog.Info("Bill updated", "bill_id", bill.ID)
	return connect.NewResponse(&api.UpdateBillResponse{Bill: s.toAPIBill(bill)}), nil
}

// DeleteBill removes a bill and its instances.
func (s *BillService) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.owned.bill(ctx, userID, req.Msg.BillID); err != nil {
		return nil, storeError("delete bill", err, "bill_id", req.Msg.BillID)
	}
	if err := s.store.DeleteBill(ctx, req.Msg.BillID); err != nil {
		return nil, storeError("delete bill", err, "bill_id", req.Msg.BillID)
	}

	slog.Info("Bill deleted", "bill_id", req.Msg.BillID)
	return connect.NewResponse(&api.DeleteBillResponse{}), nil
}
