package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/billcal/internal/metrics"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

var errNegativeAmount = errors.New("amount must not be negative")

// BillInstanceService implements the Connect BillInstanceService.
type BillInstanceService struct {
	apiconnect.UnimplementedBillInstanceServiceHandler
	store storage.Store
	owned owned
	now   func() time.Time
}

// NewBillInstanceService creates a new BillInstanceService with the given storage backend.
func NewBillInstanceService(store storage.Store) *BillInstanceService {
	return &BillInstanceService{store: store, owned: owned{store: store}, now: time.Now}
}

// amount rounds to cents and rejects negative values.
func amount(d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, errNegativeAmount)
	}
	return d.Round(2), nil
}

// CreateBillInstance adds a month to one of the caller's bills.
func (s *BillInstanceService) CreateBillInstance(ctx context.Context, req *connect.Request[api.CreateBillInstanceRequest]) (*connect.Response[api.CreateBillInstanceResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	amt, err := amount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateBillInstance request received", "bill_id", req.Msg.BillID, "month", req.Msg.Month)

	bill, err := s.owned.bill(ctx, userID, req.Msg.BillID)
	if err != nil {
		return nil, storeError("create bill instance", err, "bill_id", req.Msg.BillID)
	}

	month, _ := time.Parse(api.MonthLayout, req.Msg.Month)
	dueDate := models.DueDateIn(month, bill.RecurringDay)
	if req.Msg.DueDate != "" {
		dueDate, _ = time.Parse(api.DateLayout, req.Msg.DueDate)
	}

	instance := &models.BillInstance{
		BillID:      bill.ID,
		Month:       month,
		DueDate:     dueDate,
		Amount:      amt,
		IsPaid:      req.Msg.IsPaid,
		Description: strings.TrimSpace(req.Msg.Description),
	}
	if err := s.store.CreateBillInstance(ctx, instance); err != nil {
		return nil, storeError("create bill instance", err, "bill_id", bill.ID)
	}

	slog.Info("Bill instance created", "instance_id", instance.ID, "bill_id", bill.ID)
	return connect.NewResponse(&api.CreateBillInstanceResponse{Instance: toAPIInstance(instance)}), nil
}

// GetBillInstance retrieves one instance.
func (s *BillInstanceService) GetBillInstance(ctx context.Context, req *connect.Request[api.GetBillInstanceRequest]) (*connect.Response[api.GetBillInstanceResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	instance, _, err := s.owned.instance(ctx, userID, req.Msg.InstanceID)
	if err != nil {
		return nil, storeError("get bill instance", err, "instance_id", req.Msg.InstanceID)
	}

	return connect.NewResponse(&api.GetBillInstanceResponse{Instance: toAPIInstance(instance)}), nil
}

// ListBillInstances lists a bill's instances by month, optionally limited
// to an inclusive month range.
func (s *BillInstanceService) ListBillInstances(ctx context.Context, req *connect.Request[api.ListBillInstancesRequest]) (*connect.Response[api.ListBillInstancesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	var from, to time.Time
	if req.Msg.FromMonth != "" {
		from, _ = time.Parse(api.MonthLayout, req.Msg.FromMonth)
	}
	if req.Msg.ToMonth != "" {
		last, _ := time.Parse(api.MonthLayout, req.Msg.ToMonth)
		to = last.AddDate(0, 1, 0)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("from_month must not be after to_month"))
	}

	if _, err := s.owned.bill(ctx, userID, req.Msg.BillID); err != nil {
		return nil, storeError("list bill instances", err, "bill_id", req.Msg.BillID)
	}
	instances, err := s.store.ListBillInstances(ctx, req.Msg.BillID, from, to)
	if err != nil {
		return nil, storeError("list bill instances", err, "bill_id", req.Msg.BillID)
	}

	out := make([]*api.BillInstance, len(instances))
	for i, in := range instances {
		out[i] = toAPIInstance(in)
	}

	slog.Info("ListBillInstances successful", "bill_id", req.Msg.BillID, "count", len(out))
	return connect.NewResponse(&api.ListBillInstancesResponse{Instances: out}), nil
}

// UpdateBillInstance replaces month, due date, amount, paid flag and description.
func (s *BillInstanceService) UpdateBillInstance(ctx context.Context, req *connect.Request[api.UpdateBillInstanceRequest]) (*connect.Response[api.UpdateBillInstanceResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}
	amt, err := amount(req.Msg.Amount)
	if err != nil {
		return nil, err
	}

	instance, _, err := s.owned.instance(ctx, userID, req.Msg.InstanceID)
	if err != nil {
		return nil, storeError("update bill instance", err, "instance_id", req.Msg.InstanceID)
	}

	instance.Month, _ = time.Parse(api.MonthLayout, req.Msg.Month)
	instance.DueDate, _ = time.Parse(api.DateLayout, req.Msg.DueDate)
	instance.Amount = amt
	instance.IsPaid = req.Msg.IsPaid
	instance.Description = strings.TrimSpace(req.Msg.Description)
	if err := s.store.UpdateBillInstance(ctx, instance); err != nil {
		return nil, storeError("update bill instance", err, "instance_id", instance.ID)
	}

	slog.Info("Bill instance updated", "instance_id", instance.ID, "is_paid", instance.IsPaid)
	return connect.NewResponse(&api.UpdateBillInstanceResponse{Instance: toAPIInstance(instance)}), nil
}

// DeleteBillInstance removes one instance.
func (s *BillInstanceService) DeleteBillInstance(ctx context.Context, req *connect.Request[api.DeleteBillInstanceRequest]) (*connect.Response[api.DeleteBillInstanceResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := s.owned.instance(ctx, userID, req.Msg.InstanceID); err != nil {
		return nil, storeError("delete bill instance", err, "instance_id", req.Msg.InstanceID)
	}
	if err := s.store.DeleteBillInstance(ctx, req.Msg.InstanceID); err != nil {
		return nil, storeError("delete bill instance", err, "instance_id", req.Msg.InstanceID)
	}

	slog.Info("Bill instance deleted", "instance_id", req.Msg.InstanceID)
	return connect.NewResponse(&api.DeleteBillInstanceResponse{}), nil
}

// GenerateMissingBillInstances backfills recurring bills through the
// requested month (default: current month).
func (s *BillInstanceService) GenerateMissingBillInstances(ctx context.Context, req *connect.Request[api.GenerateMissingBillInstancesRequest]) (*connect.Response[api.GenerateMissingBillInstancesResponse], error) {
	if _, err := currentUser(ctx); err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	created, err := backfill(ctx, s.store, parseMonth(req.Msg.Through, s.now()))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GenerateMissingBillInstancesResponse{Created: created}), nil
}

// backfill runs the store's monthly backfill and records how many
// instances it created.
func backfill(ctx context.Context, store storage.Store, through time.Time) (int, error) {
	created, err := store.GenerateMissingBillInstances(ctx, through)
	if err != nil {
		return 0, storeError("generate missing bill instances", err, "through", through.Format(api.MonthLayout))
	}
	if created > 0 {
		metrics.InstancesGenerated.Add(float64(created))
		slog.Info("Generated missing bill instances", "count", created, "through", through.Format(api.MonthLayout))
	}
	return created, nil
}
