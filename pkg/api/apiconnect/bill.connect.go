package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService.
const BillServiceName = "billcal.v1.BillService"

const (
	BillServiceCreateBillProcedure = "/billcal.v1.BillService/CreateBill"
	BillServiceGetBillProcedure    = "/billcal.v1.BillService/GetBill"
	BillServiceListBillsProcedure  = "/billcal.v1.BillService/ListBills"
	BillServiceUpdateBillProcedure = "/billcal.v1.BillService/UpdateBill"
	BillServiceDeleteBillProcedure = "/billcal.v1.BillService/DeleteBill"
)

// BillServiceClient is a client for the billcal.v1.BillService service.
type BillServiceClient interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
}

// NewBillServiceClient constructs a client for the billcal.v1.BillService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &billServiceClient{
		createBill: connect.NewClient[api.CreateBillRequest, api.CreateBillResponse](httpClient, baseURL+BillServiceCreateBillProcedure, opts...),
		getBill:    connect.NewClient[api.GetBillRequest, api.GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		listBills:  connect.NewClient[api.ListBillsRequest, api.ListBillsResponse](httpClient, baseURL+BillServiceListBillsProcedure, opts...),
		updateBill: connect.NewClient[api.UpdateBillRequest, api.UpdateBillResponse](httpClient, baseURL+BillServiceUpdateBillProcedure, opts...),
		deleteBill: connect.NewClient[api.DeleteBillRequest, api.DeleteBillResponse](httpClient, baseURL+BillServiceDeleteBillProcedure, opts...),
	}
}

type billServiceClient struct {
	createBill *connect.Client[api.CreateBillRequest, api.CreateBillResponse]
	getBill    *connect.Client[api.GetBillRequest, api.GetBillResponse]
	listBills  *connect.Client[api.ListBillsRequest, api.ListBillsResponse]
	updateBill *connect.Client[api.UpdateBillRequest, api.UpdateBillResponse]
	deleteBill *connect.Client[api.DeleteBillRequest, api.DeleteBillResponse]
}

func (c *billServiceClient) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *billServiceClient) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *billServiceClient) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateBill(ctx context.Context, req *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return c.updateBill.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteBill(ctx context.Context, req *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return c.deleteBill.CallUnary(ctx, req)
}

// BillServiceHandler is implemented by the server side of billcal.v1.BillService.
type BillServiceHandler interface {
	CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error)
	GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error)
	ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error)
	UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error)
	DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBillHandler := connect.NewUnaryHandler(BillServiceCreateBillProcedure, svc.CreateBill, opts...)
	getBillHandler := connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...)
	listBillsHandler := connect.NewUnaryHandler(BillServiceListBillsProcedure, svc.ListBills, opts...)
	updateBillHandler := connect.NewUnaryHandler(BillServiceUpdateBillProcedure, svc.UpdateBill, opts...)
	deleteBillHandler := connect.NewUnaryHandler(BillServiceDeleteBillProcedure, svc.DeleteBill, opts...)
	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillServiceCreateBillProcedure:
			createBillHandler.ServeHTTP(w, r)
		case BillServiceGetBillProcedure:
			getBillHandler.ServeHTTP(w, r)
		case BillServiceListBillsProcedure:
			listBillsHandler.ServeHTTP(w, r)
		case BillServiceUpdateBillProcedure:
			updateBillHandler.ServeHTTP(w, r)
		case BillServiceDeleteBillProcedure:
			deleteBillHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBillServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillServiceHandler struct{}

func (UnimplementedBillServiceHandler) CreateBill(context.Context, *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillService.CreateBill is not implemented"))
}

func (UnimplementedBillServiceHandler) GetBill(context.Context, *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillService.GetBill is not implemented"))
}

func (UnimplementedBillServiceHandler) ListBills(context.Context, *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillService.ListBills is not implemented"))
}

func (UnimplementedBillServiceHandler) UpdateBill(context.Context, *connect.Request[api.UpdateBillRequest]) (*connect.Response[api.UpdateBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillService.UpdateBill is not implemented"))
}

func (UnimplementedBillServiceHandler) DeleteBill(context.Context, *connect.Request[api.DeleteBillRequest]) (*connect.Response[api.DeleteBillResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillService.DeleteBill is not implemented"))
}
