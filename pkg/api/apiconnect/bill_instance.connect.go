package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// BillInstanceServiceName is the fully-qualified name of the BillInstanceService.
const BillInstanceServiceName = "billcal.v1.BillInstanceService"

const (
	BillInstanceServiceCreateBillInstanceProcedure           = "/billcal.v1.BillInstanceService/CreateBillInstance"
	BillInstanceServiceGetBillInstanceProcedure              = "/billcal.v1.BillInstanceService/GetBillInstance"
	BillInstanceServiceListBillInstancesProcedure            = "/billcal.v1.BillInstanceService/ListBillInstances"
	BillInstanceServiceUpdateBillInstanceProcedure           = "/billcal.v1.BillInstanceService/UpdateBillInstance"
	BillInstanceServiceDeleteBillInstanceProcedure           = "/billcal.v1.BillInstanceService/DeleteBillInstance"
	BillInstanceServiceGenerateMissingBillInstancesProcedure = "/billcal.v1.BillInstanceService/GenerateMissingBillInstances"
)

// BillInstanceServiceClient is a client for the billcal.v1.BillInstanceService service.
type BillInstanceServiceClient interface {
	CreateBillInstance(context.Context, *connect.Request[api.CreateBillInstanceRequest]) (*connect.Response[api.CreateBillInstanceResponse], error)
	GetBillInstance(context.Context, *connect.Request[api.GetBillInstanceRequest]) (*connect.Response[api.GetBillInstanceResponse], error)
	ListBillInstances(context.Context, *connect.Request[api.ListBillInstancesRequest]) (*connect.Response[api.ListBillInstancesResponse], error)
	UpdateBillInstance(context.Context, *connect.Request[api.UpdateBillInstanceRequest]) (*connect.Response[api.UpdateBillInstanceResponse], error)
	DeleteBillInstance(context.Context, *connect.Request[api.DeleteBillInstanceRequest]) (*connect.Response[api.DeleteBillInstanceResponse], error)
	GenerateMissingBillInstances(context.Context, *connect.Request[api.GenerateMissingBillInstancesRequest]) (*connect.Response[api.GenerateMissingBillInstancesResponse], error)
}

// NewBillInstanceServiceClient constructs a client for the billcal.v1.BillInstanceService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewBillInstanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillInstanceServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &billInstanceServiceClient{
		createBillInstance:           connect.NewClient[api.CreateBillInstanceRequest, api.CreateBillInstanceResponse](httpClient, baseURL+BillInstanceServiceCreateBillInstanceProcedure, opts...),
		getBillInstance:              connect.NewClient[api.GetBillInstanceRequest, api.GetBillInstanceResponse](httpClient, baseURL+BillInstanceServiceGetBillInstanceProcedure, opts...),
		listBillInstances:            connect.NewClient[api.ListBillInstancesRequest, api.ListBillInstancesResponse](httpClient, baseURL+BillInstanceServiceListBillInstancesProcedure, opts...),
		updateBillInstance:           connect.NewClient[api.UpdateBillInstanceRequest, api.UpdateBillInstanceResponse](httpClient, baseURL+BillInstanceServiceUpdateBillInstanceProcedure, opts...),
		deleteBillInstance:           connect.NewClient[api.DeleteBillInstanceRequest, api.DeleteBillInstanceResponse](httpClient, baseURL+BillInstanceServiceDeleteBillInstanceProcedure, opts...),
		generateMissingBillInstances: connect.NewClient[api.GenerateMissingBillInstancesRequest, api.GenerateMissingBillInstancesResponse](httpClient, baseURL+BillInstanceServiceGenerateMissingBillInstancesProcedure, opts...),
	}
}

type billInstanceServiceClient struct {
	createBillInstance           *connect.Client[api.CreateBillInstanceRequest, api.CreateBillInstanceResponse]
	getBillInstance              *connect.Client[api.GetBillInstanceRequest, api.GetBillInstanceResponse]
	listBillInstances            *connect.Client[api.ListBillInstancesRequest, api.ListBillInstancesResponse]
	updateBillInstance           *connect.Client[api.UpdateBillInstanceRequest, api.UpdateBillInstanceResponse]
	deleteBillInstance           *connect.Client[api.DeleteBillInstanceRequest, api.DeleteBillInstanceResponse]
	generateMissingBillInstances *connect.Client[api.GenerateMissingBillInstancesRequest, api.GenerateMissingBillInstancesResponse]
}

func (c *billInstanceServiceClient) CreateBillInstance(ctx context.Context, req *connect.Request[api.CreateBillInstanceRequest]) (*connect.Response[api.CreateBillInstanceResponse], error) {
	return c.createBillInstance.CallUnary(ctx, req)
}

func (c *billInstanceServiceClient) GetBillInstance(ctx context.Context, req *connect.Request[api.GetBillInstanceRequest]) (*connect.Response[api.GetBillInstanceResponse], error) {
	return c.getBillInstance.CallUnary(ctx, req)
}

func (c *billInstanceServiceClient) ListBillInstances(ctx context.Context, req *connect.Request[api.ListBillInstancesRequest]) (*connect.Response[api.ListBillInstancesResponse], error) {
	return c.listBillInstances.CallUnary(ctx, req)
}

func (c *billInstanceServiceClient) UpdateBillInstance(ctx context.Context, req *connect.Request[api.UpdateBillInstanceRequest]) (*connect.Response[api.UpdateBillInstanceResponse], error) {
	return c.updateBillInstance.CallUnary(ctx, req)
}

func (c *billInstanceServiceClient) DeleteBillInstance(ctx context.Context, req *connect.Request[api.DeleteBillInstanceRequest]) (*connect.Response[api.DeleteBillInstanceResponse], error) {
	return c.deleteBillInstance.CallUnary(ctx, req)
}

func (c *billInstanceServiceClient) GenerateMissingBillInstances(ctx context.Context, req *connect.Request[api.GenerateMissingBillInstancesRequest]) (*connect.Response[api.GenerateMissingBillInstancesResponse], error) {
	return c.generateMissingBillInstances.CallUnary(ctx, req)
}

// BillInstanceServiceHandler is implemented by the server side of billcal.v1.BillInstanceService.
type BillInstanceServiceHandler interface {
	CreateBillInstance(context.Context, *connect.Request[api.CreateBillInstanceRequest]) (*connect.Response[api.CreateBillInstanceResponse], error)
	GetBillInstance(context.Context, *connect.Request[api.GetBillInstanceRequest]) (*connect.Response[api.GetBillInstanceResponse], error)
	ListBillInstances(context.Context, *connect.Request[api.ListBillInstancesRequest]) (*connect.Response[api.ListBillInstancesResponse], error)
	UpdateBillInstance(context.Context, *connect.Request[api.UpdateBillInstanceRequest]) (*connect.Response[api.UpdateBillInstanceResponse], error)
	DeleteBillInstance(context.Context, *connect.Request[api.DeleteBillInstanceRequest]) (*connect.Response[api.DeleteBillInstanceResponse], error)
	GenerateMissingBillInstances(context.Context, *connect.Request[api.GenerateMissingBillInstancesRequest]) (*connect.Response[api.GenerateMissingBillInstancesResponse], error)
}

// NewBillInstanceServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewBillInstanceServiceHandler(svc BillInstanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBillInstanceHandler := connect.NewUnaryHandler(BillInstanceServiceCreateBillInstanceProcedure, svc.CreateBillInstance, opts...)
	getBillInstanceHandler := connect.NewUnaryHandler(BillInstanceServiceGetBillInstanceProcedure, svc.GetBillInstance, opts...)
	listBillInstancesHandler := connect.NewUnaryHandler(BillInstanceServiceListBillInstancesProcedure, svc.ListBillInstances, opts...)
	updateBillInstanceHandler := connect.NewUnaryHandler(BillInstanceServiceUpdateBillInstanceProcedure, svc.UpdateBillInstance, opts...)
	deleteBillInstanceHandler := connect.NewUnaryHandler(BillInstanceServiceDeleteBillInstanceProcedure, svc.DeleteBillInstance, opts...)
	generateMissingBillInstancesHandler := connect.NewUnaryHandler(BillInstanceServiceGenerateMissingBillInstancesProcedure, svc.GenerateMissingBillInstances, opts...)
	return "/" + BillInstanceServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case BillInstanceServiceCreateBillInstanceProcedure:
			createBillInstanceHandler.ServeHTTP(w, r)
		case BillInstanceServiceGetBillInstanceProcedure:
			getBillInstanceHandler.ServeHTTP(w, r)
		case BillInstanceServiceListBillInstancesProcedure:
			listBillInstancesHandler.ServeHTTP(w, r)
		case BillInstanceServiceUpdateBillInstanceProcedure:
			updateBillInstanceHandler.ServeHTTP(w, r)
		case BillInstanceServiceDeleteBillInstanceProcedure:
			deleteBillInstanceHandler.ServeHTTP(w, r)
		case BillInstanceServiceGenerateMissingBillInstancesProcedure:
			generateMissingBillInstancesHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedBillInstanceServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedBillInstanceServiceHandler struct{}

func (UnimplementedBillInstanceServiceHandler) CreateBillInstance(context.Context, *connect.Request[api.CreateBillInstanceRequest]) (*connect.Response[api.CreateBillInstanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.CreateBillInstance is not implemented"))
}

func (UnimplementedBillInstanceServiceHandler) GetBillInstance(context.Context, *connect.Request[api.GetBillInstanceRequest]) (*connect.Response[api.GetBillInstanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.GetBillInstance is not implemented"))
}

func (UnimplementedBillInstanceServiceHandler) ListBillInstances(context.Context, *connect.Request[api.ListBillInstancesRequest]) (*connect.Response[api.ListBillInstancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.ListBillInstances is not implemented"))
}

func (UnimplementedBillInstanceServiceHandler) UpdateBillInstance(context.Context, *connect.Request[api.UpdateBillInstanceRequest]) (*connect.Response[api.UpdateBillInstanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.UpdateBillInstance is not implemented"))
}

func (UnimplementedBillInstanceServiceHandler) DeleteBillInstance(context.Context, *connect.Request[api.DeleteBillInstanceRequest]) (*connect.Response[api.DeleteBillInstanceResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.DeleteBillInstance is not implemented"))
}

func (UnimplementedBillInstanceServiceHandler) GenerateMissingBillInstances(context.Context, *connect.Request[api.GenerateMissingBillInstancesRequest]) (*connect.Response[api.GenerateMissingBillInstancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.BillInstanceService.GenerateMissingBillInstances is not implemented"))
}
