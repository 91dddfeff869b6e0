package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// DashboardServiceName is the fully-qualified name of the DashboardService.
const DashboardServiceName = "billcal.v1.DashboardService"

const (
	DashboardServiceGetDashboardProcedure = "/billcal.v1.DashboardService/GetDashboard"
)

// DashboardServiceClient is a client for the billcal.v1.DashboardService service.
type DashboardServiceClient interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewDashboardServiceClient constructs a client for the billcal.v1.DashboardService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DashboardServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &dashboardServiceClient{
		getDashboard: connect.NewClient[api.GetDashboardRequest, api.GetDashboardResponse](httpClient, baseURL+DashboardServiceGetDashboardProcedure, opts...),
	}
}

type dashboardServiceClient struct {
	getDashboard *connect.Client[api.GetDashboardRequest, api.GetDashboardResponse]
}

func (c *dashboardServiceClient) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

// DashboardServiceHandler is implemented by the server side of billcal.v1.DashboardService.
type DashboardServiceHandler interface {
	GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error)
}

// NewDashboardServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDashboardHandler := connect.NewUnaryHandler(DashboardServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	return "/" + DashboardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DashboardServiceGetDashboardProcedure:
			getDashboardHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedDashboardServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDashboardServiceHandler struct{}

func (UnimplementedDashboardServiceHandler) GetDashboard(context.Context, *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.DashboardService.GetDashboard is not implemented"))
}
