package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// CalendarServiceName is the fully-qualified name of the CalendarService.
const CalendarServiceName = "billcal.v1.CalendarService"

const (
	CalendarServiceGetCalendarProcedure = "/billcal.v1.CalendarService/GetCalendar"
)

// CalendarServiceClient is a client for the billcal.v1.CalendarService service.
type CalendarServiceClient interface {
	GetCalendar(context.Context, *connect.Request[api.GetCalendarRequest]) (*connect.Response[api.GetCalendarResponse], error)
}

// NewCalendarServiceClient constructs a client for the billcal.v1.CalendarService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewCalendarServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CalendarServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &calendarServiceClient{
		getCalendar: connect.NewClient[api.GetCalendarRequest, api.GetCalendarResponse](httpClient, baseURL+CalendarServiceGetCalendarProcedure, opts...),
	}
}

type calendarServiceClient struct {
	getCalendar *connect.Client[api.GetCalendarRequest, api.GetCalendarResponse]
}

func (c *calendarServiceClient) GetCalendar(ctx context.Context, req *connect.Request[api.GetCalendarRequest]) (*connect.Response[api.GetCalendarResponse], error) {
	return c.getCalendar.CallUnary(ctx, req)
}

// CalendarServiceHandler is implemented by the server side of billcal.v1.CalendarService.
type CalendarServiceHandler interface {
	GetCalendar(context.Context, *connect.Request[api.GetCalendarRequest]) (*connect.Response[api.GetCalendarResponse], error)
}

// NewCalendarServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewCalendarServiceHandler(svc CalendarServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getCalendarHandler := connect.NewUnaryHandler(CalendarServiceGetCalendarProcedure, svc.GetCalendar, opts...)
	return "/" + CalendarServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CalendarServiceGetCalendarProcedure:
			getCalendarHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedCalendarServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedCalendarServiceHandler struct{}

func (UnimplementedCalendarServiceHandler) GetCalendar(context.Context, *connect.Request[api.GetCalendarRequest]) (*connect.Response[api.GetCalendarResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.CalendarService.GetCalendar is not implemented"))
}
