package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billcal/internal/auth"
	"github.com/mmynk/billcal/internal/credentials"
	"github.com/mmynk/billcal/internal/locale"
	"github.com/mmynk/billcal/internal/middleware"
	"github.com/mmynk/billcal/internal/storage/sqlite"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

// testEnv is a server with every Connect service mounted the way the real
// router mounts them, plus a client per service.
type testEnv struct {
	store *sqlite.SQLiteStore

	calendarSvc *CalendarService
	instanceSvc *BillInstanceService

	auth      apiconnect.AuthServiceClient
	profiles  apiconnect.ProfileServiceClient
	bills     apiconnect.BillServiceClient
	instances apiconnect.BillInstanceServiceClient
	calendar  apiconnect.CalendarServiceClient
	dashboard apiconnect.DashboardServiceClient
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("service-test-secret-0123", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	encryptor, err := credentials.NewEncryptor("service-test-credentials-secret")
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}

	env := &testEnv{
		store:       store,
		calendarSvc: NewCalendarService(store),
		instanceSvc: NewBillInstanceService(store),
	}

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor())
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, store, jwtManager, slog.Default()), public))
	mux.Handle(apiconnect.NewProfileServiceHandler(NewProfileService(store), private))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(store, encryptor), private))
	mux.Handle(apiconnect.NewBillInstanceServiceHandler(env.instanceSvc, private))
	mux.Handle(apiconnect.NewCalendarServiceHandler(env.calendarSvc, private))
	mux.Handle(apiconnect.NewDashboardServiceHandler(NewDashboardService(store), private))

	server := httptest.NewServer(locale.Middleware(mux))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.auth = apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	env.profiles = apiconnect.NewProfileServiceClient(http.DefaultClient, server.URL)
	env.bills = apiconnect.NewBillServiceClient(http.DefaultClient, server.URL)
	env.instances = apiconnect.NewBillInstanceServiceClient(http.DefaultClient, server.URL)
	env.calendar = apiconnect.NewCalendarServiceClient(http.DefaultClient, server.URL)
	env.dashboard = apiconnect.NewDashboardServiceClient(http.DefaultClient, server.URL)
	return env
}

// register creates an account and returns its session token.
func (e *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: "Test User",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp.Msg.Token
}

// authed wraps msg in a request carrying a bearer token.
func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

// createProfile and createBill set up fixtures through the public API.

func (e *testEnv) createProfile(t *testing.T, token, name string) *api.Profile {
	t.Helper()
	resp, err := e.profiles.CreateProfile(context.Background(), authed(token, &api.CreateProfileRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateProfile failed: %v", err)
	}
	return resp.Msg.Profile
}

func (e *testEnv) createBill(t *testing.T, token string, req *api.CreateBillRequest) *api.Bill {
	t.Helper()
	resp, err := e.bills.CreateBill(context.Background(), authed(token, req))
	if err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}
	return resp.Msg.Bill
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
