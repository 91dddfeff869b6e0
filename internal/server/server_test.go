package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/billcal/internal/analytics"
	"github.com/mmynk/billcal/internal/auth"
	"github.com/mmynk/billcal/internal/config"
	"github.com/mmynk/billcal/internal/credentials"
	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/storage/sqlite"
	"github.com/mmynk/billcal/pkg/api"
	"github.com/mmynk/billcal/pkg/api/apiconnect"
)

type disabledSource struct{}

func (disabledSource) Overview(context.Context, analytics.Query) (*analytics.Overview, error) {
	return nil, analytics.ErrDisabled
}

func (disabledSource) PageViews(context.Context, analytics.Query) ([]models.PageView, error) {
	return nil, analytics.ErrDisabled
}

func setupRouter(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "web")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		t.Fatalf("failed to create static dir: %v", err)
	}
	files := map[string]string{
		"index.html": "<html>billcal</html>",
		"app.js":     "console.log('billcal')",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	encryptor, err := credentials.NewEncryptor("router-test-credentials-secret")
	if err != nil {
		t.Fatalf("failed to create encryptor: %v", err)
	}

	handler := NewRouter(Deps{
		Config: config.ServerConfig{
			StaticDir:         staticDir,
			CORSOrigins:       []string{"https://app.example.com"},
			RateLimitRequests: rateLimit,
			RateLimitWindow:   time.Minute,
		},
		Store:     store,
		JWT:       auth.NewJWTManager("router-test-secret-0123", time.Hour),
		Auth:      auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		Cipher:    encryptor,
		Analytics: disabledSource{},
	})

	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestRouterStatic(t *testing.T) {
	server := setupRouter(t, 100)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{"root", "/", http.StatusOK, "<html>billcal</html>"},
		{"page route", "/calendar", http.StatusOK, "<html>billcal</html>"},
		{"localized page route", "/hr/bills", http.StatusOK, "<html>billcal</html>"},
		{"asset", "/app.js", http.StatusOK, "console.log('billcal')"},
		{"localized asset", "/en/app.js", http.StatusOK, "console.log('billcal')"},
		{"unknown rpc", "/billcal.v1.NopeService/Nope", http.StatusNotFound, ""},
		{"unknown api", "/api/nope", http.StatusNotFound, ""},
		{"health", "/healthz", http.StatusOK, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, server.URL+tt.path)
			if code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, code)
			}
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("expected body %q, got %q", tt.wantBody, body)
			}
		})
	}
}

func TestRouterMetrics(t *testing.T) {
	server := setupRouter(t, 100)

	code, body := get(t, server.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if !strings.Contains(body, "billcal_analytics_breaker_state") {
		t.Error("expected billcal metrics in /metrics output")
	}
}

func TestRouterConnect(t *testing.T) {
	server := setupRouter(t, 100)
	ctx := context.Background()

	authClient := apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
	reg, err := authClient.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "ana@example.com",
		DisplayName: "Ana",
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	profiles := apiconnect.NewProfileServiceClient(http.DefaultClient, server.URL)

	t.Run("private service requires a token", func(t *testing.T) {
		_, err := profiles.ListProfiles(ctx, connect.NewRequest(&api.ListProfilesRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("expected Unauthenticated, got %v", err)
		}
	})

	t.Run("private service with token", func(t *testing.T) {
		req := connect.NewRequest(&api.ListProfilesRequest{})
		req.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
		resp, err := profiles.ListProfiles(ctx, req)
		if err != nil {
			t.Fatalf("ListProfiles failed: %v", err)
		}
		if len(resp.Msg.Profiles) != 0 {
			t.Errorf("expected no profiles, got %d", len(resp.Msg.Profiles))
		}
	})
}

func TestRouterAnalytics(t *testing.T) {
	server := setupRouter(t, 2)

	for i := 0; i < 2; i++ {
		code, body := get(t, server.URL+"/api/matomo")
		if code != http.StatusServiceUnavailable {
			t.Fatalf("request %d: expected 503, got %d", i, code)
		}
		if !strings.Contains(body, "Analytics is not configured") {
			t.Errorf("unexpected body: %s", body)
		}
	}

	code, _ := get(t, server.URL+"/api/recommendations")
	if code != http.StatusTooManyRequests {
		t.Errorf("expected 429 once the limit is spent, got %d", code)
	}
}

func TestRouterCORS(t *testing.T) {
	server := setupRouter(t, 100)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/billcal.v1.ProfileService/ListProfiles", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("expected allowed origin, got %q", got)
	}

	req, _ = http.NewRequest(http.MethodOptions, server.URL+"/billcal.v1.ProfileService/ListProfiles", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header for unknown origin, got %q", got)
	}
}
