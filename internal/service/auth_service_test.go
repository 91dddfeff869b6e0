package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	var token string

	t.Run("Register returns user and token", func(t *testing.T) {
		resp, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:       "Ana@Example.com",
			DisplayName: "Ana",
			Password:    "password123",
		}))
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.Msg.Token == "" {
			t.Error("expected token")
		}
		if resp.Msg.ExpiresAt <= time.Now().Unix() {
			t.Errorf("expected expiry in the future, got %d", resp.Msg.ExpiresAt)
		}
		if resp.Msg.User.Email != "ana@example.com" {
			t.Errorf("email: expected 'ana@example.com', got '%s'", resp.Msg.User.Email)
		}
		token = resp.Msg.Token
	})

	t.Run("Register duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email:       "ana@example.com",
			DisplayName: "Ana Again",
			Password:    "password123",
		}))
		expectCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("Register validation", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.RegisterRequest
		}{
			{"invalid email", &api.RegisterRequest{Email: "nope", DisplayName: "X", Password: "password123"}},
			{"blank name", &api.RegisterRequest{Email: "x@example.com", DisplayName: "  ", Password: "password123"}},
			{"weak password", &api.RegisterRequest{Email: "x@example.com", DisplayName: "X", Password: "short"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.auth.Register(ctx, connect.NewRequest(tt.req))
				expectCode(t, err, connect.CodeInvalidArgument)
			})
		}
	})

	t.Run("Login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "ana@example.com",
			Password: "password123",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.DisplayName != "Ana" {
			t.Errorf("display name: expected 'Ana', got '%s'", resp.Msg.User.DisplayName)
		}

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "ana@example.com",
			Password: "wrong-password",
		}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("GetCurrentUser", func(t *testing.T) {
		resp, err := env.auth.GetCurrentUser(ctx, authed(token, &api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if resp.Msg.User.DisplayName != "Ana" || resp.Msg.User.CreatedAt == 0 {
			t.Errorf("expected full user from storage, got %+v", resp.Msg.User)
		}

		_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		expectCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("Logout", func(t *testing.T) {
		if _, err := env.auth.Logout(ctx, authed(token, &api.LogoutRequest{})); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
	})
}

func TestProtectedServicesRequireToken(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.profiles.ListProfiles(context.Background(), connect.NewRequest(&api.ListProfilesRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)

	_, err = env.dashboard.GetDashboard(context.Background(), authed("not-a-token", &api.GetDashboardRequest{}))
	expectCode(t, err, connect.CodeUnauthenticated)
}
