package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

func TestProfileService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	ana := env.register(t, "ana@example.com")
	ivo := env.register(t, "ivo@example.com")

	var profileID string

	t.Run("CreateProfile normalizes country", func(t *testing.T) {
		resp, err := env.profiles.CreateProfile(ctx, authed(ana, &api.CreateProfileRequest{
			Name:    " Home ",
			Street:  "Ilica 1",
			City:    "Zagreb",
			Country: "hr",
		}))
		if err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
		p := resp.Msg.Profile
		if p.ID == "" || p.CreatedAt == 0 {
			t.Errorf("expected generated ID and CreatedAt, got %+v", p)
		}
		if p.Name != "Home" || p.Country != "HR" {
			t.Errorf("expected trimmed name and upper-case country, got %q/%q", p.Name, p.Country)
		}
		profileID = p.ID
	})

	t.Run("CreateProfile validation", func(t *testing.T) {
		_, err := env.profiles.CreateProfile(ctx, authed(ana, &api.CreateProfileRequest{Name: ""}))
		expectCode(t, err, connect.CodeInvalidArgument)

		_, err = env.profiles.CreateProfile(ctx, authed(ana, &api.CreateProfileRequest{Name: "Flat", Country: "Croatia"}))
		expectCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("GetProfile", func(t *testing.T) {
		resp, err := env.profiles.GetProfile(ctx, authed(ana, &api.GetProfileRequest{ProfileID: profileID}))
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if resp.Msg.Profile.City != "Zagreb" {
			t.Errorf("city: expected 'Zagreb', got '%s'", resp.Msg.Profile.City)
		}

		_, err = env.profiles.GetProfile(ctx, authed(ana, &api.GetProfileRequest{ProfileID: "missing"}))
		expectCode(t, err, connect.CodeNotFound)
	})

	t.Run("other users see NotFound", func(t *testing.T) {
		_, err := env.profiles.GetProfile(ctx, authed(ivo, &api.GetProfileRequest{ProfileID: profileID}))
		expectCode(t, err, connect.CodeNotFound)

		_, err = env.profiles.UpdateProfile(ctx, authed(ivo, &api.UpdateProfileRequest{ProfileID: profileID, Name: "Mine"}))
		expectCode(t, err, connect.CodeNotFound)

		_, err = env.profiles.DeleteProfile(ctx, authed(ivo, &api.DeleteProfileRequest{ProfileID: profileID}))
		expectCode(t, err, connect.CodeNotFound)

		resp, err := env.profiles.ListProfiles(ctx, authed(ivo, &api.ListProfilesRequest{}))
		if err != nil {
			t.Fatalf("ListProfiles failed: %v", err)
		}
		if len(resp.Msg.Profiles) != 0 {
			t.Errorf("expected no profiles for ivo, got %d", len(resp.Msg.Profiles))
		}
	})

	t.Run("UpdateProfile", func(t *testing.T) {
		resp, err := env.profiles.UpdateProfile(ctx, authed(ana, &api.UpdateProfileRequest{
			ProfileID: profileID,
			Name:      "Holiday flat",
			City:      "Split",
			Country:   "HR",
		}))
		if err != nil {
			t.Fatalf("UpdateProfile failed: %v", err)
		}
		if resp.Msg.Profile.Name != "Holiday flat" || resp.Msg.Profile.Street != "" {
			t.Errorf("unexpected profile after update: %+v", resp.Msg.Profile)
		}
	})

	t.Run("ListProfiles orders by name", func(t *testing.T) {
		env.createProfile(t, ana, "Attic")

		resp, err := env.profiles.ListProfiles(ctx, authed(ana, &api.ListProfilesRequest{}))
		if err != nil {
			t.Fatalf("ListProfiles failed: %v", err)
		}
		if len(resp.Msg.Profiles) != 2 {
			t.Fatalf("expected 2 profiles, got %d", len(resp.Msg.Profiles))
		}
		if resp.Msg.Profiles[0].Name != "Attic" {
			t.Errorf("expected 'Attic' first, got '%s'", resp.Msg.Profiles[0].Name)
		}
	})

	t.Run("DeleteProfile", func(t *testing.T) {
		if _, err := env.profiles.DeleteProfile(ctx, authed(ana, &api.DeleteProfileRequest{ProfileID: profileID})); err != nil {
			t.Fatalf("DeleteProfile failed: %v", err)
		}
		_, err := env.profiles.GetProfile(ctx, authed(ana, &api.GetProfileRequest{ProfileID: profileID}))
		expectCode(t, err, connect.CodeNotFound)
	})
}
