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

// ProfileService implements the Connect ProfileService.
type ProfileService struct {
	apiconnect.UnimplementedProfileServiceHandler
	store storage.Store
	owned owned
}

// NewProfileService creates a new ProfileService with the given storage backend.
func NewProfileService(store storage.Store) *ProfileService {
	return &ProfileService{store: store, owned: owned{store: store}}
}

// normalizeCountry upper-cases country codes so "hr" validates as "HR".
func normalizeCountry(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// CreateProfile creates a profile owned by the caller.
func (s *ProfileService) CreateProfile(ctx context.Context, req *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req.Msg.Country = normalizeCountry(req.Msg.Country)
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	slog.Info("CreateProfile request received", "user_id", userID, "name", req.Msg.Name)

	profile := &models.Profile{
		UserID:  userID,
		Name:    strings.TrimSpace(req.Msg.Name),
		Street:  strings.TrimSpace(req.Msg.Street),
		City:    strings.TrimSpace(req.Msg.City),
		Country: req.Msg.Country,
	}
	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, storeError("create profile", err, "user_id", userID)
	}

	slog.Info("Profile created", "profile_id", profile.ID)
	return connect.NewResponse(&api.CreateProfileResponse{Profile: toAPIProfile(profile)}), nil
}

// GetProfile retrieves one of the caller's profiles.
func (s *ProfileService) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	profile, err := s.owned.profile(ctx, userID, req.Msg.ProfileID)
	if err != nil {
		return nil, storeError("get profile", err, "profile_id", req.Msg.ProfileID)
	}

	return connect.NewResponse(&api.GetProfileResponse{Profile: toAPIProfile(profile)}), nil
}

// ListProfiles lists the caller's profiles by name.
func (s *ProfileService) ListProfiles(ctx context.Context, req *connect.Request[api.ListProfilesRequest]) (*connect.Response[api.ListProfilesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.store.ListProfiles(ctx, userID)
	if err != nil {
		return nil, storeError("list profiles", err, "user_id", userID)
	}

	out := make([]*api.Profile, len(profiles))
	for i, p := range profiles {
		out[i] = toAPIProfile(p)
	}

	slog.Info("ListProfiles successful", "user_id", userID, "count", len(out))
	return connect.NewResponse(&api.ListProfilesResponse{Profiles: out}), nil
}

// UpdateProfile replaces a profile's name and address.
func (s *ProfileService) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	req.Msg.Country = normalizeCountry(req.Msg.Country)
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	profile, err := s.owned.profile(ctx, userID, req.Msg.ProfileID)
	if err != nil {
		return nil, storeError("update profile", err, "profile_id", req.Msg.ProfileID)
	}

	profile.Name = strings.TrimSpace(req.Msg.Name)
	profile.Street = strings.TrimSpace(req.Msg.Street)
	profile.City = strings.TrimSpace(req.Msg.City)
	profile.Country = req.Msg.Country
	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		return nil, storeError("update profile", err, "profile_id", profile.ID)
	}

	slog.Info("Profile updated", "profile_id", profile.ID)
	return connect.NewResponse(&api.UpdateProfileResponse{Profile: toAPIProfile(profile)}), nil
}

// DeleteProfile removes a profile together with its bills and instances.
func (s *ProfileService) DeleteProfile(ctx context.Context, req *connect.Request[api.DeleteProfileRequest]) (*connect.Response[api.DeleteProfileResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, err := s.owned.profile(ctx, userID, req.Msg.ProfileID); err != nil {
		return nil, storeError("delete profile", err, "profile_id", req.Msg.ProfileID)
	}
	if err := s.store.DeleteProfile(ctx, req.Msg.ProfileID); err != nil {
		return nil, storeError("delete profile", err, "profile_id", req.Msg.ProfileID)
	}

	slog.Info("Profile deleted", "profile_id", req.Msg.ProfileID)
	return connect.NewResponse(&api.DeleteProfileResponse{}), nil
}
