package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/billcal/pkg/api"
)

// ProfileServiceName is the fully-qualified name of the ProfileService.
const ProfileServiceName = "billcal.v1.ProfileService"

const (
	ProfileServiceCreateProfileProcedure = "/billcal.v1.ProfileService/CreateProfile"
	ProfileServiceGetProfileProcedure    = "/billcal.v1.ProfileService/GetProfile"
	ProfileServiceListProfilesProcedure  = "/billcal.v1.ProfileService/ListProfiles"
	ProfileServiceUpdateProfileProcedure = "/billcal.v1.ProfileService/UpdateProfile"
	ProfileServiceDeleteProfileProcedure = "/billcal.v1.ProfileService/DeleteProfile"
)

// ProfileServiceClient is a client for the billcal.v1.ProfileService service.
type ProfileServiceClient interface {
	CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	ListProfiles(context.Context, *connect.Request[api.ListProfilesRequest]) (*connect.Response[api.ListProfilesResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	DeleteProfile(context.Context, *connect.Request[api.DeleteProfileRequest]) (*connect.Response[api.DeleteProfileResponse], error)
}

// NewProfileServiceClient constructs a client for the billcal.v1.ProfileService service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewProfileServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProfileServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &profileServiceClient{
		createProfile: connect.NewClient[api.CreateProfileRequest, api.CreateProfileResponse](httpClient, baseURL+ProfileServiceCreateProfileProcedure, opts...),
		getProfile:    connect.NewClient[api.GetProfileRequest, api.GetProfileResponse](httpClient, baseURL+ProfileServiceGetProfileProcedure, opts...),
		listProfiles:  connect.NewClient[api.ListProfilesRequest, api.ListProfilesResponse](httpClient, baseURL+ProfileServiceListProfilesProcedure, opts...),
		updateProfile: connect.NewClient[api.UpdateProfileRequest, api.UpdateProfileResponse](httpClient, baseURL+ProfileServiceUpdateProfileProcedure, opts...),
		deleteProfile: connect.NewClient[api.DeleteProfileRequest, api.DeleteProfileResponse](httpClient, baseURL+ProfileServiceDeleteProfileProcedure, opts...),
	}
}

type profileServiceClient struct {
	createProfile *connect.Client[api.CreateProfileRequest, api.CreateProfileResponse]
	getProfile    *connect.Client[api.GetProfileRequest, api.GetProfileResponse]
	listProfiles  *connect.Client[api.ListProfilesRequest, api.ListProfilesResponse]
	updateProfile *connect.Client[api.UpdateProfileRequest, api.UpdateProfileResponse]
	deleteProfile *connect.Client[api.DeleteProfileRequest, api.DeleteProfileResponse]
}

func (c *profileServiceClient) CreateProfile(ctx context.Context, req *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	return c.createProfile.CallUnary(ctx, req)
}

func (c *profileServiceClient) GetProfile(ctx context.Context, req *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return c.getProfile.CallUnary(ctx, req)
}

func (c *profileServiceClient) ListProfiles(ctx context.Context, req *connect.Request[api.ListProfilesRequest]) (*connect.Response[api.ListProfilesResponse], error) {
	return c.listProfiles.CallUnary(ctx, req)
}

func (c *profileServiceClient) UpdateProfile(ctx context.Context, req *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return c.updateProfile.CallUnary(ctx, req)
}

func (c *profileServiceClient) DeleteProfile(ctx context.Context, req *connect.Request[api.DeleteProfileRequest]) (*connect.Response[api.DeleteProfileResponse], error) {
	return c.deleteProfile.CallUnary(ctx, req)
}

// ProfileServiceHandler is implemented by the server side of billcal.v1.ProfileService.
type ProfileServiceHandler interface {
	CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error)
	GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error)
	ListProfiles(context.Context, *connect.Request[api.ListProfilesRequest]) (*connect.Response[api.ListProfilesResponse], error)
	UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error)
	DeleteProfile(context.Context, *connect.Request[api.DeleteProfileRequest]) (*connect.Response[api.DeleteProfileResponse], error)
}

// NewProfileServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewProfileServiceHandler(svc ProfileServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createProfileHandler := connect.NewUnaryHandler(ProfileServiceCreateProfileProcedure, svc.CreateProfile, opts...)
	getProfileHandler := connect.NewUnaryHandler(ProfileServiceGetProfileProcedure, svc.GetProfile, opts...)
	listProfilesHandler := connect.NewUnaryHandler(ProfileServiceListProfilesProcedure, svc.ListProfiles, opts...)
	updateProfileHandler := connect.NewUnaryHandler(ProfileServiceUpdateProfileProcedure, svc.UpdateProfile, opts...)
	deleteProfileHandler := connect.NewUnaryHandler(ProfileServiceDeleteProfileProcedure, svc.DeleteProfile, opts...)
	return "/" + ProfileServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProfileServiceCreateProfileProcedure:
			createProfileHandler.ServeHTTP(w, r)
		case ProfileServiceGetProfileProcedure:
			getProfileHandler.ServeHTTP(w, r)
		case ProfileServiceListProfilesProcedure:
			listProfilesHandler.ServeHTTP(w, r)
		case ProfileServiceUpdateProfileProcedure:
			updateProfileHandler.ServeHTTP(w, r)
		case ProfileServiceDeleteProfileProcedure:
			deleteProfileHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedProfileServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedProfileServiceHandler struct{}

func (UnimplementedProfileServiceHandler) CreateProfile(context.Context, *connect.Request[api.CreateProfileRequest]) (*connect.Response[api.CreateProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.ProfileService.CreateProfile is not implemented"))
}

func (UnimplementedProfileServiceHandler) GetProfile(context.Context, *connect.Request[api.GetProfileRequest]) (*connect.Response[api.GetProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.ProfileService.GetProfile is not implemented"))
}

func (UnimplementedProfileServiceHandler) ListProfiles(context.Context, *connect.Request[api.ListProfilesRequest]) (*connect.Response[api.ListProfilesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.ProfileService.ListProfiles is not implemented"))
}

func (UnimplementedProfileServiceHandler) UpdateProfile(context.Context, *connect.Request[api.UpdateProfileRequest]) (*connect.Response[api.UpdateProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.ProfileService.UpdateProfile is not implemented"))
}

func (UnimplementedProfileServiceHandler) DeleteProfile(context.Context, *connect.Request[api.DeleteProfileRequest]) (*connect.Response[api.DeleteProfileResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("billcal.v1.ProfileService.DeleteProfile is not implemented"))
}
