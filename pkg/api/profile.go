package api

// Profile is a household bills are grouped under.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Country   string `json:"country"`
	CreatedAt int64  `json:"created_at"`
}

type CreateProfileRequest struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Street  string `json:"street" validate:"max=200"`
	City    string `json:"city" validate:"max=100"`
	Country string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
}

type CreateProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type GetProfileRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
}

type GetProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type ListProfilesRequest struct{}

type ListProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

type UpdateProfileRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
	Name      string `json:"name" validate:"notblank,max=100"`
	Street    string `json:"street" validate:"max=200"`
	City      string `json:"city" validate:"max=100"`
	Country   string `json:"country" validate:"omitempty,iso3166_1_alpha2"`
}

type UpdateProfileResponse struct {
	Profile *Profile `json:"profile"`
}

type DeleteProfileRequest struct {
	ProfileID string `json:"profile_id" validate:"required"`
}

type DeleteProfileResponse struct{}
