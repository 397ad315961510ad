package api

import (
	"encoding/json"
	"time"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type RegisterUserResponse struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordResponse struct{}

// GetProfileRequest asks for the profile of UserID, or of the caller when
// UserID is zero.
type GetProfileRequest struct {
	UserID int64 `json:"user_id,omitempty"`
}

type GetProfileResponse struct {
	UserID                  int64  `json:"user_id"`
	Username                string `json:"username"`
	WelcomeName             string `json:"welcome_name"`
	URLPath                 string `json:"url"`
	PictureURL              string `json:"picture_url"`
	IsStaff                 bool   `json:"is_staff"`
	IsSuperuser             bool   `json:"is_superuser"`
	FxaMigrated             bool   `json:"fxa_migrated"`
	HasAnonymousUsername    bool   `json:"has_anonymous_username"`
	HasAnonymousDisplayName bool   `json:"has_anonymous_display_name"`
	Bio                     string `json:"bio,omitempty"`
	BioLocale               string `json:"bio_locale,omitempty"`
}

// ReviewNote is one moderation activity entry of a version.
type ReviewNote struct {
	ID        int64           `json:"id"`
	UserID    *int64          `json:"user_id,omitempty"`
	Action    int             `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"date"`
	Highlight bool            `json:"highlight"`
}

type ListReviewNotesRequest struct {
	AddonID   int64 `json:"addon_id"`
	VersionID int64 `json:"version_id"`
}

type ListReviewNotesResponse struct {
	Notes []ReviewNote `json:"notes"`
}

type GetReviewNoteRequest struct {
	AddonID   int64 `json:"addon_id"`
	VersionID int64 `json:"version_id"`
	NoteID    int64 `json:"note_id"`
}

type GetReviewNoteResponse struct {
	Note ReviewNote `json:"note"`
}

type GetPictureUploadURLRequest struct{}

// GetPictureUploadURLResponse carries a presigned URL accepting a PUT of
// the picture with ContentType.
type GetPictureUploadURLResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

type PictureUploadedRequest struct {
	ContentType string `json:"content_type"`
}

type PictureUploadedResponse struct{}
