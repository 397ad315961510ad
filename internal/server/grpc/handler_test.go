package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/dmitrijs2005/addonaccounts/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeUsers struct {
	createResp *models.User
	createErr  error

	loginResp *services.TokenPair
	loginErr  error

	refreshResp *services.TokenPair
	refreshErr  error

	changeErr    error
	changeUserID int64

	profileResp *services.Profile
	profileErr  error
	profileFor  int64

	uploadURL   string
	uploadErr   error
	uploadedFor int64
	uploadedAs  string
}

func (f *fakeUsers) CreateUser(ctx context.Context, username, email, password string) (*models.User, error) {
	return f.createResp, f.createErr
}
func (f *fakeUsers) Login(ctx context.Context, username, password string) (*services.TokenPair, error) {
	return f.loginResp, f.loginErr
}
func (f *fakeUsers) RefreshToken(ctx context.Context, refresh string) (*services.TokenPair, error) {
	return f.refreshResp, f.refreshErr
}
func (f *fakeUsers) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	f.changeUserID = userID
	return f.changeErr
}
func (f *fakeUsers) Profile(ctx context.Context, userID int64) (*services.Profile, error) {
	f.profileFor = userID
	return f.profileResp, f.profileErr
}

func (f *fakeUsers) PictureUploadURL(ctx context.Context, userID int64) (string, error) {
	return f.uploadURL, f.uploadErr
}
func (f *fakeUsers) PictureUploaded(ctx context.Context, userID int64, contentType string) error {
	f.uploadedFor, f.uploadedAs = userID, contentType
	return f.uploadErr
}

type fakeNotes struct {
	listResp []services.ReviewNote
	err      error
	caller   int64
}

func (f *fakeNotes) List(ctx context.Context, callerID, addonID, versionID int64) ([]services.ReviewNote, error) {
	f.caller = callerID
	return f.listResp, f.err
}
func (f *fakeNotes) Get(ctx context.Context, callerID, addonID, versionID, noteID int64) (*services.ReviewNote, error) {
	f.caller = callerID
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.listResp {
		if f.listResp[i].ID == noteID {
			return &f.listResp[i], nil
		}
	}
	return nil, common.ErrorNotFound
}

func newHandlerServer(u *fakeUsers, n *fakeNotes) *GRPCServer {
	return NewGRPCServer("", nopLogger{}, u, n, "secret")
}

func withUser(id int64) context.Context {
	return context.WithValue(context.Background(), userIDKey, id)
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated},
		{common.ErrorForbidden, codes.PermissionDenied},
		{fmt.Errorf("wrapped: %w", common.ErrorNotFound), codes.NotFound},
		{fmt.Errorf("%w: bad email", common.ErrorValidation), codes.InvalidArgument},
		{fmt.Errorf("username: %w", common.ErrFieldRequired), codes.InvalidArgument},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrTooManyAttempts, codes.ResourceExhausted},
		{common.ErrVersionConflict, codes.Aborted},
		{errors.New("db down"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
	assert.Equal(t, "internal error", status.Convert(toStatus(errors.New("secret detail"))).Message())
}

func TestPing(t *testing.T) {
	s := newHandlerServer(&fakeUsers{}, &fakeNotes{})
	resp, err := s.Ping(context.Background(), &api.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestRegisterUser(t *testing.T) {
	u := &fakeUsers{createResp: &models.User{ID: 42, Username: "fxa"}}
	s := newHandlerServer(u, &fakeNotes{})

	resp, err := s.RegisterUser(context.Background(), &api.RegisterUserRequest{Username: "fxa"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.UserID)

	u.createErr = fmt.Errorf("%w: this username cannot be used", common.ErrorValidation)
	_, err = s.RegisterUser(context.Background(), &api.RegisterUserRequest{Username: "admin"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "cannot be used")
}

func TestLogin(t *testing.T) {
	u := &fakeUsers{loginResp: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	s := newHandlerServer(u, &fakeNotes{})

	resp, err := s.Login(context.Background(), &api.LoginRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "a", resp.AccessToken)
	assert.Equal(t, "r", resp.RefreshToken)

	u.loginErr = common.ErrorUnauthorized
	_, err = s.Login(context.Background(), &api.LoginRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	u.loginErr = common.ErrTooManyAttempts
	_, err = s.Login(context.Background(), &api.LoginRequest{})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestRefreshToken(t *testing.T) {
	u := &fakeUsers{refreshResp: &services.TokenPair{AccessToken: "a2", RefreshToken: "r2"}}
	s := newHandlerServer(u, &fakeNotes{})

	resp, err := s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "r"})
	require.NoError(t, err)
	assert.Equal(t, "a2", resp.AccessToken)

	u.refreshErr = fmt.Errorf("error searching refresh token: %w", common.ErrorNotFound)
	_, err = s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "gone"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	u.refreshErr = common.ErrRefreshTokenExpired
	_, err = s.RefreshToken(context.Background(), &api.RefreshTokenRequest{RefreshToken: "old"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestChangePassword(t *testing.T) {
	u := &fakeUsers{}
	s := newHandlerServer(u, &fakeNotes{})

	_, err := s.ChangePassword(context.Background(), &api.ChangePasswordRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	_, err = s.ChangePassword(withUser(7), &api.ChangePasswordRequest{OldPassword: "a", NewPassword: "b"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.changeUserID)

	u.changeErr = common.ErrVersionConflict
	_, err = s.ChangePassword(withUser(7), &api.ChangePasswordRequest{OldPassword: "a", NewPassword: "b"})
	assert.Equal(t, codes.Aborted, status.Code(err))
}

func TestGetProfile(t *testing.T) {
	u := &fakeUsers{profileResp: &services.Profile{UserID: 7, WelcomeName: "Sarah Connor", IsStaff: true}}
	s := newHandlerServer(u, &fakeNotes{})

	resp, err := s.GetProfile(withUser(7), &api.GetProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.profileFor)
	assert.Equal(t, "Sarah Connor", resp.WelcomeName)
	assert.True(t, resp.IsStaff)

	_, err = s.GetProfile(withUser(7), &api.GetProfileRequest{UserID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(9), u.profileFor)

	u.profileErr = common.ErrorNotFound
	_, err = s.GetProfile(withUser(7), &api.GetProfileRequest{UserID: 10})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestReviewNotes(t *testing.T) {
	uid := int64(3)
	now := time.Now()
	n := &fakeNotes{listResp: []services.ReviewNote{
		{ActivityLog: models.ActivityLog{ID: 2, UserID: &uid, Action: models.ActionRequestInformation, CreatedAt: now}, Highlight: true},
		{ActivityLog: models.ActivityLog{ID: 1, Action: models.ActionDeveloperReply, CreatedAt: now.Add(-time.Hour)}},
	}}
	s := newHandlerServer(&fakeUsers{}, n)

	list, err := s.ListReviewNotes(withUser(3), &api.ListReviewNotesRequest{AddonID: 1, VersionID: 2})
	require.NoError(t, err)
	require.Len(t, list.Notes, 2)
	assert.Equal(t, int(models.ActionRequestInformation), list.Notes[0].Action)
	assert.True(t, list.Notes[0].Highlight)
	assert.Equal(t, &uid, list.Notes[0].UserID)
	assert.Equal(t, int64(3), n.caller)

	got, err := s.GetReviewNote(withUser(3), &api.GetReviewNoteRequest{AddonID: 1, VersionID: 2, NoteID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Note.ID)
	assert.False(t, got.Note.Highlight)

	_, err = s.GetReviewNote(withUser(3), &api.GetReviewNoteRequest{NoteID: 99})
	assert.Equal(t, codes.NotFound, status.Code(err))

	n.err = common.ErrorForbidden
	_, err = s.ListReviewNotes(withUser(3), &api.ListReviewNotesRequest{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestPictureUpload(t *testing.T) {
	u := &fakeUsers{uploadURL: "https://s3/put"}
	s := newHandlerServer(u, &fakeNotes{})

	_, err := s.GetPictureUploadURL(context.Background(), &api.GetPictureUploadURLRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	resp, err := s.GetPictureUploadURL(withUser(7), &api.GetPictureUploadURLRequest{})
	require.NoError(t, err)
	assert.Equal(t, "https://s3/put", resp.URL)
	assert.Equal(t, "image/png", resp.ContentType)

	_, err = s.PictureUploaded(withUser(7), &api.PictureUploadedRequest{ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.uploadedFor)
	assert.Equal(t, "image/png", u.uploadedAs)

	u.uploadErr = fmt.Errorf("%w: unsupported picture type", common.ErrorValidation)
	_, err = s.PictureUploaded(withUser(7), &api.PictureUploadedRequest{ContentType: "image/gif"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
