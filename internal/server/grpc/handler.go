package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Unknown errors are
// reported as Internal without their text.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrFieldRequired):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrTooManyAttempts):
		return status.Error(codes.ResourceExhausted, "too many attempts, try again later")
	case errors.Is(err, common.ErrVersionConflict):
		return status.Error(codes.Aborted, "changed concurrently, retry")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) RegisterUser(ctx context.Context, req *api.RegisterUserRequest) (*api.RegisterUserResponse, error) {
	s.logger.Info(ctx, "Registration request")

	user, err := s.users.CreateUser(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "registration refused", "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", user.Username, "user_id", user.ID)
	return &api.RegisterUserResponse{UserID: user.ID, Username: user.Username}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, status.Error(codes.Unauthenticated, "unknown refresh token")
		}
		return nil, toStatus(err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*api.ChangePasswordResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.users.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		return nil, toStatus(err)
	}
	return &api.ChangePasswordResponse{}, nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *api.GetProfileRequest) (*api.GetProfileResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if req.UserID != 0 {
		userID = req.UserID
	}

	p, err := s.users.Profile(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetProfileResponse{
		UserID:                  p.UserID,
		Username:                p.Username,
		WelcomeName:             p.WelcomeName,
		URLPath:                 p.URLPath,
		PictureURL:              p.PictureURL,
		IsStaff:                 p.IsStaff,
		IsSuperuser:             p.IsSuperuser,
		FxaMigrated:             p.FxaMigrated,
		HasAnonymousUsername:    p.HasAnonymousUsername,
		HasAnonymousDisplayName: p.HasAnonymousDisplayName,
		Bio:                     p.Bio,
		BioLocale:               p.BioLocale,
	}, nil
}

// PictureContentType is the only picture format accepted for upload.
const PictureContentType = "image/png"

func (s *GRPCServer) GetPictureUploadURL(ctx context.Context, req *api.GetPictureUploadURLRequest) (*api.GetPictureUploadURLResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	url, err := s.users.PictureUploadURL(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetPictureUploadURLResponse{URL: url, ContentType: PictureContentType}, nil
}

func (s *GRPCServer) PictureUploaded(ctx context.Context, req *api.PictureUploadedRequest) (*api.PictureUploadedResponse, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if err := s.users.PictureUploaded(ctx, userID, req.ContentType); err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "picture updated")
	return &api.PictureUploadedResponse{}, nil
}

func toAPINote(n services.ReviewNote) api.ReviewNote {
	return api.ReviewNote{
		ID:        n.ID,
		UserID:    n.UserID,
		Action:    int(n.Action),
		Details:   n.Details,
		CreatedAt: n.CreatedAt,
		Highlight: n.Highlight,
	}
}

func (s *GRPCServer) ListReviewNotes(ctx context.Context, req *api.ListReviewNotesRequest) (*api.ListReviewNotesResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	notes, err := s.notes.List(ctx, userID, req.AddonID, req.VersionID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListReviewNotesResponse{Notes: make([]api.ReviewNote, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, toAPINote(n))
	}
	return resp, nil
}

func (s *GRPCServer) GetReviewNote(ctx context.Context, req *api.GetReviewNoteRequest) (*api.GetReviewNoteResponse, error) {
	userID, _ := UserIDFromContext(ctx)

	note, err := s.notes.Get(ctx, userID, req.AddonID, req.VersionID, req.NoteID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetReviewNoteResponse{Note: toAPINote(*note)}, nil
}
