package api

import (
	"context"

	"google.golang.org/grpc"
)

// AccountsServiceClient is the client API of the accounts service.
type AccountsServiceClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error)
	GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error)
	ListReviewNotes(ctx context.Context, in *ListReviewNotesRequest, opts ...grpc.CallOption) (*ListReviewNotesResponse, error)
	GetReviewNote(ctx context.Context, in *GetReviewNoteRequest, opts ...grpc.CallOption) (*GetReviewNoteResponse, error)
	GetPictureUploadURL(ctx context.Context, in *GetPictureUploadURLRequest, opts ...grpc.CallOption) (*GetPictureUploadURLResponse, error)
	PictureUploaded(ctx context.Context, in *PictureUploadedRequest, opts ...grpc.CallOption) (*PictureUploadedResponse, error)
}

type accountsServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountsServiceClient wraps cc. Every call is sent with the JSON
// content subtype.
func NewAccountsServiceClient(cc grpc.ClientConnInterface) AccountsServiceClient {
	return &accountsServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountsServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *accountsServiceClient) RegisterUser(ctx context.Context, in *RegisterUserRequest, opts ...grpc.CallOption) (*RegisterUserResponse, error) {
	return invoke[RegisterUserResponse](ctx, c.cc, MethodRegisterUser, in, opts)
}

func (c *accountsServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *accountsServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *accountsServiceClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*ChangePasswordResponse, error) {
	return invoke[ChangePasswordResponse](ctx, c.cc, MethodChangePassword, in, opts)
}

func (c *accountsServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*GetProfileResponse, error) {
	return invoke[GetProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *accountsServiceClient) ListReviewNotes(ctx context.Context, in *ListReviewNotesRequest, opts ...grpc.CallOption) (*ListReviewNotesResponse, error) {
	return invoke[ListReviewNotesResponse](ctx, c.cc, MethodListReviewNotes, in, opts)
}

func (c *accountsServiceClient) GetReviewNote(ctx context.Context, in *GetReviewNoteRequest, opts ...grpc.CallOption) (*GetReviewNoteResponse, error) {
	return invoke[GetReviewNoteResponse](ctx, c.cc, MethodGetReviewNote, in, opts)
}

func (c *accountsServiceClient) GetPictureUploadURL(ctx context.Context, in *GetPictureUploadURLRequest, opts ...grpc.CallOption) (*GetPictureUploadURLResponse, error) {
	return invoke[GetPictureUploadURLResponse](ctx, c.cc, MethodGetPictureUploadURL, in, opts)
}

func (c *accountsServiceClient) PictureUploaded(ctx context.Context, in *PictureUploadedRequest, opts ...grpc.CallOption) (*PictureUploadedResponse, error) {
	return invoke[PictureUploadedResponse](ctx, c.cc, MethodPictureUploaded, in, opts)
}
