package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "addonaccounts.AccountsService"

// Full method names.
const (
	MethodPing            = "/" + ServiceName + "/Ping"
	MethodRegisterUser    = "/" + ServiceName + "/RegisterUser"
	MethodLogin           = "/" + ServiceName + "/Login"
	MethodRefreshToken    = "/" + ServiceName + "/RefreshToken"
	MethodChangePassword  = "/" + ServiceName + "/ChangePassword"
	MethodGetProfile      = "/" + ServiceName + "/GetProfile"
	MethodListReviewNotes = "/" + ServiceName + "/ListReviewNotes"
	MethodGetReviewNote   = "/" + ServiceName + "/GetReviewNote"

	MethodGetPictureUploadURL = "/" + ServiceName + "/GetPictureUploadURL"
	MethodPictureUploaded     = "/" + ServiceName + "/PictureUploaded"
)

// AccountsServiceServer is the server API of the accounts service.
type AccountsServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error)
	ListReviewNotes(context.Context, *ListReviewNotesRequest) (*ListReviewNotesResponse, error)
	GetReviewNote(context.Context, *GetReviewNoteRequest) (*GetReviewNoteResponse, error)
	GetPictureUploadURL(context.Context, *GetPictureUploadURLRequest) (*GetPictureUploadURLResponse, error)
	PictureUploaded(context.Context, *PictureUploadedRequest) (*PictureUploadedResponse, error)
}

// UnimplementedAccountsServiceServer answers every method with
// codes.Unimplemented. Embed it to stay forward compatible.
type UnimplementedAccountsServiceServer struct{}

func (UnimplementedAccountsServiceServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAccountsServiceServer) RegisterUser(context.Context, *RegisterUserRequest) (*RegisterUserResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterUser not implemented")
}
func (UnimplementedAccountsServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedAccountsServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedAccountsServiceServer) ChangePassword(context.Context, *ChangePasswordRequest) (*ChangePasswordResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ChangePassword not implemented")
}
func (UnimplementedAccountsServiceServer) GetProfile(context.Context, *GetProfileRequest) (*GetProfileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedAccountsServiceServer) ListReviewNotes(context.Context, *ListReviewNotesRequest) (*ListReviewNotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReviewNotes not implemented")
}
func (UnimplementedAccountsServiceServer) GetReviewNote(context.Context, *GetReviewNoteRequest) (*GetReviewNoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetReviewNote not implemented")
}
func (UnimplementedAccountsServiceServer) GetPictureUploadURL(context.Context, *GetPictureUploadURLRequest) (*GetPictureUploadURLResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPictureUploadURL not implemented")
}
func (UnimplementedAccountsServiceServer) PictureUploaded(context.Context, *PictureUploadedRequest) (*PictureUploadedResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PictureUploaded not implemented")
}

func RegisterAccountsServiceServer(s grpc.ServiceRegistrar, srv AccountsServiceServer) {
	s.RegisterService(&AccountsServiceDesc, srv)
}

// unaryHandler adapts a typed method to the grpc.MethodDesc handler shape.
func unaryHandler[Req any, Resp any](fullMethod string, call func(AccountsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountsServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountsServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccountsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, AccountsServiceServer.Ping)},
		{MethodName: "RegisterUser", Handler: unaryHandler(MethodRegisterUser, AccountsServiceServer.RegisterUser)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, AccountsServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler(MethodRefreshToken, AccountsServiceServer.RefreshToken)},
		{MethodName: "ChangePassword", Handler: unaryHandler(MethodChangePassword, AccountsServiceServer.ChangePassword)},
		{MethodName: "GetProfile", Handler: unaryHandler(MethodGetProfile, AccountsServiceServer.GetProfile)},
		{MethodName: "ListReviewNotes", Handler: unaryHandler(MethodListReviewNotes, AccountsServiceServer.ListReviewNotes)},
		{MethodName: "GetReviewNote", Handler: unaryHandler(MethodGetReviewNote, AccountsServiceServer.GetReviewNote)},
		{MethodName: "GetPictureUploadURL", Handler: unaryHandler(MethodGetPictureUploadURL, AccountsServiceServer.GetPictureUploadURL)},
		{MethodName: "PictureUploaded", Handler: unaryHandler(MethodPictureUploaded, AccountsServiceServer.PictureUploaded)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "addonaccounts/accounts.json",
}
