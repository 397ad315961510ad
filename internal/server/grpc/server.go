// Package grpc exposes the accounts services over gRPC.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/dmitrijs2005/addonaccounts/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is the subset of services.UserService the transport calls.
type UserService interface {
	CreateUser(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	Profile(ctx context.Context, userID int64) (*services.Profile, error)
	PictureUploadURL(ctx context.Context, userID int64) (string, error)
	PictureUploaded(ctx context.Context, userID int64, contentType string) error
}

type ReviewNotesService interface {
	List(ctx context.Context, callerID, addonID, versionID int64) ([]services.ReviewNote, error)
	Get(ctx context.Context, callerID, addonID, versionID, noteID int64) (*services.ReviewNote, error)
}

type GRPCServer struct {
	api.UnimplementedAccountsServiceServer
	address   string
	users     UserService
	notes     ReviewNotesService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, ns ReviewNotesService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		notes:     ns,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAccountsServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
