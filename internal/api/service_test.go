package api

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type pingOnly struct {
	UnimplementedAccountsServiceServer
	seen string
}

func (p *pingOnly) Ping(ctx context.Context, _ *PingRequest) (*PingResponse, error) {
	return &PingResponse{Status: "OK"}, nil
}

func (p *pingOnly) Login(ctx context.Context, in *LoginRequest) (*LoginResponse, error) {
	p.seen = in.Username
	return &LoginResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func dial(t *testing.T, srv AccountsServiceServer, opts ...grpc.ServerOption) AccountsServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(opts...)
	RegisterAccountsServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewAccountsServiceClient(conn)
}

func TestClientServerRoundTrip(t *testing.T) {
	srv := &pingOnly{}
	c := dial(t, srv)
	ctx := context.Background()

	pong, err := c.Ping(ctx, &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", pong.Status)

	tokens, err := c.Login(ctx, &LoginRequest{Username: "jbalogh", Password: "lètmein"})
	require.NoError(t, err)
	assert.Equal(t, "a", tokens.AccessToken)
	assert.Equal(t, "jbalogh", srv.seen)

	_, err = c.GetProfile(ctx, &GetProfileRequest{})
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestInterceptorSeesFullMethod(t *testing.T) {
	var methods []string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, h grpc.UnaryHandler) (any, error) {
		methods = append(methods, info.FullMethod)
		return h(ctx, req)
	}
	c := dial(t, &pingOnly{}, grpc.ChainUnaryInterceptor(icpt))

	_, err := c.Ping(context.Background(), &PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{MethodPing}, methods)
}

func TestCodec(t *testing.T) {
	var c Codec
	assert.Equal(t, CodecName, c.Name())

	b, err := c.Marshal(&LoginRequest{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"u","password":"p"}`, string(b))

	var req LoginRequest
	require.NoError(t, c.Unmarshal(nil, &req))
	assert.Empty(t, req.Username)

	assert.Error(t, c.Unmarshal([]byte("{"), &req))
	_, err = c.Marshal(make(chan int))
	assert.Error(t, err)
}
