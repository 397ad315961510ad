package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/api"
	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/locale"
	"github.com/dmitrijs2005/addonaccounts/internal/logging"
	"github.com/dmitrijs2005/addonaccounts/internal/server/auth"
	"golang.org/x/text/language"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// protectedMethods need a valid access token.
var protectedMethods = map[string]bool{
	api.MethodChangePassword:  true,
	api.MethodGetProfile:      true,
	api.MethodListReviewNotes: true,
	api.MethodGetReviewNote:   true,

	api.MethodGetPictureUploadURL: true,
	api.MethodPictureUploaded:     true,
}

// UserIDFromContext returns the caller set by the access token interceptor.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id != 0
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// preferredLanguage returns the highest weighted language of an
// Accept-Language value, or "" when the header does not parse.
func preferredLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return ""
	}
	return tags[0].String()
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	if lang := preferredLanguage(firstValue(md, common.LocaleHeaderName)); lang != "" {
		ctx = locale.WithLocale(ctx, lang)
	}

	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstValue(md, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = logging.ContextWith(ctx, "user_id", userID)

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx = logging.ContextWith(ctx, "method", info.FullMethod)
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"code", code.String(), "duration", time.Since(start)}
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "request served", args...)
	}
	return resp, err
}
