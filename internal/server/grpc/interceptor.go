package grpc

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/rpc"
	"github.com/dmitrijs2005/filekeeper/internal/server/auth"
)

type ctxKey string

const clientKey ctxKey = "client"

// ClientFromContext returns the client name of an authenticated call.
func ClientFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(clientKey).(string)
	return v, ok
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	if len(s.jwtSecret) > 0 && strings.HasPrefix(info.FullMethod, "/"+rpc.ServiceName+"/") {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, rpc.ToStatus(common.ErrUnauthorized)
		}

		client, err := auth.GetClientFromToken(accessToken, s.jwtSecret)
		if err != nil {
			return nil, rpc.ToStatus(err)
		}

		ctx = context.WithValue(ctx, clientKey, client)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{"method", info.FullMethod, "code", status.Code(err).String(), "duration", time.Since(start)}
	if err != nil {
		s.logger.Warn(ctx, "grpc call failed", append(args, "error", err.Error())...)
	} else {
		s.logger.Debug(ctx, "grpc call", args...)
	}
	return resp, err
}
