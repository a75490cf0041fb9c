// Package grpc exposes the file action coordinator over gRPC with the JSON
// codec from internal/rpc, plus the standard health service.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/rpc"
)

// FileService is the server-side coordinator.
type FileService interface {
	appstate.Coordinator
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	DownloadURL(ctx context.Context, fullPath string) (string, error)
}

type GRPCServer struct {
	address    string
	files      FileService
	actions    appstate.Coordinator
	logger     logging.Logger
	jwtSecret  []byte
	maxMsgSize int
}

// NewGRPCServer builds the server. Mutating calls go through actions so
// they show up in the shared application state; a nil actions uses files
// directly. An empty secretKey disables token checks.
func NewGRPCServer(a string, l logging.Logger, files FileService, actions appstate.Coordinator, secretKey string, maxMsgSize int) (*GRPCServer, error) {
	if actions == nil {
		actions = files
	}
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		files:      files,
		actions:    actions,
		jwtSecret:  []byte(secretKey),
		maxMsgSize: maxMsgSize,
	}, nil
}

func (s *GRPCServer) newServer() *grpc.Server {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor)}
	if s.maxMsgSize > 0 {
		opts = append(opts, grpc.MaxRecvMsgSize(s.maxMsgSize), grpc.MaxSendMsgSize(s.maxMsgSize))
	}

	srv := grpc.NewServer(opts...)
	rpc.RegisterFileServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, l net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil {
		return err
	}

	return nil
}
