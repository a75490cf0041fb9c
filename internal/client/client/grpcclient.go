package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/rpc"
	"github.com/dmitrijs2005/filekeeper/internal/server/auth"
)

// tokens are renewed this long before they expire
const tokenRenewMargin = 5 * time.Second

// Options configure a GRPCClient. An empty SecretKey sends no token.
type Options struct {
	ClientName    string
	SecretKey     string
	TokenValidity time.Duration
	MaxMsgSize    int
}

type GRPCClient struct {
	endpointURL string
	opts        Options
	conn        *grpc.ClientConn
	files       *rpc.FileServiceClient
	health      healthpb.HealthClient

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

var _ appstate.Coordinator = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// token returns a valid access token, minting a new one when the cached
// token is missing, near expiry or force is set. It returns "" when no
// secret is configured.
func (s *GRPCClient) token(force bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.SecretKey == "" {
		return "", nil
	}

	if !force && s.accessToken != "" && time.Until(s.expiresAt) > tokenRenewMargin {
		return s.accessToken, nil
	}

	token, err := auth.GenerateToken(s.opts.ClientName, []byte(s.opts.SecretKey), s.opts.TokenValidity)
	if err != nil {
		return "", err
	}
	s.accessToken = token
	s.expiresAt = time.Now().Add(s.opts.TokenValidity)
	return token, nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	token, err := s.token(false)
	if err != nil {
		return err
	}
	if token == "" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err = invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	// expired: retry once with a newly minted token
	if !errors.Is(rpc.FromStatus(err), common.ErrTokenExpired) {
		return err
	}

	token, terr := s.token(true)
	if terr != nil {
		return err
	}
	return invoker(withAccessToken(ctx, token), method, req, reply, cc, opts...)
}

func NewFileKeeperClient(endpointURL string, opts Options) (*GRPCClient, error) {
	if opts.ClientName == "" {
		opts.ClientName = "filekeeper-cli"
	}
	if opts.TokenValidity <= 0 {
		opts.TokenValidity = time.Minute
	}

	c := &GRPCClient{endpointURL: endpointURL, opts: opts}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}
	if s.opts.MaxMsgSize > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(s.opts.MaxMsgSize),
			grpc.MaxCallSendMsgSize(s.opts.MaxMsgSize),
		))
	}

	conn, err := grpc.NewClient(s.endpointURL, dialOpts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.files = rpc.NewFileServiceClient(conn)
	s.health = healthpb.NewHealthClient(conn)
	return nil
}

// SetSecretKey replaces the signing secret and drops the cached token.
func (s *GRPCClient) SetSecretKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.SecretKey = key
	s.accessToken = ""
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Upload reads the whole content and sends it in one call. Reading the
// content drives any progress reporting wrapped around it.
func (s *GRPCClient) Upload(ctx context.Context, req models.UploadRequest) (*models.FileRecord, error) {
	if req.Content == nil {
		return nil, fmt.Errorf("%w: file is required", common.ErrValidation)
	}

	content, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	resp, err := s.files.Upload(ctx, &rpc.UploadRequest{
		FileName:    req.FileName,
		Description: req.Description,
		Content:     content,
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	return &resp.File, nil
}

func (s *GRPCClient) FetchAll(ctx context.Context) ([]models.FileRecord, error) {
	resp, err := s.files.List(ctx, &rpc.ListRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Files, nil
}

func (s *GRPCClient) Delete(ctx context.Context, fullPath string) (string, error) {
	resp, err := s.files.Delete(ctx, &rpc.DeleteRequest{FullPath: fullPath})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.FullPath, nil
}

func (s *GRPCClient) UpdateDescription(ctx context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	resp, err := s.files.UpdateDescription(ctx, &rpc.UpdateDescriptionRequest{FullPath: fullPath, Description: description})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &models.DescriptionUpdate{FullPath: resp.FullPath, Description: resp.Description}, nil
}

func (s *GRPCClient) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	resp, err := s.files.Get(ctx, &rpc.GetRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.File, nil
}

func (s *GRPCClient) DownloadURL(ctx context.Context, fullPath string) (string, error) {
	resp, err := s.files.DownloadURL(ctx, &rpc.DownloadURLRequest{FullPath: fullPath})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

// Ping asks the health service whether the file service is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		return s.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unavailable, codes.DeadlineExceeded:
			return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
		}
	}
	return rpc.FromStatus(err)
}
