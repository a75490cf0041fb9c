// Package httpapi is the HTTP/JSON presentation boundary of the server: file
// actions, search over the cached list, the application state snapshot and
// a WebSocket feed of state changes.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

// FileService covers the read-only coordinator calls that bypass the state
// container.
type FileService interface {
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	DownloadURL(ctx context.Context, fullPath string) (string, error)
}

// BlobReader serves blob content for the in-memory storage backend.
type BlobReader interface {
	Open(key string) ([]byte, string, error)
}

type Dependencies struct {
	Files   FileService
	Actions *appstate.Actions
	// Blobs is optional; when set, GET /blobs/* serves its content.
	Blobs   BlobReader
	Logger  logging.Logger
	Version string
	// MaxUploadBytes limits multipart bodies; zero means no limit.
	MaxUploadBytes int64
	// SecretKey guards /api/* with access tokens; empty leaves it open.
	SecretKey string
}

type Handler struct {
	files   FileService
	actions *appstate.Actions
	blobs   BlobReader
	logger  logging.Logger
	version string
	secret  []byte
}

func NewHandler(deps *Dependencies) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Handler{
		files:   deps.Files,
		actions: deps.Actions,
		blobs:   deps.Blobs,
		logger:  logger.With("module", "http_api"),
		version: deps.Version,
		secret:  []byte(deps.SecretKey),
	}
}

// NewEcho builds the echo instance with middleware and all routes.
func NewEcho(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h := NewHandler(deps)
	SetupMiddleware(e, h.logger, deps.MaxUploadBytes)
	RegisterRoutes(e, h)
	return e
}

func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/health", h.HandleHealth)

	requireToken := AccessToken(h.secret)

	files := e.Group("/api/files", requireToken)
	files.GET("", h.HandleList)
	files.POST("", h.HandleUpload)
	files.DELETE("", h.HandleDelete)
	files.GET("/search", h.HandleSearch)
	files.PATCH("/description", h.HandleUpdateDescription)
	files.GET("/download", h.HandleDownload)
	files.GET("/:id", h.HandleGet)

	state := e.Group("/api/state", requireToken)
	state.GET("", h.HandleState)
	state.GET("/ws", h.HandleStateWebSocket)
	state.POST("/clear-error", h.HandleClearError)

	if h.blobs != nil {
		e.GET("/blobs/*", h.HandleBlob)
	}
}

func SetupMiddleware(e *echo.Echo, logger logging.Logger, maxUploadBytes int64) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	if maxUploadBytes > 0 {
		e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{Limit: strconv.FormatInt(maxUploadBytes, 10)}))
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.Warn(c.Request().Context(), "request failed", append(args, "error", v.Error.Error())...)
				return nil
			}
			logger.Debug(c.Request().Context(), "request", args...)
			return nil
		},
	}))
}

// Server runs the echo instance until its context is cancelled.
type Server struct {
	address string
	echo    *echo.Echo
	logger  logging.Logger
}

func NewServer(address string, deps *Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Server{address: address, echo: NewEcho(deps), logger: logger.With("module", "http_server")}
}

func (s *Server) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, l)
}

// Serve accepts connections on l and shuts down gracefully on ctx.Done.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.echo.Listener = l

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
