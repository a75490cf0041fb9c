package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/client/client"
	"github.com/dmitrijs2005/filekeeper/internal/client/config"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// FileClient is the server API used by the CLI.
type FileClient interface {
	appstate.Coordinator
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	DownloadURL(ctx context.Context, fullPath string) (string, error)
	Ping(ctx context.Context) error
	SetSecretKey(key string)
	Close() error
}

type App struct {
	config  *config.Config
	client  FileClient
	actions *appstate.Actions
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	mu       sync.Mutex
	mode     Mode
	loggedIn bool
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stderr, c.LogLevel)

	apiClient, err := client.NewFileKeeperClient(c.ServerEndpointAddr, client.Options{
		ClientName:    c.ClientName,
		SecretKey:     c.SecretKey,
		TokenValidity: c.TokenValidity,
		MaxMsgSize:    c.MaxMsgSize,
	})
	if err != nil {
		return nil, err
	}

	return newApp(c, apiClient, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, fc FileClient, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		client:   fc,
		actions:  appstate.NewActions(fc, appstate.New(), logger),
		logger:   logger,
		reader:   bufio.NewReader(in),
		out:      out,
		loggedIn: c.SecretKey != "",
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

func (a *App) setLoggedIn(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedIn = v
}

// withTimeout bounds one server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	log.Println("Welcome to FileKeeper CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initial load; doubles as the check whether the server wants a token.
	if err := a.List(ctx); err != nil {
		if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrInvalidToken) {
			_ = a.Login(ctx)
		}
	} else {
		a.setLoggedIn(true)
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.client.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
