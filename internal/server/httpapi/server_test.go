package httpapi

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
)

func TestServer_ServeAndShutdown(t *testing.T) {
	ff := newFakeFiles(reportRec)
	srv := NewServer("127.0.0.1:0", &Dependencies{
		Files:   ff,
		Actions: appstate.NewActions(ff, appstate.New(), nil),
	})

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, l) }()

	url := "http://" + l.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunBadAddress(t *testing.T) {
	srv := NewServer("256.0.0.1:bad", &Dependencies{Actions: appstate.NewActions(newFakeFiles(), appstate.New(), nil)})
	assert.Error(t, srv.Run(context.Background()))
}
