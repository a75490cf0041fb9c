package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/auth"
)

const testSecret = "http-secret"

func newSecuredTestEnv(t *testing.T, files ...models.FileRecord) *testEnv {
	t.Helper()
	ff := newFakeFiles(files...)
	actions := appstate.NewActions(ff, appstate.New(), nil)
	e := NewEcho(&Dependencies{Files: ff, Actions: actions, Version: "test", SecretKey: testSecret})
	return &testEnv{echo: e, files: ff, actions: actions}
}

func testToken(t *testing.T, secret string, validity time.Duration) string {
	t.Helper()
	token, err := auth.GenerateToken("web", []byte(secret), validity)
	require.NoError(t, err)
	return token
}

func TestAccessToken_RejectsMissingOrBadToken(t *testing.T) {
	env := newSecuredTestEnv(t, reportRec)
	_, err := env.actions.FetchAll(t.Context())
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode string
	}{
		{"no token", "", "", "UNAUTHORIZED"},
		{"wrong secret", common.AccessTokenHeaderName, testToken(t, "other", time.Minute), "INVALID_TOKEN"},
		{"garbage bearer", echo.HeaderAuthorization, "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"expired", common.AccessTokenHeaderName, testToken(t, testSecret, -time.Minute), "TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/files?path=files/a1_report.pdf", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := env.do(req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
		})
	}

	assert.Len(t, env.actions.State().Files(), 1)
	assert.Len(t, env.files.files, 1)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAccessToken_AcceptsValidToken(t *testing.T) {
	env := newSecuredTestEnv(t, reportRec, photoRec)
	token := testToken(t, testSecret, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	req.Header.Set(common.AccessTokenHeaderName, token)
	rec := env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/files?path=files/a1_report.pdf", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec = env.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, env.actions.State().Files(), 1)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/state?access_token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessToken_HealthStaysOpen(t *testing.T) {
	env := newSecuredTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAccessToken_WebSocketQueryToken(t *testing.T) {
	env := newSecuredTestEnv(t)
	srv := httptest.NewServer(env.echo)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/state/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	ws, _, err := websocket.DefaultDialer.Dial(wsURL+"?access_token="+testToken(t, testSecret, time.Minute), nil)
	require.NoError(t, err)
	defer ws.Close()
	assert.Equal(t, "snapshot", readState(t, ws).Type)
}
