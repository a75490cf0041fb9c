package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/appstate"
	"github.com/dmitrijs2005/filekeeper/internal/client/config"
	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

type fakeClient struct {
	mu       sync.Mutex
	files    []models.FileRecord
	content  map[string][]byte
	baseURL  string
	secret   string
	required string
	pingErr  error
	closed   bool
	seq      int
}

func newFakeClient(files ...models.FileRecord) *fakeClient {
	return &fakeClient{files: files, content: map[string][]byte{}}
}

func (f *fakeClient) authorized() error {
	if f.required != "" && f.secret != f.required {
		return &fakeRemote{common.ErrUnauthorized}
	}
	return nil
}

type fakeRemote struct{ kind error }

func (e *fakeRemote) Error() string { return e.kind.Error() }
func (e *fakeRemote) Unwrap() error { return e.kind }

func (f *fakeClient) Upload(_ context.Context, req models.UploadRequest) (*models.FileRecord, error) {
	if err := f.authorized(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("u%d", f.seq)
	rec := models.FileRecord{ID: id, Name: req.FileName, Description: req.Description, FullPath: models.BuildFullPath(id, req.FileName)}
	f.files = append(f.files, rec)
	f.content[rec.FullPath] = data
	return &rec, nil
}

func (f *fakeClient) FetchAll(context.Context) ([]models.FileRecord, error) {
	if err := f.authorized(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FileRecord(nil), f.files...), nil
}

func (f *fakeClient) Delete(_ context.Context, fullPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.files {
		if f.files[i].FullPath == fullPath {
			f.files = append(f.files[:i], f.files[i+1:]...)
			return fullPath, nil
		}
	}
	return "", common.ErrNotFound
}

func (f *fakeClient) UpdateDescription(_ context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.files {
		if f.files[i].FullPath == fullPath {
			f.files[i].Description = description
			return &models.DescriptionUpdate{FullPath: fullPath, Description: description}, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) Get(_ context.Context, id string) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.files {
		if rec.ID == id {
			r := rec
			r.URL = "https://blobs.example/" + id
			return &r, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeClient) DownloadURL(_ context.Context, fullPath string) (string, error) {
	return f.baseURL + "/" + fullPath, nil
}

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }
func (f *fakeClient) SetSecretKey(key string)    { f.secret = key }
func (f *fakeClient) Close() error               { f.closed = true; return nil }

var (
	reportRec = models.FileRecord{ID: "a1", Name: "report.pdf", Description: "quarterly", FullPath: "files/a1_report.pdf", UploadedAt: "2025-01-02T03:04:05.000Z"}
	catRec    = models.FileRecord{ID: "b2", Name: "cat.png", Description: "holiday", FullPath: "files/b2_cat.png", UploadedAt: "2024-06-01T00:00:00.000Z"}
)

func newTestApp(t *testing.T, fc *fakeClient, input ...string) (*App, *bytes.Buffer) {
	t.Helper()
	silencePrintln(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DownloadDir = t.TempDir()

	var out bytes.Buffer
	in := strings.Join(input, "\n")
	if len(input) > 0 {
		in += "\n"
	}
	return newApp(cfg, fc, logging.Nop{}, strings.NewReader(in), &out), &out
}

func TestApp_List(t *testing.T) {
	app, out := newTestApp(t, newFakeClient(reportRec, catRec))

	require.NoError(t, app.List(context.Background()))
	assert.Contains(t, out.String(), "report.pdf")
	assert.Contains(t, out.String(), "cat.png")
	assert.Len(t, app.actions.State().Files(), 2)
}

func TestApp_Upload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	fc := newFakeClient()
	app, _ := newTestApp(t, fc, path, "", "my notes")

	require.NoError(t, app.Upload(context.Background()))

	files := app.actions.State().Files()
	require.Len(t, files, 1)
	assert.Equal(t, "notes.txt", files[0].Name)
	assert.Equal(t, "my notes", files[0].Description)
	assert.Equal(t, []byte("hello"), fc.content[files[0].FullPath])
	assert.Equal(t, 0, app.actions.State().Snapshot().UploadProgress)
}

func TestApp_Upload_Validation(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		app, _ := newTestApp(t, newFakeClient(), "")
		assert.ErrorIs(t, app.Upload(context.Background()), common.ErrValidation)
	})
	t.Run("directory", func(t *testing.T) {
		app, _ := newTestApp(t, newFakeClient(), t.TempDir())
		assert.ErrorIs(t, app.Upload(context.Background()), common.ErrValidation)
	})
	t.Run("missing file", func(t *testing.T) {
		app, _ := newTestApp(t, newFakeClient(), filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, app.Upload(context.Background()), os.ErrNotExist)
	})
}

func TestApp_Search(t *testing.T) {
	app, out := newTestApp(t, newFakeClient(reportRec, catRec), "holiday", "description")
	_, err := app.actions.FetchAll(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.Search(context.Background()))
	assert.Contains(t, out.String(), "cat.png")
	assert.NotContains(t, out.String(), "report.pdf")
}

func TestApp_ShowAndEdit(t *testing.T) {
	app, out := newTestApp(t, newFakeClient(reportRec, catRec), "cat.png", "a2", "new text", "", "")

	require.NoError(t, app.Show(context.Background()))
	assert.Contains(t, out.String(), "cat.png (image)")
	assert.Contains(t, out.String(), "https://blobs.example/b2")

	err := app.Show(context.Background())
	assert.ErrorIs(t, err, common.ErrNotFound)

	app.reader = rdr("files/a1_report.pdf\nnew text\n\n")
	require.NoError(t, app.Edit(context.Background()))
	files := app.actions.State().Files()
	assert.Equal(t, "new text", files[0].Description)
}

func TestApp_Delete(t *testing.T) {
	fc := newFakeClient(reportRec, catRec)
	app, _ := newTestApp(t, fc, "a1", "n", "a1", "y")

	require.NoError(t, app.Delete(context.Background()))
	assert.Len(t, app.actions.State().Files(), 2, "declined delete keeps the file")

	require.NoError(t, app.Delete(context.Background()))
	files := app.actions.State().Files()
	require.Len(t, files, 1)
	assert.Equal(t, "b2", files[0].ID)
}

func TestApp_Download(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files/a1_report.pdf" {
			_, _ = w.Write([]byte("pdf-bytes"))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	fc := newFakeClient(reportRec, catRec)
	fc.baseURL = srv.URL
	app, _ := newTestApp(t, fc, "report.pdf", "report.pdf", "b2")

	require.NoError(t, app.Download(context.Background()))
	require.NoError(t, app.Download(context.Background()))

	data, err := os.ReadFile(filepath.Join(app.config.DownloadDir, "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "pdf-bytes", string(data))
	_, err = os.Stat(filepath.Join(app.config.DownloadDir, "report (1).pdf"))
	assert.NoError(t, err)

	assert.Error(t, app.Download(context.Background()))
	_, err = os.Stat(filepath.Join(app.config.DownloadDir, "cat.png"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "failed downloads leave no file")
}

func TestApp_LoginAndState(t *testing.T) {
	orig := getPassword
	t.Cleanup(func() { getPassword = orig })

	fc := newFakeClient(reportRec)
	fc.required = "secret"
	app, out := newTestApp(t, fc)

	assert.False(t, app.isLoggedIn())

	getPassword = func(string, io.Writer) ([]byte, error) { return []byte("wrong"), nil }
	assert.ErrorIs(t, app.Login(context.Background()), common.ErrUnauthorized)
	assert.False(t, app.isLoggedIn())
	assert.Equal(t, "(error)", app.getStatus())

	require.NoError(t, app.State(context.Background()))
	assert.Contains(t, out.String(), "error: unauthorized")
	assert.Contains(t, out.String(), string(appstate.PhaseRejected))

	getPassword = func(string, io.Writer) ([]byte, error) { return []byte("secret"), nil }
	require.NoError(t, app.Login(context.Background()))
	assert.True(t, app.isLoggedIn())
	assert.Equal(t, "", app.getStatus())

	require.NoError(t, app.ClearError(context.Background()))
	assert.Empty(t, app.actions.State().Snapshot().Error)
}

func TestApp_OnlineStatusWatcher(t *testing.T) {
	fc := newFakeClient()
	app, _ := newTestApp(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return app.getStatus() == "(online)" }, time.Second, 5*time.Millisecond)
}

func TestApp_RunExitsOnQuit(t *testing.T) {
	fc := newFakeClient(reportRec)
	app, out := newTestApp(t, fc, "l", "exit")

	app.Run(context.Background())

	assert.True(t, fc.closed)
	assert.True(t, app.isLoggedIn())
	assert.Contains(t, out.String(), "report.pdf")
}

func TestResolve(t *testing.T) {
	dup := models.FileRecord{ID: "c3", Name: "cat.png", FullPath: "files/c3_cat.png"}
	files := []models.FileRecord{reportRec, catRec, dup}

	rec, err := resolve(files, "a1")
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", rec.Name)

	rec, err = resolve(files, "files/c3_cat.png")
	require.NoError(t, err)
	assert.Equal(t, "c3", rec.ID)

	rec, err = resolve(files, "REPORT.PDF")
	require.NoError(t, err)
	assert.Equal(t, "a1", rec.ID)

	_, err = resolve(files, "cat.png")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = resolve(files, "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
