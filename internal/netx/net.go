// Package netx holds small HTTP helpers used by the CLI.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DownloadFile streams the body of a GET on url into dst and returns the
// number of bytes written. Any status other than 200 is an error.
func DownloadFile(ctx context.Context, url string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	return io.Copy(dst, resp.Body)
}
