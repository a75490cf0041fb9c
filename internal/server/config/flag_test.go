package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-w", ":8081", "-n", "pgx", "-d", "db", "-s", "secret",
			"-o", "s3", "-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1",
			"-e", "http://endpoint", "-x", "5", "-l", "debug",
		}, expected: &Config{
			EndpointAddrGRPC: "127.0.0.1:9090",
			EndpointAddrHTTP: ":8081",
			DatabaseDriver:   "pgx",
			DatabaseDSN:      "db",
			SecretKey:        "secret",
			StorageBackend:   "s3",
			S3AccessKey:      "user",
			S3SecretKey:      "password",
			S3Bucket:         "bucket",
			S3Region:         "us-west-1",
			S3BaseEndpoint:   "http://endpoint",
			URLExpiry:        5 * time.Minute,
			LogLevel:         "debug",
		}},
		{name: "unrelated flags ignored", args: []string{"cmd", "-c", "cfg.json", "-z", "1", "-b", "bkt"},
			expected: &Config{S3Bucket: "bkt"}},
		{name: "bad expiry", args: []string{"cmd", "-x", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
