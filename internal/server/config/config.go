// Package config handles configuration for the server component,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import "time"

const (
	StorageS3     = "s3"
	StorageMinio  = "minio"
	StorageMemory = "memory"
)

// Config holds runtime settings for the FileKeeper server.
//
// Fields:
//   - EndpointAddrGRPC / EndpointAddrHTTP: bind addresses of the two APIs.
//     An empty HTTP address disables the HTTP API.
//   - DatabaseDriver / DatabaseDSN: record store ("pgx" or "sqlite").
//   - SecretKey: HMAC secret for verifying client tokens (HS256). Empty
//     disables authentication.
//   - StorageBackend: object store, one of s3, minio, memory.
//   - S3*: object storage settings shared by the s3 and minio backends.
//   - PublicBaseURL: external base of the HTTP API, used for blob URLs of
//     the memory backend.
type Config struct {
	EndpointAddrGRPC string
	EndpointAddrHTTP string
	DatabaseDriver   string
	DatabaseDSN      string
	SecretKey        string
	LogLevel         string

	StorageBackend string
	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3UsePathStyle bool
	S3UseSSL       bool
	URLExpiry      time.Duration
	PublicBaseURL  string

	FetchConcurrency int
	MaxMsgSize       int
	MaxUploadBytes   int64
	// OperationRetention is how long settled operations stay in the
	// application state before they are pruned.
	OperationRetention time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:filekeeper.db?_pragma=busy_timeout(5000)"
	c.SecretKey = "secretKey"
	c.LogLevel = "info"

	c.StorageBackend = StorageMinio
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.S3Bucket = "filekeeper"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "127.0.0.1:9000"
	c.S3UsePathStyle = true
	c.S3UseSSL = false
	c.URLExpiry = 15 * time.Minute
	c.PublicBaseURL = "http://127.0.0.1:8080"

	c.FetchConcurrency = 8
	c.MaxMsgSize = 64 << 20
	c.MaxUploadBytes = 64 << 20
	c.OperationRetention = 10 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
