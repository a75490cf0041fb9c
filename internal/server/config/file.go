package config

import (
	"os"

	"github.com/dmitrijs2005/filekeeper/internal/flagx"
	"github.com/dmitrijs2005/filekeeper/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration. The same
// keys work in JSON and YAML. Durations are timex.Duration, so "15m" and
// integer nanoseconds are both accepted.
type FileConfig struct {
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	EndpointAddrHTTP   string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDriver     string         `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN        string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey          string         `json:"secret_key" yaml:"secret_key"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	StorageBackend     string         `json:"storage_backend" yaml:"storage_backend"`
	S3AccessKey        string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey        string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	S3Bucket           string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region           string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3UsePathStyle     *bool          `json:"s3_use_path_style" yaml:"s3_use_path_style"`
	S3UseSSL           *bool          `json:"s3_use_ssl" yaml:"s3_use_ssl"`
	URLExpiry          timex.Duration `json:"url_expiry" yaml:"url_expiry"`
	PublicBaseURL      string         `json:"public_base_url" yaml:"public_base_url"`
	FetchConcurrency   int            `json:"fetch_concurrency" yaml:"fetch_concurrency"`
	MaxMsgSize         int            `json:"max_msg_size" yaml:"max_msg_size"`
	MaxUploadBytes     int64          `json:"max_upload_bytes" yaml:"max_upload_bytes"`
	OperationRetention timex.Duration `json:"operation_retention" yaml:"operation_retention"`
}

// parseFile overlays config with the file named by -c or -config. Keys
// missing from the file keep their current values. Read and decode errors
// panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.ReadConfigFile(path, &fc); err != nil {
		panic(err)
	}

	fc.apply(config)
}

func (fc *FileConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, fc.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, fc.EndpointAddrHTTP)
	setString(&config.DatabaseDriver, fc.DatabaseDriver)
	setString(&config.DatabaseDSN, fc.DatabaseDSN)
	setString(&config.SecretKey, fc.SecretKey)
	setString(&config.LogLevel, fc.LogLevel)
	setString(&config.StorageBackend, fc.StorageBackend)
	setString(&config.S3AccessKey, fc.S3AccessKey)
	setString(&config.S3SecretKey, fc.S3SecretKey)
	setString(&config.S3Bucket, fc.S3Bucket)
	setString(&config.S3Region, fc.S3Region)
	setString(&config.S3BaseEndpoint, fc.S3BaseEndpoint)
	setString(&config.PublicBaseURL, fc.PublicBaseURL)

	if fc.S3UsePathStyle != nil {
		config.S3UsePathStyle = *fc.S3UsePathStyle
	}
	if fc.S3UseSSL != nil {
		config.S3UseSSL = *fc.S3UseSSL
	}
	if fc.URLExpiry.Duration > 0 {
		config.URLExpiry = fc.URLExpiry.Duration
	}
	if fc.OperationRetention.Duration > 0 {
		config.OperationRetention = fc.OperationRetention.Duration
	}
	if fc.FetchConcurrency > 0 {
		config.FetchConcurrency = fc.FetchConcurrency
	}
	if fc.MaxMsgSize > 0 {
		config.MaxMsgSize = fc.MaxMsgSize
	}
	if fc.MaxUploadBytes > 0 {
		config.MaxUploadBytes = fc.MaxUploadBytes
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
