package config

import (
	"os"

	"github.com/dmitrijs2005/filekeeper/internal/flagx"
	"github.com/dmitrijs2005/filekeeper/internal/timex"
)

// FileConfig is a DTO used exclusively for config file decoding. It relies
// on timex.Duration so intervals can be strings like "3s" or integer
// nanoseconds. After decoding, values present in the file are copied into
// the runtime Config.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	SecretKey           string         `json:"secret_key" yaml:"secret_key"`
	ClientName          string         `json:"client_name" yaml:"client_name"`
	DownloadDir         string         `json:"download_dir" yaml:"download_dir"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	TokenValidity       timex.Duration `json:"token_validity" yaml:"token_validity"`
	MaxMsgSize          int            `json:"max_msg_size" yaml:"max_msg_size"`
}

// parseFile overlays cfg with values loaded from the file named by -c or
// -config. JSON and YAML are both accepted. Read or decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	var fc FileConfig
	if err := flagx.ReadConfigFile(path, &fc); err != nil {
		panic(err)
	}

	if fc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.ClientName != "" {
		cfg.ClientName = fc.ClientName
	}
	if fc.DownloadDir != "" {
		cfg.DownloadDir = fc.DownloadDir
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	}
	if fc.TokenValidity.Duration > 0 {
		cfg.TokenValidity = fc.TokenValidity.Duration
	}
	if fc.MaxMsgSize > 0 {
		cfg.MaxMsgSize = fc.MaxMsgSize
	}
}
