package config

import "time"

// Config holds runtime settings for the FileKeeper CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - SecretKey: shared HMAC secret used to sign access tokens; empty means
//     the CLI asks for it on login.
//   - ClientName: subject written into access tokens.
//   - DownloadDir: where downloaded files are written.
//   - RequestTimeout: deadline applied to every server call.
//   - OnlineCheckInterval: how often the client checks server reachability.
type Config struct {
	ServerEndpointAddr  string
	SecretKey           string
	ClientName          string
	DownloadDir         string
	LogLevel            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	TokenValidity       time.Duration
	MaxMsgSize          int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.SecretKey = ""
	c.ClientName = "filekeeper-cli"
	c.DownloadDir = "downloads"
	c.LogLevel = "warn"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.TokenValidity = time.Minute
	c.MaxMsgSize = 64 << 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
