// Package config loads runtime configuration for the FileKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file (see parseFile) selected via -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-s string   shared secret key
//	-n string   client name
//	-o string   download directory
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "secret_key": "secretKey",
//	  "download_dir": "downloads",
//	  "request_timeout": "30s",
//	  "token_validity": "1m"
//	}
//
// Note: This package does not read environment variables directly; use the
// config file or flags to configure values.
package config
