// Package client is the CLI side of the FileKeeper gRPC API.
//
// # Overview
//
// GRPCClient manages one connection to the server, signs every call with a
// short-lived access token derived from the shared secret, and implements
// the file actions (Upload, FetchAll, Delete, UpdateDescription) together
// with Get, DownloadURL and a health Ping.
//
// # Error Handling
//
// Server errors are mapped back onto the common taxonomy, so callers can
// match them with errors.Is (common.ErrNotFound, common.ErrValidation,
// common.ErrStorageWrite and so on). An unreachable server yields
// ErrUnavailable.
//
// # Concurrency
//
// GRPCClient is safe for concurrent use. All operations accept a
// context.Context and honor cancellation.
package client
