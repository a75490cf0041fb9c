// Package cli provides the interactive FileKeeper command-line client.
//
// It wires configuration, the gRPC client and a local application state
// container, then runs a REPL. Every file action is dispatched through the
// state container, so the "state" command shows pending, fulfilled and
// rejected operations together with the last error.
//
// Commands:
//   - login: enter the shared secret used to sign requests
//   - upload, list, search, show, edit, download, delete
//   - state, clear: inspect the application state, dismiss the last error
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
