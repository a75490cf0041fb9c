// Package common contains shared constants and sentinel errors used across
// FileKeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// FilesNamespace is the object-store prefix every uploaded blob lives under.
// The record store mirrors it as the logical path files/{id}.
const FilesNamespace = "files/"

// PathSeparator splits the file id from the display name in a blob key:
// files/{id}_{name}.
const PathSeparator = "_"
