package rpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// ErrorDomain is the ErrorInfo domain attached to FileKeeper statuses.
const ErrorDomain = "filekeeper"

type errorKind struct {
	err    error
	reason string
	code   codes.Code
}

var errorKinds = []errorKind{
	{common.ErrValidation, "VALIDATION", codes.InvalidArgument},
	{common.ErrNotFound, "NOT_FOUND", codes.NotFound},
	{common.ErrStorageWrite, "STORAGE_WRITE", codes.Internal},
	{common.ErrStorageDelete, "STORAGE_DELETE", codes.Internal},
	{common.ErrDatabaseWrite, "DATABASE_WRITE", codes.Internal},
	{common.ErrMetadataUpdate, "METADATA_UPDATE", codes.Internal},
	{common.ErrList, "LIST", codes.Internal},
	{common.ErrTokenExpired, "TOKEN_EXPIRED", codes.Unauthenticated},
	{common.ErrInvalidToken, "INVALID_TOKEN", codes.Unauthenticated},
	{common.ErrUnauthorized, "UNAUTHORIZED", codes.Unauthenticated},
	{common.ErrInternal, "INTERNAL", codes.Internal},
}

// ToStatus converts a service error into a gRPC status error that carries
// the taxonomy kind as an ErrorInfo reason. The message is kept verbatim.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		st := status.New(k.code, err.Error())
		if withDetails, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: k.reason, Domain: ErrorDomain}); derr == nil {
			st = withDetails
		}
		return st.Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// RemoteError is a server-side error reconstructed on the client.
type RemoteError struct {
	Kind    error
	Message string
}

func (e *RemoteError) Error() string { return e.Message }
func (e *RemoteError) Unwrap() error { return e.Kind }

// FromStatus maps a gRPC status error back onto the common taxonomy so
// callers can match it with errors.Is. Non-status errors are returned
// unchanged.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st == nil {
		return err
	}

	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != ErrorDomain {
			continue
		}
		for _, k := range errorKinds {
			if k.reason == info.GetReason() {
				return &RemoteError{Kind: k.err, Message: st.Message()}
			}
		}
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return &RemoteError{Kind: common.ErrValidation, Message: st.Message()}
	case codes.NotFound:
		return &RemoteError{Kind: common.ErrNotFound, Message: st.Message()}
	case codes.Unauthenticated:
		return &RemoteError{Kind: common.ErrUnauthorized, Message: st.Message()}
	}
	return err
}
