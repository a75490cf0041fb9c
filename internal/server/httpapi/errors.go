package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

func NewValidationError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: cause.Error(),
	}
}

func NewNotFoundError(cause error) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: cause.Error(),
	}
}

// serviceCodes maps the coordinator's taxonomy onto API error codes.
var serviceCodes = []struct {
	err  error
	code string
}{
	{common.ErrStorageWrite, "STORAGE_WRITE_ERROR"},
	{common.ErrStorageDelete, "STORAGE_DELETE_ERROR"},
	{common.ErrDatabaseWrite, "DATABASE_WRITE_ERROR"},
	{common.ErrMetadataUpdate, "METADATA_UPDATE_ERROR"},
	{common.ErrList, "LIST_ERROR"},
}

var authCodes = []struct {
	err  error
	code string
}{
	{common.ErrUnauthorized, "UNAUTHORIZED"},
	{common.ErrInvalidToken, "INVALID_TOKEN"},
	{common.ErrTokenExpired, "TOKEN_EXPIRED"},
}

// FromServiceError converts a coordinator error into an APIError. The
// message keeps the underlying error text.
func FromServiceError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		return NewValidationError(err)
	case errors.Is(err, common.ErrNotFound):
		return NewNotFoundError(err)
	}

	for _, ac := range authCodes {
		if errors.Is(err, ac.err) {
			return &APIError{Status: http.StatusUnauthorized, Code: ac.code, Message: err.Error()}
		}
	}

	for _, sc := range serviceCodes {
		if errors.Is(err, sc.err) {
			return &APIError{Status: http.StatusBadGateway, Code: sc.code, Message: err.Error()}
		}
	}

	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: err.Error(),
	}
}

// ErrorHandler renders every error returned by a handler as an APIError.
// Usage: e.HTTPErrorHandler = ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		apiErr = &APIError{
			Status:  httpErr.Code,
			Code:    "HTTP_ERROR",
			Message: fmt.Sprintf("%v", httpErr.Message),
		}
	default:
		apiErr = FromServiceError(err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.JSON(apiErr.Status, apiErr)
}
