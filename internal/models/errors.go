package models

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// ErrorKind classifies an AppError and decides its HTTP status.
type ErrorKind string

const (
	KindValidation         ErrorKind = "VALIDATION_ERROR"
	KindInvalidCredentials ErrorKind = "INVALID_CREDENTIALS"
	KindUnauthenticated    ErrorKind = "UNAUTHENTICATED"
	KindForbidden          ErrorKind = "FORBIDDEN"
	KindConflict           ErrorKind = "CONFLICT"
	KindNotFound           ErrorKind = "NOT_FOUND"
	KindStorage            ErrorKind = "STORAGE_FAILURE"
	KindInternal           ErrorKind = "INTERNAL_ERROR"
)

// Status returns the HTTP status code for the kind.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindInvalidCredentials, KindUnauthenticated:
		return fiber.StatusUnauthorized
	case KindForbidden:
		return fiber.StatusForbidden
	case KindConflict:
		return fiber.StatusConflict
	case KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AppError represents a custom application error
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Messages shared by every code path that produces these kinds.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidToken       = "Invalid or expired token"
	MsgAuthRequired       = "Authentication required"
	MsgAccessDenied       = "Access denied"
	MsgInternal           = "Internal server error"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewInvalidCredentialsError is returned for both unknown users and wrong passwords.
func NewInvalidCredentialsError() *AppError {
	return &AppError{Kind: KindInvalidCredentials, Message: MsgInvalidCredentials}
}

func NewUnauthenticatedError(message string) *AppError {
	return &AppError{Kind: KindUnauthenticated, Message: message}
}

func NewForbiddenError() *AppError {
	return &AppError{Kind: KindForbidden, Message: MsgAccessDenied}
}

func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func NewStorageError(err error) *AppError {
	return &AppError{Kind: KindStorage, Message: MsgInternal, Err: err}
}

func NewInternalError(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// IsKind reports whether err wraps an AppError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// RespondWithError writes {error: message} with the status derived from the error kind.
// Causes are logged and never serialized; unclassified errors become a generic 500.
func RespondWithError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = NewInternalError(err)
	}

	status := appErr.Kind.Status()
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request error",
			slog.String("kind", string(appErr.Kind)),
			slog.String("path", c.Path()),
			slog.Any("error", appErr.Err),
		)
	}

	return c.Status(status).JSON(ErrorResponse{Error: appErr.Message})
}
