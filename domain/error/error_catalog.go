package error

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/application/port/outbound"
	"github.com/missionboard/missionboard/domain/entity"
	"github.com/missionboard/missionboard/domain/valueobject"
)

// ErrorCode is a stable, client-visible error identifier.
type ErrorCode string

const (
	// Authentication
	ErrCodeAuthenticationRejected ErrorCode = "AUTH-001"
	ErrCodeCredentialMismatch     ErrorCode = "AUTH-002"
	ErrCodeAuthenticationRequired ErrorCode = "AUTH-003"
	ErrCodeTooManyAttempts        ErrorCode = "AUTH-004"

	// Users
	ErrCodeUserNotFound    ErrorCode = "USER-001"
	ErrCodeDuplicateEmail  ErrorCode = "USER-002"
	ErrCodeInvalidPassword ErrorCode = "USER-003"

	// Boards and columns
	ErrCodeBoardNotFound           ErrorCode = "BOARD-001"
	ErrCodeNotBoardOwner           ErrorCode = "BOARD-002"
	ErrCodeColumnNotFound          ErrorCode = "COLUMN-001"
	ErrCodeDuplicateColumnName     ErrorCode = "COLUMN-002"
	ErrCodeColumnSequenceUnchanged ErrorCode = "COLUMN-003"

	// Cards
	ErrCodeCardNotFound   ErrorCode = "CARD-001"
	ErrCodeNotCardWorker  ErrorCode = "CARD-002"
	ErrCodeAlreadyInvited ErrorCode = "CARD-003"

	ErrCodeInvalidRequest      ErrorCode = "REQ-001"
	ErrCodeInternalServerError ErrorCode = "SERVER-001"
)

// AppError is the structured error rendered to clients.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(code ErrorCode, status int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Cause:   cause,
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type catalogEntry struct {
	target  error
	code    ErrorCode
	status  int
	message string
}

// First match wins.
var catalog = []catalogEntry{
	{inbound.ErrTooManyAttempts, ErrCodeTooManyAttempts, http.StatusTooManyRequests, "Too many login attempts. Please try again later."},
	{inbound.ErrCredentialMismatch, ErrCodeCredentialMismatch, http.StatusUnauthorized, "Invalid email or password"},
	{inbound.ErrAuthenticationRequired, ErrCodeAuthenticationRequired, http.StatusUnauthorized, "Authentication required"},
	{inbound.ErrAuthenticationRejected, ErrCodeAuthenticationRejected, http.StatusUnauthorized, "Authentication rejected"},

	{outbound.ErrUserNotFound, ErrCodeUserNotFound, http.StatusNotFound, "User not found"},
	{outbound.ErrUserAlreadyExists, ErrCodeDuplicateEmail, http.StatusConflict, "Email is already registered"},
	{outbound.ErrPasswordMismatch, ErrCodeInvalidPassword, http.StatusBadRequest, "Current password does not match"},
	{valueobject.ErrPasswordTooShort, ErrCodeInvalidPassword, http.StatusBadRequest, "Password must be at least 8 characters"},
	{valueobject.ErrInvalidEmail, ErrCodeInvalidRequest, http.StatusBadRequest, "Invalid email format"},
	{valueobject.ErrMissingSecret, ErrCodeInvalidRequest, http.StatusBadRequest, "Password is required"},

	{entity.ErrBoardNotFound, ErrCodeBoardNotFound, http.StatusNotFound, "Board not found"},
	{entity.ErrNotBoardOwner, ErrCodeNotBoardOwner, http.StatusForbidden, "Only the board owner can do this"},
	{entity.ErrColumnNotFound, ErrCodeColumnNotFound, http.StatusNotFound, "Column not found"},
	{entity.ErrDuplicateColumnName, ErrCodeDuplicateColumnName, http.StatusConflict, "Column name already exists"},
	{entity.ErrColumnSequenceUnchanged, ErrCodeColumnSequenceUnchanged, http.StatusBadRequest, "Column sequence did not change"},
	{entity.ErrCardNotFound, ErrCodeCardNotFound, http.StatusNotFound, "Card not found"},
	{entity.ErrNotCardWorker, ErrCodeNotCardWorker, http.StatusForbidden, "Not a worker on this card"},
	{entity.ErrAlreadyInvited, ErrCodeAlreadyInvited, http.StatusConflict, "User is already a worker on this card"},
	{entity.ErrInvalidSequence, ErrCodeInvalidRequest, http.StatusBadRequest, "Sequence out of range"},
	{entity.ErrEmptyName, ErrCodeInvalidRequest, http.StatusBadRequest, "Name is required"},
}

// From maps any error to an AppError. Unknown errors become SERVER-001 with
// the original error kept as Cause so it can be logged but not rendered.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, e := range catalog {
		if errors.Is(err, e.target) {
			return NewAppError(e.code, e.status, e.message, err)
		}
	}
	return ErrInternalServerError(err)
}

func ErrInvalidRequest(details string) *AppError {
	return NewAppError(ErrCodeInvalidRequest, http.StatusBadRequest, "Invalid request", nil).WithDetails(details)
}

func ErrInternalServerError(cause error) *AppError {
	return NewAppError(ErrCodeInternalServerError, http.StatusInternalServerError, "Internal server error", cause)
}

// IsClientError reports whether err renders as a 4xx.
func IsClientError(err error) bool {
	appErr := From(err)
	return appErr != nil && appErr.Status >= 400 && appErr.Status < 500
}
