package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeConflict           ErrorCode = "CONFLICT"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeAlreadyAssigned    ErrorCode = "ALREADY_ASSIGNED"
	ErrCodeInsufficientFunds  ErrorCode = "INSUFFICIENT_BALANCE"
	ErrCodeBelowMinimum       ErrorCode = "BELOW_MINIMUM"
	ErrCodeMissingBankDetails ErrorCode = "MISSING_BANK_DETAILS"
	ErrCodeLedgerWrite        ErrorCode = "LEDGER_WRITE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeBelowMinimum, ErrCodeMissingBankDetails:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeAlreadyAssigned, ErrCodeInvalidTransition:
		return http.StatusConflict
	case ErrCodeInsufficientFunds:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool   { return Is(err, ErrCodeNotFound) }
func IsValidation(err error) bool { return Is(err, ErrCodeValidation) }
func IsForbidden(err error) bool  { return Is(err, ErrCodeForbidden) }

var (
	ErrJobNotFound        = New(ErrCodeNotFound, "job not found")
	ErrUserNotFound       = New(ErrCodeNotFound, "user not found")
	ErrWalletNotFound     = New(ErrCodeNotFound, "wallet not found")
	ErrCashoutNotFound    = New(ErrCodeNotFound, "cashout not found")
	ErrUnauthorized       = New(ErrCodeUnauthorized, "authentication required")
	ErrForbidden          = New(ErrCodeForbidden, "insufficient permissions")
	ErrInvalidCredentials = New(ErrCodeUnauthorized, "invalid email or password")

	ErrAlreadyAssigned     = New(ErrCodeAlreadyAssigned, "job already taken by another artisan")
	ErrInsufficientBalance = New(ErrCodeInsufficientFunds, "insufficient wallet balance")
	ErrBelowMinimum        = New(ErrCodeBelowMinimum, "amount is below the minimum cashout")
	ErrMissingBankDetails  = New(ErrCodeMissingBankDetails, "bank account details are required")
)

// InvalidTransition builds the error for a rejected status change.
func InvalidTransition(from, to string) *AppError {
	return New(ErrCodeInvalidTransition, fmt.Sprintf("cannot move job from %s to %s", from, to))
}
