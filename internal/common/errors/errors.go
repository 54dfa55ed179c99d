// Package errors provides the standardized error taxonomy for the client:
// validation errors blocked before any network call, transport errors with no
// response, server rejections keyed by status code, and storage errors that
// callers recover from locally.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingBusinessID ErrorCode = "MISSING_BUSINESS_ID"
	ErrCodeMissingStaffID    ErrorCode = "MISSING_STAFF_ID"

	ErrCodeNetworkUnreachable ErrorCode = "NETWORK_UNREACHABLE"
	ErrCodeRequestTimeout     ErrorCode = "REQUEST_TIMEOUT"

	ErrCodeServerRejected      ErrorCode = "SERVER_REJECTED"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeDuplicateAccount    ErrorCode = "DUPLICATE_ACCOUNT"
	ErrCodeInvalidCode         ErrorCode = "INVALID_VERIFICATION_CODE"
	ErrCodeCodeExpired         ErrorCode = "VERIFICATION_CODE_EXPIRED"
	ErrCodeVerificationMissing ErrorCode = "VERIFICATION_NOT_FOUND"
	ErrCodeUploadInvalid       ErrorCode = "UPLOAD_RESPONSE_INVALID"

	ErrCodeStorageFailed ErrorCode = "STORAGE_FAILED"
)

// Kind is the broad error class used to pick a user-facing message.
type Kind int

const (
	KindValidation Kind = iota
	KindNetwork
	KindServer
	KindStorage
)

// AppError is a structured application error. Message is user-facing and kept
// in the app's language; Details is diagnostic only.
type AppError struct {
	Kind    Kind      `json:"-"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"status,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("AppError[%s]: %s", e.Code, e.Message)
}

// NewValidationError creates a local validation error. These block the
// network call entirely.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrCodeValidationFailed,
		Message: message,
		Details: fmt.Sprintf("field: %s", field),
	}
}

// NewMissingBusinessIDError reports an absent or non-numeric business id in
// navigation parameters. Hard validation failure, no request is issued.
func NewMissingBusinessIDError(raw string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrCodeMissingBusinessID,
		Message: "No viene businessId válido en parámetros",
		Details: fmt.Sprintf("businessId: %q", raw),
	}
}

// NewMissingStaffIDError reports a staff draft that could not be bound to a
// durable backend id.
func NewMissingStaffIDError(index int) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    ErrCodeMissingStaffID,
		Message: "No se pudo resolver el id del profesional",
		Details: fmt.Sprintf("index: %d", index),
	}
}

// NewNetworkError wraps a transport failure where no response was received.
func NewNetworkError(err error) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Code:    ErrCodeNetworkUnreachable,
		Message: "No se pudo conectar con el servidor. Verifica tu conexión a internet.",
		Details: err.Error(),
	}
}

// NewTimeoutError wraps a request that exceeded its fixed deadline.
func NewTimeoutError(endpoint string) *AppError {
	return &AppError{
		Kind:    KindNetwork,
		Code:    ErrCodeRequestTimeout,
		Message: "No se recibió respuesta del servidor. Verifica tu conexión.",
		Details: fmt.Sprintf("endpoint: %s", endpoint),
	}
}

// NewServerError builds a server-rejection error for a non-2xx status. The
// body message wins when present; otherwise the status-keyed generic message
// from overrides or the default table is used.
func NewServerError(status int, bodyMessage string, overrides map[int]string) *AppError {
	msg := bodyMessage
	if msg == "" {
		if overrides != nil {
			msg = overrides[status]
		}
		if msg == "" {
			msg = defaultStatusMessage(status)
		}
	}
	code := ErrCodeServerRejected
	switch status {
	case 401:
		code = ErrCodeInvalidCredentials
	case 409:
		code = ErrCodeDuplicateAccount
	case 410:
		code = ErrCodeCodeExpired
	}
	return &AppError{
		Kind:    KindServer,
		Code:    code,
		Message: msg,
		Status:  status,
	}
}

func defaultStatusMessage(status int) string {
	switch status {
	case 400:
		return "Datos inválidos. Por favor verifica la información."
	case 401:
		return "Credenciales incorrectas"
	case 404:
		return "No se encontró el recurso solicitado."
	case 409:
		return "Ya existe una cuenta con estos datos."
	case 410:
		return "El código ha expirado. Por favor, solicita un nuevo código."
	case 500:
		return "Error interno del servidor"
	default:
		return fmt.Sprintf("HTTP %d", status)
	}
}

// NewStorageError wraps a local persistence failure. Callers fall back to a
// default state instead of surfacing these to the user.
func NewStorageError(op string, err error) *AppError {
	return &AppError{
		Kind:    KindStorage,
		Code:    ErrCodeStorageFailed,
		Message: "No se pudo acceder al almacenamiento local.",
		Details: fmt.Sprintf("op: %s, error: %s", op, err.Error()),
	}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var app *AppError
	if errors.As(err, &app) {
		return app, true
	}
	return nil, false
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	app, ok := As(err)
	return ok && app.Kind == kind
}

// UserMessage returns the user-facing message for any error.
func UserMessage(err error) string {
	if app, ok := As(err); ok {
		return app.Message
	}
	return "Error desconocido"
}
