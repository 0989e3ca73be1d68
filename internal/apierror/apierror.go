// Package apierror provides standardized error structures for the API.
// Services return *Error values carrying a Kind and a machine-readable Code;
// handlers map them to HTTP responses without leaking internal details
// (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error. Validation and conflict errors are always
// detected before any mutation.
type Kind string

const (
	KindValidation           Kind = "validation"
	KindNotFound             Kind = "not_found"
	KindConflict             Kind = "conflict"
	KindInsufficientResource Kind = "insufficient_resource"
	KindUnauthorized         Kind = "unauthorized"
)

// Machine-readable codes returned in APIError.Code.
const (
	CodeMissingIngredients  = "missing_ingredients"
	CodeMiseInsuficiente    = "mise_insuficiente"
	CodeTurnoYaAbierto      = "turno_ya_abierto"
	CodeTurnoYaCerrado      = "turno_ya_cerrado"
	CodeTurnoCerrado        = "turno_cerrado"
	CodeTurnoNoAbierto      = "turno_no_abierto"
	CodeChecklistYaFirmado  = "checklist_ya_firmado"
	CodeTareasIncompletas   = "tareas_incompletas"
	CodeCredencialesInvalid = "credenciales_invalidas"
	CodeNotFound            = "not_found"
	CodeValidation          = "validation"
	CodeDuplicado           = "duplicado"
)

// Error is a domain error with enough detail to render a user-facing message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Items carries the offending names / rows (missing ingredients, incomplete tasks, ...).
	Items any
}

func (e *Error) Error() string { return e.Message }

func newErr(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return newErr(KindValidation, CodeValidation, format, args...)
}

// ValidationCode is Validation with a specific code (e.g. tareas_incompletas).
func ValidationCode(code, format string, args ...any) *Error {
	return newErr(KindValidation, code, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newErr(KindNotFound, CodeNotFound, format, args...)
}

func Conflict(code, format string, args ...any) *Error {
	return newErr(KindConflict, code, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newErr(KindUnauthorized, CodeCredencialesInvalid, format, args...)
}

// Insufficient builds an insufficient_resource error listing the offending items.
func Insufficient(code string, items any, format string, args ...any) *Error {
	e := newErr(KindInsufficientResource, code, format, args...)
	e.Items = items
	return e
}

// WithItems attaches items to e and returns it.
func (e *Error) WithItems(items any) *Error {
	e.Items = items
	return e
}

// As unwraps err into a domain *Error.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or "" for non-domain errors.
func KindOf(err error) Kind {
	if de, ok := As(err); ok {
		return de.Kind
	}
	return ""
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
	Kind   Kind   `json:"kind,omitempty"`
	Code   string `json:"code,omitempty"`
	Items  any    `json:"items,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// FromError converts a domain error into its envelope.
func FromError(e *Error) *APIError {
	return &APIError{Detail: e.Message, Kind: e.Kind, Code: e.Code, Items: e.Items}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
