// Package apperr define el error de dominio con categoría + código discriminable.
package apperr

import (
	"errors"
	"fmt"
)

// Kind agrupa los errores por categoría (se usa para mapear a status HTTP).
type Kind string

const (
	KindAuthorization     Kind = "authorization"
	KindInvalidReference  Kind = "invalid_reference"
	KindStatePrecondition Kind = "state_precondition"
	KindConfiguration     Kind = "configuration"
	KindSupplyCap         Kind = "supply_cap"
	KindOperational       Kind = "operational"
)

// Code es el identificador estable de la condición.
type Code string

// Error es el error de dominio con metadata estructurada.
type Error struct {
	Kind    Kind
	Code    Code
	Message string // mensaje user-facing
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is compara por código, así errors.Is(err, ErrX) funciona con mensajes formateados.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithMessage devuelve una copia con el mismo código y otro mensaje.
func (e *Error) WithMessage(format string, args ...any) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Wrap devuelve una copia que envuelve la causa.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: e.Message, Cause: cause}
}

// As extrae el *Error de una cadena de errores.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
