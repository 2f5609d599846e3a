package apperr

import "net/http"

// CodeInvalidID se mapea a 400 aunque sea una referencia inválida.
const CodeInvalidID Code = "invalid_id"

// HTTPStatus traduce un error de dominio a status HTTP. Errores sin categoría => 500.
func HTTPStatus(err error) int {
	ae, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if ae.Code == CodeInvalidID {
		return http.StatusBadRequest
	}
	switch ae.Kind {
	case KindAuthorization:
		return http.StatusForbidden
	case KindInvalidReference:
		return http.StatusNotFound
	case KindStatePrecondition, KindSupplyCap:
		return http.StatusConflict
	case KindConfiguration:
		return http.StatusBadRequest
	case KindOperational:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Body es el cuerpo JSON de error que devuelven los handlers.
type Body struct {
	Error   Code   `json:"error"`
	Message string `json:"message"`
}

func ToBody(err error) Body {
	if ae, ok := As(err); ok {
		return Body{Error: ae.Code, Message: ae.Message}
	}
	return Body{Error: "internal", Message: "internal error"}
}
