package validate

import (
	"fmt"
	"strings"
)

// FieldError es un error de validación atado a un campo concreto.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors junta los errores de campo de una operación.
// La validación es todo-o-nada: si hay al menos uno, no se escribe nada.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

func (e *Errors) Add(field, format string, args ...any) {
	*e = append(*e, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e Errors) Has() bool { return len(e) > 0 }

// OrNil devuelve nil cuando no hay errores, para poder retornar
// directamente como error sin el clásico problema del nil tipado.
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extrae Errors de un error cualquiera.
func AsErrors(err error) (Errors, bool) {
	ve, ok := err.(Errors)
	return ve, ok
}

// Required trimea y exige texto no vacío. Devuelve el valor trimmeado.
func Required(e *Errors, field, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		e.Add(field, "cannot be empty or whitespace only")
	}
	return v
}

// MinLen exige largo mínimo sobre el valor ya trimmeado.
func MinLen(e *Errors, field, value string, min int) string {
	v := strings.TrimSpace(value)
	if len(v) < min {
		e.Add(field, "must be at least %d characters", min)
	}
	return v
}

// OneOf exige que value esté dentro del set permitido.
func OneOf(e *Errors, field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	e.Add(field, "must be one of: %s", strings.Join(allowed, ", "))
}
