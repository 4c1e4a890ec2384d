// Package validator expone una instancia compartida de go-playground/validator
// y un helper para validar DTOs anotados con tags `validate`.
package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe una violación de validación de un campo.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: %s=%s", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Tag)
}

var validate = validator.New()

// ValidateStruct valida data contra sus tags y devuelve las violaciones.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		out = append(out, FieldError{
			Field: fe.StructNamespace(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Describe concatena las violaciones en un mensaje legible para la respuesta HTTP.
func Describe(errs []FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}
