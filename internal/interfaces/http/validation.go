package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar el nombre JSON del campo en lugar del nombre Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// bindJSON parsea el cuerpo y valida las etiquetas `validate` del DTO.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("", "cuerpo inválido")
	}
	return validateStruct(out)
}

// paramID lee el parámetro :id de la ruta; debe ser un UUID.
func paramID(c *fiber.Ctx) (string, error) {
	return checkUUID("id", c.Params("id"))
}

func checkUUID(field, raw string) (string, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", domain.Invalid(field, "debe ser un UUID válido")
	}
	return raw, nil
}

// validateStruct convierte el primer fallo del validador en domain.ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return domain.Invalid(fieldPath(fe), describe(fe))
	}
	return domain.Invalid("", err.Error())
}

// fieldPath ruta del campo sin el nombre del struct raíz: lines[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("debe tener al menos %s elemento(s)", fe.Param())
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser >= %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("debe tener como máximo %s caracteres", fe.Param())
		}
		return fmt.Sprintf("debe ser <= %s", fe.Param())
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "url":
		return "debe ser una URL válida"
	case "uuid":
		return "debe ser un UUID válido"
	}
	return "no cumple la regla " + fe.Tag()
}
