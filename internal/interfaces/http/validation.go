package http

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
)

// bodyValidator revisa la forma del body (tags validate de los DTO). Las reglas fiscales
// del emisor quedan en domainnfe.ValidateIssuer.
var bodyValidator = newBodyValidator()

func newBodyValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// nombres de campo según el tag json
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindBody decodifica y valida el body en out. Si falla ya escribió la respuesta 400 y
// el handler debe retornar err sin seguir.
func bindBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	err := bodyValidator.Struct(out)
	if err == nil {
		return true, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false, invalidBody(c)
	}
	fields := make([]dto.FieldErrorDTO, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, dto.FieldErrorDTO{Field: fieldPath(e), Message: validationMessage(e)})
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
		ErrorResponse: dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido", RequestID: GetRequestID(c)},
		Errors:        fields,
	})
}

// fieldPath quita el nombre del struct raíz: "PreviewRequest.items[0].code" → "items[0].code".
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "campo obligatorio"
	case "len":
		return "debe tener exactamente " + e.Param() + " caracteres"
	case "numeric":
		return "solo dígitos"
	case "max":
		if e.Kind() == reflect.Slice {
			return "máximo " + e.Param() + " elementos"
		}
		if e.Kind() == reflect.String {
			return "máximo " + e.Param() + " caracteres"
		}
		return "debe ser como máximo " + e.Param()
	case "gte":
		return "debe ser mayor o igual a " + e.Param()
	case "lte":
		return "debe ser menor o igual a " + e.Param()
	default:
		return "valor inválido"
	}
}
