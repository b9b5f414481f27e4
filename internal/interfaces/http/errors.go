package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nfe-emissor/internal/application/dto"
	"github.com/jhoicas/nfe-emissor/internal/domain"
	domainnfe "github.com/jhoicas/nfe-emissor/internal/domain/nfe"
)

// writeError traduce los errores de dominio a HTTP:
//
//	ErrValidation → 422 (con detalle por campo)
//	ErrInput, ErrCredential → 400
//	timeout → 504
//	ErrConfiguration, ErrIntegrity y el resto → 500
func writeError(c *fiber.Ctx, err error) error {
	rid := GetRequestID(c)
	var fields domainnfe.FieldErrors
	switch {
	case errors.Is(err, domain.ErrValidation) && errors.As(err, &fields):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			ErrorResponse: dto.ErrorResponse{Code: "VALIDATION", Message: domain.ErrValidation.Error(), RequestID: rid},
			Errors:        toFieldErrorDTOs(fields),
		})
	case errors.Is(err, domain.ErrInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error(), RequestID: rid})
	case errors.Is(err, domain.ErrCredential):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "CERTIFICATE_CREDENTIAL", Message: err.Error(), RequestID: rid})
	case errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.ErrorResponse{Code: "TIMEOUT", Message: "tiempo de espera agotado", RequestID: rid})
	case errors.Is(err, domain.ErrConfiguration):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CONFIGURATION", Message: "certificado no configurado", RequestID: rid})
	case errors.Is(err, domain.ErrIntegrity):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "CERTIFICATE_INTEGRITY", Message: err.Error(), RequestID: rid})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno", RequestID: rid})
	}
}

func toFieldErrorDTOs(fields domainnfe.FieldErrors) []dto.FieldErrorDTO {
	out := make([]dto.FieldErrorDTO, 0, len(fields))
	for _, f := range fields {
		out = append(out, dto.FieldErrorDTO{Field: f.Field, Message: f.Message})
	}
	return out
}
