package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain"
)

// writeError traduce errores de dominio a status HTTP. Los 5xx se registran.
// Un lote ya escrito siempre responde POST_COMMIT, sea cual sea la causa.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var pce *appcatalog.PostCommitError
	switch {
	case errors.As(err, &pce):
		log.Error().Err(err).Str("path", c.Path()).Strs("unit_ids", pce.UnitIDs).Msg("lote escrito con fases pendientes")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "POST_COMMIT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrMalformedInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "nodo no encontrado"})
	case errors.Is(err, domain.ErrDataIntegrity):
		log.Error().Err(err).Str("path", c.Path()).Msg("integridad de datos")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "DATA_INTEGRITY", Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
