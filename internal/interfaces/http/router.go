package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Import *appcatalog.ImportUseCase
	Query  *appcatalog.QueryUseCase
	Delete *appcatalog.DeleteUseCase
	// Ping verifica el store para /health; nil omite la verificación.
	Ping func(ctx context.Context) error
	Log  zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Ping))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	h := NewCatalogHandler(deps.Import, deps.Query, deps.Delete, deps.Log)
	app.Post("/imports", h.Import)
	app.Get("/nodes/:id", h.GetNode)
	app.Delete("/delete/:id", h.Delete)
	app.Get("/sales", h.Sales)
	app.Get("/node/:id/statistic", h.Statistic)
}

// healthHandler godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
func healthHandler(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			if err := ping(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.HealthResponse{Status: "degraded", Store: err.Error()})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Store: "ok"})
	}
}
