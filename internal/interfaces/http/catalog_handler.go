package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appcatalog "github.com/jhoicas/catalogo-api/internal/application/catalog"
	"github.com/jhoicas/catalogo-api/internal/application/dto"
	domcatalog "github.com/jhoicas/catalogo-api/internal/domain/catalog"
)

// CatalogHandler maneja importaciones, consultas y borrado del catálogo.
type CatalogHandler struct {
	imports *appcatalog.ImportUseCase
	queries *appcatalog.QueryUseCase
	deletes *appcatalog.DeleteUseCase
	log     zerolog.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(
	imports *appcatalog.ImportUseCase,
	queries *appcatalog.QueryUseCase,
	deletes *appcatalog.DeleteUseCase,
	log zerolog.Logger,
) *CatalogHandler {
	return &CatalogHandler{imports: imports, queries: queries, deletes: deletes, log: log}
}

// Import godoc
// @Summary      Importar categorías y ofertas
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "Lote de nodos"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /imports [post]
func (h *CatalogHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(&in); err != nil {
		return writeError(c, h.log, err)
	}
	units, date, err := in.ToUnits()
	if err != nil {
		return writeError(c, h.log, err)
	}
	if err := h.imports.ImportBatch(c.UserContext(), units, date); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// GetNode godoc
// @Summary      Árbol de un nodo con precios agregados
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del nodo"
// @Success      200  {object}  dto.NodeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /nodes/{id} [get]
func (h *CatalogHandler) GetNode(c *fiber.Ctx) error {
	tree, err := h.queries.GetTree(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewNodeResponse(tree))
}

// Delete godoc
// @Summary      Eliminar un nodo y su subárbol
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del nodo"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /delete/{id} [delete]
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	if err := h.deletes.DeleteSubtree(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// Sales godoc
// @Summary      Ofertas con cambios de precio en las 24 horas previas
// @Tags         catalog
// @Produce      json
// @Param        date  query  string  true  "Fecha ISO 8601"
// @Success      200   {array}   dto.ShopUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /sales [get]
func (h *CatalogHandler) Sales(c *fiber.Ctx) error {
	since, err := domcatalog.ParseDate(c.Query("date"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	units, err := h.queries.GetSales(c.UserContext(), since)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewShopUnitList(units))
}

// Statistic godoc
// @Summary      Historial de precio de un nodo
// @Tags         catalog
// @Produce      json
// @Param        id         path   string  true  "ID del nodo"
// @Param        dateStart  query  string  true  "Inicio (incluido)"
// @Param        dateEnd    query  string  true  "Fin (incluido)"
// @Success      200  {object}  dto.StatisticResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /node/{id}/statistic [get]
func (h *CatalogHandler) Statistic(c *fiber.Ctx) error {
	start, err := domcatalog.ParseDate(c.Query("dateStart"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	end, err := domcatalog.ParseDate(c.Query("dateEnd"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	hist, err := h.queries.GetHistory(c.UserContext(), c.Params("id"), start, end)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.NewStatisticResponse(hist))
}
