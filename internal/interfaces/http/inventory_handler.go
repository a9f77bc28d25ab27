package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario:
// recepciones, consumos de fábrica, consulta y auditoría.
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// parseDate interpreta la fecha de negocio (2006-01-02); vacía = hoy,
// como el formulario del sistema de referencia.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse("2006-01-02", s)
}

// Receive godoc
// @Summary      Registrar recepción de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "identifier (nombre o id), quantity, total_cost, date (opcional)"
// @Success      201   {object}  dto.ValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido; quantity y total_cost deben ser mayores que cero"})
	}
	occurredOn, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "date debe tener formato 2006-01-02"})
	}
	result, err := h.uc.ReceiveStock(c.Context(), in.Identifier, in.Quantity, in.TotalCost, occurredOn)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toValuationResponse(result.Product.Name, result.State))
}

// Consume godoc
// @Summary      Registrar consumo de fábrica
// @Description  Descuenta inventario al precio promedio vigente; el costo no se ingresa.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeStockRequest  true  "identifier (nombre o id), quantity, date (opcional)"
// @Success      201   {object}  dto.ValuationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumptions [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "identifier es requerido; quantity debe ser mayor que cero"})
	}
	occurredOn, err := parseDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "date debe tener formato 2006-01-02"})
	}
	result, err := h.uc.ConsumeStock(c.Context(), in.Identifier, in.Quantity, occurredOn)
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toValuationResponse(result.Product.Name, result.State))
}

// Lookup godoc
// @Summary      Consultar producto y valoración
// @Tags         inventory
// @Produce      json
// @Param        identifier  path  string  true  "Nombre o ID del producto"
// @Success      200  {object}  dto.ValuationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{identifier} [get]
func (h *InventoryHandler) Lookup(c *fiber.Ctx) error {
	result, err := h.uc.Lookup(c.Context(), c.Params("identifier"))
	if err != nil {
		return writeInventoryError(c, err)
	}
	return c.JSON(toValuationResponse(result.Product.Name, result.State))
}

// Entries godoc
// @Summary      Listar movimientos de un producto
// @Tags         inventory
// @Produce      json
// @Param        identifier  path  string  true  "Nombre o ID del producto"
// @Success      200  {object}  dto.LedgerEntryListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{identifier}/entries [get]
func (h *InventoryHandler) Entries(c *fiber.Ctx) error {
	entries, err := h.uc.Entries(c.Context(), c.Params("identifier"))
	if err != nil {
		return writeInventoryError(c, err)
	}
	items := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		entryType := "consumption"
		if e.IsReceipt() {
			entryType = "receipt"
		}
		items = append(items, dto.LedgerEntryResponse{
			ID:            e.ID,
			ProductID:     e.ProductID,
			Type:          entryType,
			QuantityDelta: e.QuantityDelta,
			TotalCost:     e.TotalCost,
			OccurredOn:    e.OccurredOn,
			RecordedAt:    e.RecordedAt,
		})
	}
	return c.JSON(dto.LedgerEntryListResponse{Items: items, Total: len(items)})
}

// Rebuild godoc
// @Summary      Reconstruir la valoración desde el libro
// @Description  Pliega el libro completo desde cero y sustituye el estado materializado.
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	n, err := h.uc.RebuildValuations(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"rebuilt": n})
}

func writeInventoryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	if errors.Is(err, domain.ErrInvalidAmount) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_AMOUNT", Message: "cantidad y costo deben ser mayores que cero"})
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	if errors.Is(err, domain.ErrIO) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "IO_ERROR", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func toValuationResponse(name string, s *entity.ValuationState) dto.ValuationResponse {
	return dto.ValuationResponse{
		ProductID:          s.ProductID,
		ProductName:        name,
		TotalQuantity:      s.TotalQuantity,
		AveragePrice:       s.AveragePrice,
		HighestPrice:       s.HighestPrice,
		LatestPrice:        s.LatestPrice,
		LatestPurchaseDate: s.LatestPurchaseDate,
	}
}
