package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.UseCase
	InventoryUC *inventory.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo de productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", productHandler.Register)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id/name", productHandler.Rename)

	// Motor de inventario
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/receipts", inventoryHandler.Receive)
	invGroup.Post("/consumptions", inventoryHandler.Consume)
	invGroup.Get("/products/:identifier", inventoryHandler.Lookup)
	invGroup.Get("/products/:identifier/entries", inventoryHandler.Entries)
	invGroup.Post("/rebuild", inventoryHandler.Rebuild)
}
