package catalog

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función con el repositorio de catálogo atado a una unidad
// atómica (transacción de BD o sección serializada). register y rename deben
// serializarse globalmente para preservar unicidad de nombres y monotonicidad de IDs.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(catalogRepo repository.CatalogRepository) error) error
}
