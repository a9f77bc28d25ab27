package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// CatalogRepository define el puerto de persistencia para el catálogo de productos (DIP).
// GetByName espera el nombre ya normalizado (entity.NormalizeName).
type CatalogRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	GetByName(name string) (*entity.Product, error)
	Rename(id int64, name string) error
	List() ([]*entity.Product, error)
	// MaxID devuelve el mayor ID asignado (0 si el catálogo está vacío).
	MaxID() (int64, error)
}
