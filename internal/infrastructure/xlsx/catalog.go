package xlsx

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// Columnas de product_details.xlsx. Las dos primeras son las del sistema de referencia.
var catalogHeaders = []string{"Product ID", "Product Name", "Created At", "Updated At"}

func (x session) loadCatalog() ([]*entity.Product, error) {
	rows, err := loadRows(x.s.path(catalogFile))
	if err != nil {
		return nil, err
	}
	products := make([]*entity.Product, 0, len(rows))
	for i, row := range rows {
		id, err := parseInt(cell(row, 0))
		if err != nil {
			return nil, fmt.Errorf("%s fila %d: id inválido: %w", catalogFile, i+2, err)
		}
		p := &entity.Product{ID: id, Name: cell(row, 1)}
		// Los libros escritos por el sistema de referencia no traen timestamps.
		p.CreatedAt, _ = time.Parse(time.RFC3339, cell(row, 2))
		p.UpdatedAt, _ = time.Parse(time.RFC3339, cell(row, 3))
		products = append(products, p)
	}
	return products, nil
}

func (x session) saveCatalog(products []*entity.Product) error {
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ID, p.Name,
			p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339),
		})
	}
	return saveRows(x.s.path(catalogFile), catalogHeaders, rows)
}

// Create agrega el producto al final del libro.
func (x session) Create(product *entity.Product) error {
	products, err := x.loadCatalog()
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Name == product.Name {
			return domain.ErrDuplicateName
		}
	}
	return x.saveCatalog(append(products, product))
}

// GetByID busca un producto por ID; nil si no existe.
func (x session) GetByID(id int64) (*entity.Product, error) {
	products, err := x.loadCatalog()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, nil
}

// GetByName busca por nombre normalizado exacto; nil si no existe.
func (x session) GetByName(name string) (*entity.Product, error) {
	products, err := x.loadCatalog()
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, nil
}

// Rename actualiza el nombre en su fila; el ID no se toca.
func (x session) Rename(id int64, name string) error {
	products, err := x.loadCatalog()
	if err != nil {
		return err
	}
	found := false
	for _, p := range products {
		if p.ID == id {
			p.Name = name
			p.UpdatedAt = time.Now()
			found = true
			break
		}
	}
	if !found {
		return domain.ErrProductNotFound
	}
	return x.saveCatalog(products)
}

// List devuelve el catálogo en orden de fila (orden de alta, IDs crecientes).
func (x session) List() ([]*entity.Product, error) {
	return x.loadCatalog()
}

// MaxID devuelve el mayor ID asignado, 0 con catálogo vacío.
func (x session) MaxID() (int64, error) {
	products, err := x.loadCatalog()
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID, nil
}

// lockedCatalog expone el catálogo fuera de Run/RunCatalog tomando el lock por llamada.
type lockedCatalog struct {
	s *Store
}

var _ repository.CatalogRepository = lockedCatalog{}

func (c lockedCatalog) GetByID(id int64) (*entity.Product, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return session{s: c.s}.GetByID(id)
}

func (c lockedCatalog) GetByName(name string) (*entity.Product, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return session{s: c.s}.GetByName(name)
}

func (c lockedCatalog) List() ([]*entity.Product, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return session{s: c.s}.List()
}

func (c lockedCatalog) MaxID() (int64, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	return session{s: c.s}.MaxID()
}

func (c lockedCatalog) Create(product *entity.Product) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := (session{s: c.s}).Create(product); err != nil {
		return err
	}
	c.s.backupLocked()
	return nil
}

func (c lockedCatalog) Rename(id int64, name string) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := (session{s: c.s}).Rename(id, name); err != nil {
		return err
	}
	c.s.backupLocked()
	return nil
}
