package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase casos de uso del directorio de catálogo: alta, renombre y búsqueda de
// productos. El stock y los precios no viven aquí, se manejan vía movimientos.
type UseCase struct {
	runner TxRunner
	repo   repository.CatalogRepository
}

// NewUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewUseCase(runner TxRunner, repo repository.CatalogRepository) *UseCase {
	return &UseCase{runner: runner, repo: repo}
}

// Register registra un producto nuevo. El nombre se normaliza (trim + NFC + minúsculas);
// vacío tras normalizar es ErrEmptyName y un nombre ya usado es ErrDuplicateName.
// El ID asignado es max(IDs existentes, 0) + 1.
func (uc *UseCase) Register(ctx context.Context, name string) (*entity.Product, error) {
	normalized := entity.NormalizeName(name)
	if normalized == "" {
		return nil, domain.ErrEmptyName
	}

	var product *entity.Product
	err := uc.runner.RunCatalog(ctx, func(catalogRepo repository.CatalogRepository) error {
		existing, err := catalogRepo.GetByName(normalized)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateName
		}
		maxID, err := catalogRepo.MaxID()
		if err != nil {
			return err
		}
		now := time.Now()
		product = &entity.Product{
			ID:        maxID + 1,
			Name:      normalized,
			CreatedAt: now,
			UpdatedAt: now,
		}
		return catalogRepo.Create(product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Rename cambia el nombre de un producto existente; el ID nunca cambia.
func (uc *UseCase) Rename(ctx context.Context, id int64, newName string) (*entity.Product, error) {
	normalized := entity.NormalizeName(newName)
	if normalized == "" {
		return nil, domain.ErrEmptyName
	}

	var product *entity.Product
	err := uc.runner.RunCatalog(ctx, func(catalogRepo repository.CatalogRepository) error {
		current, err := catalogRepo.GetByID(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrProductNotFound
		}
		other, err := catalogRepo.GetByName(normalized)
		if err != nil {
			return err
		}
		if other != nil && other.ID != id {
			return domain.ErrDuplicateName
		}
		if err := catalogRepo.Rename(id, normalized); err != nil {
			return err
		}
		current.Name = normalized
		current.UpdatedAt = time.Now()
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Find resuelve un producto por identificador: un entero se interpreta como ID,
// cualquier otra cosa como nombre (coincidencia exacta case-insensitive).
func (uc *UseCase) Find(identifier string) (*entity.Product, error) {
	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		product, err := uc.repo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrProductNotFound
		}
		return product, nil
	}
	product, err := uc.repo.GetByName(entity.NormalizeName(identifier))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// List devuelve el catálogo completo ordenado por ID.
func (uc *UseCase) List() ([]*entity.Product, error) {
	return uc.repo.List()
}
