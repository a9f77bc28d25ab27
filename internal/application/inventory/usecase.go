package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/valuation"
)

// UseCase operaciones de inventario: recibir stock, consumir stock (uso de fábrica)
// y consultar la valoración. Cada operación resuelve el producto vía el catálogo,
// agrega la entrada al libro y pliega el estado de valoración, todo en una transacción.
type UseCase struct {
	runner  TxRunner
	catalog *catalog.UseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(runner TxRunner, catalogUC *catalog.UseCase) *UseCase {
	return &UseCase{runner: runner, catalog: catalogUC}
}

// LookupResult vista combinada de producto + valoración.
type LookupResult struct {
	Product *entity.Product
	State   *entity.ValuationState
}

// ReceiveStock registra una recepción: valida cantidad y costo positivos, agrega la
// entrada (delta positivo) al libro y pliega la valoración. Devuelve producto y estado nuevo.
func (uc *UseCase) ReceiveStock(ctx context.Context, identifier string, quantity, totalCost float64, occurredOn time.Time) (*LookupResult, error) {
	product, err := uc.catalog.Find(identifier)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 || totalCost <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var next entity.ValuationState
	err = uc.runner.Run(ctx, func(ledgerRepo repository.LedgerRepository, valuationRepo repository.ValuationRepository) error {
		prev, err := valuationRepo.GetForUpdate(product.ID)
		if err != nil {
			return err
		}
		entry := entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			QuantityDelta: quantity,
			TotalCost:     totalCost,
			OccurredOn:    occurredOn,
			RecordedAt:    time.Now(),
		}
		next, err = valuation.Apply(prev, entry)
		if err != nil {
			return err
		}
		// Orden write-ahead: primero el libro, después la vista materializada.
		if err := ledgerRepo.Append(&entry); err != nil {
			return err
		}
		return valuationRepo.Upsert(&next)
	})
	if err != nil {
		return nil, err
	}
	return &LookupResult{Product: product, State: &next}, nil
}

// ConsumeStock registra un consumo de fábrica: verifica stock disponible, calcula el
// costo al precio promedio vigente y agrega la entrada con delta negativo. El rechazo
// por stock insuficiente ocurre antes de cualquier mutación.
func (uc *UseCase) ConsumeStock(ctx context.Context, identifier string, quantity float64, occurredOn time.Time) (*LookupResult, error) {
	product, err := uc.catalog.Find(identifier)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var next entity.ValuationState
	err = uc.runner.Run(ctx, func(ledgerRepo repository.LedgerRepository, valuationRepo repository.ValuationRepository) error {
		prev, err := valuationRepo.GetForUpdate(product.ID)
		if err != nil {
			return err
		}
		if prev == nil || quantity > prev.TotalQuantity {
			return domain.ErrInsufficientStock
		}
		entry := entity.LedgerEntry{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			QuantityDelta: -quantity,
			TotalCost:     quantity * prev.AveragePrice,
			OccurredOn:    occurredOn,
			RecordedAt:    time.Now(),
		}
		next, err = valuation.Apply(prev, entry)
		if err != nil {
			return err
		}
		if err := ledgerRepo.Append(&entry); err != nil {
			return err
		}
		return valuationRepo.Upsert(&next)
	})
	if err != nil {
		return nil, err
	}
	return &LookupResult{Product: product, State: &next}, nil
}

// Lookup devuelve producto + valoración; ErrProductNotFound si falta cualquiera de los dos.
func (uc *UseCase) Lookup(ctx context.Context, identifier string) (*LookupResult, error) {
	product, err := uc.catalog.Find(identifier)
	if err != nil {
		return nil, err
	}
	var state *entity.ValuationState
	err = uc.runner.Run(ctx, func(_ repository.LedgerRepository, valuationRepo repository.ValuationRepository) error {
		state, err = valuationRepo.Get(product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrProductNotFound
	}
	return &LookupResult{Product: product, State: state}, nil
}

// Entries devuelve el libro de un producto en orden de registro (auditoría).
func (uc *UseCase) Entries(ctx context.Context, identifier string) ([]*entity.LedgerEntry, error) {
	product, err := uc.catalog.Find(identifier)
	if err != nil {
		return nil, err
	}
	var entries []*entity.LedgerEntry
	err = uc.runner.Run(ctx, func(ledgerRepo repository.LedgerRepository, _ repository.ValuationRepository) error {
		entries, err = ledgerRepo.ListByProduct(product.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
