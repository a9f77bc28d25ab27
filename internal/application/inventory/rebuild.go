package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/valuation"
)

// RebuildValuations reconstruye todo el estado de valoración plegando el libro completo
// desde cero y lo sustituye de forma atómica. Es la operación de recuperación tras un
// fallo de persistencia entre el append al libro y el upsert de la vista materializada.
func (uc *UseCase) RebuildValuations(ctx context.Context) (int, error) {
	rebuilt := 0
	err := uc.runner.Run(ctx, func(ledgerRepo repository.LedgerRepository, valuationRepo repository.ValuationRepository) error {
		entries, err := ledgerRepo.ListAll()
		if err != nil {
			return err
		}

		// Agrupa por producto conservando el orden de registro global.
		order := make([]int64, 0)
		byProduct := make(map[int64][]entity.LedgerEntry)
		for _, e := range entries {
			if _, ok := byProduct[e.ProductID]; !ok {
				order = append(order, e.ProductID)
			}
			byProduct[e.ProductID] = append(byProduct[e.ProductID], *e)
		}

		states := make([]*entity.ValuationState, 0, len(order))
		for _, productID := range order {
			state, err := valuation.Replay(byProduct[productID])
			if err != nil {
				return err
			}
			if state != nil {
				states = append(states, state)
			}
		}
		rebuilt = len(states)
		return valuationRepo.ReplaceAll(states)
	})
	if err != nil {
		return 0, err
	}
	return rebuilt, nil
}
