package inventory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad atómica, pasando repositorios
// atados a ella. Garantiza que entrada al libro y estado de valoración se persistan
// juntos, y serializa las mutaciones por producto (spec de un solo escritor).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		valuationRepo repository.ValuationRepository,
	) error) error
}
