package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación del libro de transacciones sobre PostgreSQL (usable con pool o tx).
// La columna seq (BIGSERIAL) conserva el orden de inserción, que es el orden del fold.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append persiste una entrada. Solo rechaza entradas estructuralmente inválidas.
func (r *LedgerRepo) Append(entry *entity.LedgerEntry) error {
	if entry.ProductID <= 0 {
		return domain.ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO ledger_entries (id, product_id, quantity_delta, total_cost, occurred_on, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ProductID, entry.QuantityDelta, entry.TotalCost,
		entry.OccurredOn, entry.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// ListByProduct devuelve las entradas de un producto en orden de registro.
func (r *LedgerRepo) ListByProduct(productID int64) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, quantity_delta, total_cost, occurred_on, recorded_at
		FROM ledger_entries WHERE product_id = $1 ORDER BY seq`
	return r.list(query, productID)
}

// ListAll devuelve el libro completo en orden de registro (para replay global).
func (r *LedgerRepo) ListAll() ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, product_id, quantity_delta, total_cost, occurred_on, recorded_at
		FROM ledger_entries ORDER BY seq`
	return r.list(query)
}

func (r *LedgerRepo) list(query string, args ...any) ([]*entity.LedgerEntry, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.QuantityDelta, &e.TotalCost, &e.OccurredOn, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
