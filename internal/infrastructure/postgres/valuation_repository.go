package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ValuationRepository = (*ValuationRepo)(nil)

// ValuationRepo implementación del estado de valoración materializado sobre PostgreSQL
// (usable con pool o tx). Cantidades y precios son DOUBLE PRECISION: la recurrencia
// del fold es aritmética binary64 y la columna debe conservarla bit a bit.
type ValuationRepo struct {
	q Querier
}

// NewValuationRepository construye el adaptador de valoración. Pasar pool o tx (Querier).
func NewValuationRepository(q Querier) *ValuationRepo {
	return &ValuationRepo{q: q}
}

const valuationColumns = `product_id, total_quantity, average_price, highest_price, latest_price, latest_purchase_date, updated_at`

// Get obtiene el estado de un producto; nil si aún no tiene movimientos.
func (r *ValuationRepo) Get(productID int64) (*entity.ValuationState, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuation_state WHERE product_id = $1`
	return r.get(query, productID)
}

// GetForUpdate obtiene el estado y bloquea la fila (SELECT FOR UPDATE).
func (r *ValuationRepo) GetForUpdate(productID int64) (*entity.ValuationState, error) {
	query := `SELECT ` + valuationColumns + ` FROM valuation_state WHERE product_id = $1 FOR UPDATE`
	return r.get(query, productID)
}

func (r *ValuationRepo) get(query string, productID int64) (*entity.ValuationState, error) {
	var s entity.ValuationState
	err := r.q.QueryRow(context.Background(), query, productID).Scan(
		&s.ProductID, &s.TotalQuantity, &s.AveragePrice, &s.HighestPrice,
		&s.LatestPrice, &s.LatestPurchaseDate, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get valuation state: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el estado de un producto.
func (r *ValuationRepo) Upsert(state *entity.ValuationState) error {
	query := `
		INSERT INTO valuation_state (` + valuationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id) DO UPDATE SET
			total_quantity = EXCLUDED.total_quantity,
			average_price = EXCLUDED.average_price,
			highest_price = EXCLUDED.highest_price,
			latest_price = EXCLUDED.latest_price,
			latest_purchase_date = EXCLUDED.latest_purchase_date,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(context.Background(), query,
		state.ProductID, state.TotalQuantity, state.AveragePrice, state.HighestPrice,
		state.LatestPrice, state.LatestPurchaseDate, state.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert valuation state: %w", err)
	}
	return nil
}

// ReplaceAll sustituye todo el estado materializado (reconstrucción por replay).
func (r *ValuationRepo) ReplaceAll(states []*entity.ValuationState) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM valuation_state`); err != nil {
		return fmt.Errorf("clear valuation state: %w", err)
	}
	for _, s := range states {
		if err := r.Upsert(s); err != nil {
			return err
		}
	}
	return nil
}
