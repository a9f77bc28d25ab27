package xlsx

import (
	"fmt"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Columnas de master_data.xlsx, las del sistema de referencia más Updated At.
var valuationHeaders = []string{"Product ID", "Total Quantity", "Average Price", "Highest Price", "Latest Price", "Latest Purchase Date", "Updated At"}

func (x session) loadValuations() ([]*entity.ValuationState, error) {
	rows, err := loadRows(x.s.path(valuationFile))
	if err != nil {
		return nil, err
	}
	states := make([]*entity.ValuationState, 0, len(rows))
	for i, row := range rows {
		s := &entity.ValuationState{}
		if s.ProductID, err = parseInt(cell(row, 0)); err != nil {
			return nil, fmt.Errorf("%s fila %d: product id inválido: %w", valuationFile, i+2, err)
		}
		if s.TotalQuantity, err = parseFloat(cell(row, 1)); err != nil {
			return nil, fmt.Errorf("%s fila %d: cantidad inválida: %w", valuationFile, i+2, err)
		}
		if s.AveragePrice, err = parseFloat(cell(row, 2)); err != nil {
			return nil, fmt.Errorf("%s fila %d: precio promedio inválido: %w", valuationFile, i+2, err)
		}
		if s.HighestPrice, err = parseFloat(cell(row, 3)); err != nil {
			return nil, fmt.Errorf("%s fila %d: precio máximo inválido: %w", valuationFile, i+2, err)
		}
		if s.LatestPrice, err = parseFloat(cell(row, 4)); err != nil {
			return nil, fmt.Errorf("%s fila %d: último precio inválido: %w", valuationFile, i+2, err)
		}
		if s.LatestPurchaseDate, err = time.Parse(occurredOnLayout, cell(row, 5)); err != nil {
			return nil, fmt.Errorf("%s fila %d: fecha inválida: %w", valuationFile, i+2, err)
		}
		s.UpdatedAt, _ = time.Parse(recordedAtLayout, cell(row, 6))
		states = append(states, s)
	}
	return states, nil
}

func (x session) saveValuations(states []*entity.ValuationState) error {
	rows := make([][]any, 0, len(states))
	for _, s := range states {
		rows = append(rows, []any{
			s.ProductID, s.TotalQuantity, s.AveragePrice, s.HighestPrice, s.LatestPrice,
			s.LatestPurchaseDate.Format(occurredOnLayout), s.UpdatedAt.Format(recordedAtLayout),
		})
	}
	return saveRows(x.s.path(valuationFile), valuationHeaders, rows)
}

// Get obtiene el estado de un producto; nil si aún no tiene movimientos.
func (x session) Get(productID int64) (*entity.ValuationState, error) {
	states, err := x.loadValuations()
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if s.ProductID == productID {
			return s, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a Get: el mutex del TxRunner ya serializa a los escritores.
func (x session) GetForUpdate(productID int64) (*entity.ValuationState, error) {
	return x.Get(productID)
}

// Upsert reemplaza la fila del producto o la agrega al final.
func (x session) Upsert(state *entity.ValuationState) error {
	states, err := x.loadValuations()
	if err != nil {
		return err
	}
	replaced := false
	for i, s := range states {
		if s.ProductID == state.ProductID {
			states[i] = state
			replaced = true
			break
		}
	}
	if !replaced {
		states = append(states, state)
	}
	return x.saveValuations(states)
}

// ReplaceAll sustituye todo el libro de valoración (reconstrucción por replay).
func (x session) ReplaceAll(states []*entity.ValuationState) error {
	return x.saveValuations(states)
}
