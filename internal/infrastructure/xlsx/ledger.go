package xlsx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Columnas de inventory_catalog.xlsx; "Quantity Added", "Total Cost", "Purchase Date"
// y "Timestamp" son las del sistema de referencia. El orden de fila es el orden de
// registro y por lo tanto el orden del fold.
var ledgerHeaders = []string{"Entry ID", "Product ID", "Quantity Added", "Total Cost", "Purchase Date", "Timestamp"}

const (
	occurredOnLayout = "2006-01-02"
	recordedAtLayout = time.RFC3339Nano
)

func (x session) loadLedger() ([]*entity.LedgerEntry, error) {
	rows, err := loadRows(x.s.path(ledgerFile))
	if err != nil {
		return nil, err
	}
	entries := make([]*entity.LedgerEntry, 0, len(rows))
	for i, row := range rows {
		e := &entity.LedgerEntry{ID: cell(row, 0)}
		if e.ProductID, err = parseInt(cell(row, 1)); err != nil {
			return nil, fmt.Errorf("%s fila %d: product id inválido: %w", ledgerFile, i+2, err)
		}
		if e.QuantityDelta, err = parseFloat(cell(row, 2)); err != nil {
			return nil, fmt.Errorf("%s fila %d: cantidad inválida: %w", ledgerFile, i+2, err)
		}
		if e.TotalCost, err = parseFloat(cell(row, 3)); err != nil {
			return nil, fmt.Errorf("%s fila %d: costo inválido: %w", ledgerFile, i+2, err)
		}
		if e.OccurredOn, err = time.Parse(occurredOnLayout, cell(row, 4)); err != nil {
			return nil, fmt.Errorf("%s fila %d: fecha inválida: %w", ledgerFile, i+2, err)
		}
		if e.RecordedAt, err = time.Parse(recordedAtLayout, cell(row, 5)); err != nil {
			return nil, fmt.Errorf("%s fila %d: timestamp inválido: %w", ledgerFile, i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (x session) saveLedger(entries []*entity.LedgerEntry) error {
	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.ID, e.ProductID, e.QuantityDelta, e.TotalCost,
			e.OccurredOn.Format(occurredOnLayout), e.RecordedAt.Format(recordedAtLayout),
		})
	}
	return saveRows(x.s.path(ledgerFile), ledgerHeaders, rows)
}

// Append agrega la entrada al final del libro. Solo rechaza entradas sin producto.
func (x session) Append(entry *entity.LedgerEntry) error {
	if entry.ProductID <= 0 {
		return domain.ErrInvalidEntry
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entries, err := x.loadLedger()
	if err != nil {
		return err
	}
	return x.saveLedger(append(entries, entry))
}

// ListByProduct devuelve las entradas de un producto en orden de registro.
func (x session) ListByProduct(productID int64) ([]*entity.LedgerEntry, error) {
	entries, err := x.loadLedger()
	if err != nil {
		return nil, err
	}
	var list []*entity.LedgerEntry
	for _, e := range entries {
		if e.ProductID == productID {
			list = append(list, e)
		}
	}
	return list, nil
}

// ListAll devuelve el libro completo en orden de registro.
func (x session) ListAll() ([]*entity.LedgerEntry, error) {
	return x.loadLedger()
}
