package entity

import "time"

// LedgerEntry es un hecho inmutable del libro de transacciones.
// QuantityDelta positivo = recepción de stock; negativo = consumo de fábrica.
// Para consumos TotalCost se calcula como |QuantityDelta| * precio promedio vigente,
// nunca lo ingresa el usuario.
type LedgerEntry struct {
	ID            string // uuid
	ProductID     int64
	QuantityDelta float64
	TotalCost     float64
	OccurredOn    time.Time // fecha de negocio del movimiento (la aporta el caller)
	RecordedAt    time.Time // timestamp de registro, define el orden del fold
}

// UnitPrice devuelve el precio unitario implícito de la entrada: TotalCost / |QuantityDelta|.
func (e LedgerEntry) UnitPrice() float64 {
	qty := e.QuantityDelta
	if qty < 0 {
		qty = -qty
	}
	return e.TotalCost / qty
}

// IsReceipt indica si la entrada es una recepción de stock.
func (e LedgerEntry) IsReceipt() bool { return e.QuantityDelta > 0 }
