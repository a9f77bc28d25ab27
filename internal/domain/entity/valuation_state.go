package entity

import "time"

// ValuationState es el estado agregado derivado por producto: vista materializada
// del libro de transacciones, nunca fuente de verdad independiente. En cualquier
// momento debe ser igual al fold de todas las entradas del producto en orden de registro.
type ValuationState struct {
	ProductID          int64
	TotalQuantity      float64
	AveragePrice       float64 // costo promedio ponderado por unidad
	HighestPrice       float64 // máximo precio unitario observado
	LatestPrice        float64 // precio unitario del movimiento más reciente
	LatestPurchaseDate time.Time
	UpdatedAt          time.Time
}
