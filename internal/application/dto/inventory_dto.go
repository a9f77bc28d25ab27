package dto

import "time"

// ReceiveStockRequest body para POST /api/inventory/receipts.
// Identifier acepta nombre o ID de producto; Date en formato 2006-01-02
// (vacío = hoy).
type ReceiveStockRequest struct {
	Identifier string  `json:"identifier" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	TotalCost  float64 `json:"total_cost" validate:"gt=0"`
	Date       string  `json:"date,omitempty"`
}

// ConsumeStockRequest body para POST /api/inventory/consumptions.
// El costo no se ingresa: se calcula al precio promedio vigente.
type ConsumeStockRequest struct {
	Identifier string  `json:"identifier" validate:"required"`
	Quantity   float64 `json:"quantity" validate:"gt=0"`
	Date       string  `json:"date,omitempty"`
}

// ValuationResponse estado de valoración de un producto tras un movimiento o en consulta.
type ValuationResponse struct {
	ProductID          int64     `json:"product_id"`
	ProductName        string    `json:"product_name"`
	TotalQuantity      float64   `json:"total_quantity"`
	AveragePrice       float64   `json:"average_price"`
	HighestPrice       float64   `json:"highest_price"`
	LatestPrice        float64   `json:"latest_price"`
	LatestPurchaseDate time.Time `json:"latest_purchase_date"`
}

// LedgerEntryResponse una entrada del libro de transacciones (auditoría).
// Type es "receipt" o "consumption" según el signo del delta.
type LedgerEntryResponse struct {
	ID            string    `json:"id"`
	ProductID     int64     `json:"product_id"`
	Type          string    `json:"type"`
	QuantityDelta float64   `json:"quantity_delta"`
	TotalCost     float64   `json:"total_cost"`
	OccurredOn    time.Time `json:"occurred_on"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// LedgerEntryListResponse listado de entradas de un producto.
type LedgerEntryListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Total int                   `json:"total"`
}
