// Package valuation implementa el motor de valoración de inventario (servicio de dominio):
// el fold incremental que mantiene cantidad total, precio promedio ponderado, precio
// máximo y último precio por producto a partir del libro de transacciones.
package valuation

import (
	"math"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Apply pliega una entrada del libro sobre el estado previo del producto y devuelve
// el estado nuevo. prev == nil significa que es la primera transacción del producto.
//
// Recurrencia (aritmética float64, idéntica para recepciones y consumos):
//
//	precioUnitario = TotalCost / |QuantityDelta|
//	nuevoPromedio  = (Q*A + delta*precioUnitario) / (Q + delta)
//	nuevoMaximo    = max(H, precioUnitario)
//
// Un consumo se registra al precio promedio vigente, por lo que algebraicamente deja
// el promedio sin cambios; la fórmula se aplica igual, sin caso especial.
//
// La verificación de stock insuficiente ocurre estrictamente antes de mutar nada:
// en error el estado previo queda intacto.
func Apply(prev *entity.ValuationState, e entity.LedgerEntry) (entity.ValuationState, error) {
	if e.ProductID <= 0 {
		return entity.ValuationState{}, domain.ErrInvalidEntry
	}
	if e.QuantityDelta == 0 {
		return entity.ValuationState{}, domain.ErrInvalidAmount
	}

	unitPrice := e.UnitPrice()

	if prev == nil {
		if e.QuantityDelta < 0 {
			return entity.ValuationState{}, domain.ErrInsufficientStock
		}
		return entity.ValuationState{
			ProductID:          e.ProductID,
			TotalQuantity:      e.QuantityDelta,
			AveragePrice:       unitPrice,
			HighestPrice:       unitPrice,
			LatestPrice:        unitPrice,
			LatestPurchaseDate: e.OccurredOn,
			UpdatedAt:          e.RecordedAt,
		}, nil
	}

	if e.QuantityDelta < 0 && -e.QuantityDelta > prev.TotalQuantity {
		return entity.ValuationState{}, domain.ErrInsufficientStock
	}

	newQty := prev.TotalQuantity + e.QuantityDelta
	// Con newQty == 0 (consumo total) la recurrencia sería 0/0; el promedio
	// conserva su último valor para la próxima recepción.
	newAvg := prev.AveragePrice
	if newQty != 0 {
		newAvg = (prev.TotalQuantity*prev.AveragePrice + e.QuantityDelta*unitPrice) / newQty
	}

	return entity.ValuationState{
		ProductID:          e.ProductID,
		TotalQuantity:      newQty,
		AveragePrice:       newAvg,
		HighestPrice:       math.Max(prev.HighestPrice, unitPrice),
		LatestPrice:        unitPrice,
		LatestPurchaseDate: e.OccurredOn,
		UpdatedAt:          e.RecordedAt,
	}, nil
}

// Replay reconstruye el estado de valoración plegando el libro completo de un producto
// desde cero, en el orden recibido (orden de registro). Es la operación de recuperación:
// el resultado debe coincidir con el estado materializado persistido.
func Replay(entries []entity.LedgerEntry) (*entity.ValuationState, error) {
	var state *entity.ValuationState
	for _, e := range entries {
		next, err := Apply(state, e)
		if err != nil {
			return nil, err
		}
		state = &next
	}
	return state, nil
}
