package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ValuationRepository define el puerto del estado de valoración materializado.
// Usado dentro de transacciones para garantizar consistencia con el libro.
type ValuationRepository interface {
	Get(productID int64) (*entity.ValuationState, error)
	Upsert(state *entity.ValuationState) error
	// GetForUpdate opcional: bloquea la fila para update (SELECT FOR UPDATE);
	// los stores sin filas (xlsx) lo resuelven serializando el TxRunner.
	GetForUpdate(productID int64) (*entity.ValuationState, error)
	// ReplaceAll sustituye todo el estado materializado (reconstrucción por replay).
	ReplaceAll(states []*entity.ValuationState) error
}
