package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// LedgerRepository define el puerto del libro de transacciones (append-only).
// Append nunca rechaza salvo entradas estructuralmente inválidas; el orden de
// inserción se conserva y es el orden del fold de valoración.
type LedgerRepository interface {
	Append(entry *entity.LedgerEntry) error
	ListByProduct(productID int64) ([]*entity.LedgerEntry, error)
	// ListAll devuelve el libro completo en orden de registro (para replay global).
	ListAll() ([]*entity.LedgerEntry, error)
}
