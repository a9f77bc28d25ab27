package valuation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/valuation"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fecha = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func entrada(productID int64, delta, costoTotal float64, dia int) entity.LedgerEntry {
	return entity.LedgerEntry{
		ID:            "e",
		ProductID:     productID,
		QuantityDelta: delta,
		TotalCost:     costoTotal,
		OccurredOn:    fecha.AddDate(0, 0, dia),
		RecordedAt:    time.Now(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Apply
// ──────────────────────────────────────────────────────────────────────────────

// Primera transacción: el estado nace directamente del precio unitario de la entrada.
func TestApply_PrimeraRecepcion(t *testing.T) {
	state, err := valuation.Apply(nil, entrada(1, 100, 500, 0))
	require.NoError(t, err)

	assert.Equal(t, 100.0, state.TotalQuantity)
	assert.Equal(t, 5.0, state.AveragePrice)
	assert.Equal(t, 5.0, state.HighestPrice)
	assert.Equal(t, 5.0, state.LatestPrice)
	assert.Equal(t, fecha, state.LatestPurchaseDate)
}

// Escenario de referencia completo: azúcar 100@500, 50@300, consumo de 30.
func TestApply_EscenarioAzucar(t *testing.T) {
	s1, err := valuation.Apply(nil, entrada(1, 100, 500, 0))
	require.NoError(t, err)

	s2, err := valuation.Apply(&s1, entrada(1, 50, 300, 1))
	require.NoError(t, err)
	assert.Equal(t, 150.0, s2.TotalQuantity)
	assert.InDelta(t, 5.333333333333333, s2.AveragePrice, 1e-12)
	assert.Equal(t, 6.0, s2.HighestPrice, "300/50 = 6 debe ser el máximo")
	assert.Equal(t, 6.0, s2.LatestPrice)

	// Consumo al promedio vigente: la fórmula lo deja sin cambios.
	consumo := entrada(1, -30, 30*s2.AveragePrice, 2)
	s3, err := valuation.Apply(&s2, consumo)
	require.NoError(t, err)
	assert.Equal(t, 120.0, s3.TotalQuantity)
	assert.InDelta(t, s2.AveragePrice, s3.AveragePrice, 1e-12,
		"consumir al promedio no debe mover el promedio")
	assert.Equal(t, 6.0, s3.HighestPrice)
	assert.InDelta(t, s2.AveragePrice, s3.LatestPrice, 1e-12,
		"el último precio de un consumo es el promedio vigente")
	assert.Equal(t, fecha.AddDate(0, 0, 2), s3.LatestPurchaseDate)

	// Intentar consumir 200 con 120 en stock: rechazo sin mutación.
	_, err = valuation.Apply(&s3, entrada(1, -200, 200*s3.AveragePrice, 3))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 120.0, s3.TotalQuantity, "el estado previo queda intacto")
}

// Consumo sin estado previo: no hay stock que consumir.
func TestApply_ConsumoSinEstadoPrevio(t *testing.T) {
	_, err := valuation.Apply(nil, entrada(1, -10, 50, 0))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// Delta cero dividiría por cero; se rechaza como cantidad inválida.
func TestApply_DeltaCero(t *testing.T) {
	_, err := valuation.Apply(nil, entrada(1, 0, 100, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// Entrada sin producto es estructuralmente inválida.
func TestApply_SinProducto(t *testing.T) {
	_, err := valuation.Apply(nil, entrada(0, 10, 100, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

// Consumo total: la cantidad llega exactamente a cero y el promedio se conserva
// para la próxima recepción (la recurrencia sería 0/0).
func TestApply_ConsumoTotal(t *testing.T) {
	s1, err := valuation.Apply(nil, entrada(1, 40, 200, 0))
	require.NoError(t, err)

	s2, err := valuation.Apply(&s1, entrada(1, -40, 40*s1.AveragePrice, 1))
	require.NoError(t, err)
	assert.Equal(t, 0.0, s2.TotalQuantity)
	assert.Equal(t, 5.0, s2.AveragePrice)
}

// Solo recepciones: el promedio queda acotado por el mínimo y el máximo precio
// unitario, y el máximo observado es exactamente el mayor precio unitario.
func TestApply_PromedioAcotadoConRecepciones(t *testing.T) {
	recepciones := []struct{ qty, cost float64 }{
		{10, 20},  // 2.0
		{5, 40},   // 8.0
		{20, 70},  // 3.5
		{1, 9},    // 9.0
		{100, 10}, // 0.1
	}
	minPrecio, maxPrecio := 0.1, 9.0

	var state *entity.ValuationState
	for i, r := range recepciones {
		next, err := valuation.Apply(state, entrada(1, r.qty, r.cost, i))
		require.NoError(t, err)
		state = &next

		assert.GreaterOrEqual(t, state.AveragePrice, minPrecio)
		assert.LessOrEqual(t, state.AveragePrice, maxPrecio)
	}
	assert.Equal(t, maxPrecio, state.HighestPrice)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Replay
// ──────────────────────────────────────────────────────────────────────────────

// Consistencia de replay: plegar el libro completo desde cero reproduce exactamente
// el estado construido incrementalmente, bit a bit.
func TestReplay_CoincideConAplicacionIncremental(t *testing.T) {
	entries := []entity.LedgerEntry{
		entrada(1, 100, 500, 0),
		entrada(1, 50, 300, 1),
	}
	// El consumo usa el promedio vigente tras las dos recepciones.
	s2, err := valuation.Replay(entries)
	require.NoError(t, err)
	entries = append(entries, entrada(1, -30, 30*s2.AveragePrice, 2))

	var incremental *entity.ValuationState
	for _, e := range entries {
		next, err := valuation.Apply(incremental, e)
		require.NoError(t, err)
		incremental = &next
	}

	replayed, err := valuation.Replay(entries)
	require.NoError(t, err)
	assert.Equal(t, incremental, replayed,
		"el fold desde cero debe coincidir exactamente con el estado incremental")
}

// Libro vacío: no hay estado que derivar.
func TestReplay_LibroVacio(t *testing.T) {
	state, err := valuation.Replay(nil)
	require.NoError(t, err)
	assert.Nil(t, state)
}

// Un libro con un consumo que excede el stock acumulado no es reproducible:
// el error evita materializar un estado negativo.
func TestReplay_ConsumoExcedenteFalla(t *testing.T) {
	_, err := valuation.Replay([]entity.LedgerEntry{
		entrada(1, 10, 50, 0),
		entrada(1, -20, 100, 1),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
