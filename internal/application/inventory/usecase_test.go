package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/catalog"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria: catálogo, libro y valoración en un mismo store
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products   []*entity.Product
	entries    []*entity.LedgerEntry
	valuations map[int64]*entity.ValuationState
}

var _ repository.CatalogRepository = (*memStore)(nil)
var _ repository.LedgerRepository = (*memStore)(nil)
var _ repository.ValuationRepository = (*memStore)(nil)
var _ inventory.TxRunner = (*memStore)(nil)
var _ catalog.TxRunner = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{valuations: make(map[int64]*entity.ValuationState)}
}

func (m *memStore) Run(_ context.Context, fn func(repository.LedgerRepository, repository.ValuationRepository) error) error {
	return fn(m, m)
}

func (m *memStore) RunCatalog(_ context.Context, fn func(repository.CatalogRepository) error) error {
	return fn(m)
}

func (m *memStore) Create(p *entity.Product) error {
	cp := *p
	m.products = append(m.products, &cp)
	return nil
}

func (m *memStore) GetByID(id int64) (*entity.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetByName(name string) (*entity.Product, error) {
	for _, p := range m.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) Rename(id int64, name string) error {
	for _, p := range m.products {
		if p.ID == id {
			p.Name = name
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (m *memStore) List() ([]*entity.Product, error) { return m.products, nil }

func (m *memStore) MaxID() (int64, error) {
	var maxID int64
	for _, p := range m.products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID, nil
}

func (m *memStore) Append(e *entity.LedgerEntry) error {
	if e.ProductID <= 0 {
		return domain.ErrInvalidEntry
	}
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *memStore) ListByProduct(productID int64) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for _, e := range m.entries {
		if e.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) ListAll() ([]*entity.LedgerEntry, error) {
	out := make([]*entity.LedgerEntry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) Get(productID int64) (*entity.ValuationState, error) {
	s, ok := m.valuations[productID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *memStore) GetForUpdate(productID int64) (*entity.ValuationState, error) {
	return m.Get(productID)
}

func (m *memStore) Upsert(state *entity.ValuationState) error {
	cp := *state
	m.valuations[state.ProductID] = &cp
	return nil
}

func (m *memStore) ReplaceAll(states []*entity.ValuationState) error {
	m.valuations = make(map[int64]*entity.ValuationState, len(states))
	for _, s := range states {
		cp := *s
		m.valuations[s.ProductID] = &cp
	}
	return nil
}

func setup(t *testing.T) (*inventory.UseCase, *catalog.UseCase, *memStore) {
	t.Helper()
	store := newMemStore()
	catalogUC := catalog.NewUseCase(store, store)
	return inventory.NewUseCase(store, catalogUC), catalogUC, store
}

var hoy = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// ──────────────────────────────────────────────────────────────────────────────
// Tests ReceiveStock / ConsumeStock
// ──────────────────────────────────────────────────────────────────────────────

// Flujo completo con el producto resuelto por nombre y por id, verificando libro
// y valoración tras cada operación.
func TestInventario_FlujoRecepcionYConsumo(t *testing.T) {
	uc, catalogUC, store := setup(t)
	ctx := context.Background()

	p, err := catalogUC.Register(ctx, "Azúcar")
	require.NoError(t, err)

	// Recepción por nombre: 100 unidades por 500.
	res, err := uc.ReceiveStock(ctx, "azúcar", 100, 500, hoy)
	require.NoError(t, err)
	assert.Equal(t, p.ID, res.State.ProductID)
	assert.Equal(t, 100.0, res.State.TotalQuantity)
	assert.Equal(t, 5.0, res.State.AveragePrice)

	// Segunda recepción por id: 50 por 300 mueve el promedio.
	res, err = uc.ReceiveStock(ctx, "1", 50, 300, hoy.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.State.TotalQuantity)
	assert.InDelta(t, 5.333333333333333, res.State.AveragePrice, 1e-12)
	assert.Equal(t, 6.0, res.State.HighestPrice)

	// Consumo de fábrica: el costo sale del promedio vigente, no del cliente.
	promedio := res.State.AveragePrice
	res, err = uc.ConsumeStock(ctx, "azúcar", 30, hoy.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 120.0, res.State.TotalQuantity)
	assert.InDelta(t, promedio, res.State.AveragePrice, 1e-12)

	// El libro conserva las tres entradas en orden; el consumo va con delta negativo.
	entries, err := uc.Entries(ctx, "azúcar")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, -30.0, entries[2].QuantityDelta)
	assert.InDelta(t, 30*promedio, entries[2].TotalCost, 1e-12)
	assert.NotEmpty(t, entries[2].ID)

	// La valoración persistida coincide con la respuesta.
	persisted, err := store.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, res.State, persisted)
}

func TestReceiveStock_ProductoInexistente(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.ReceiveStock(context.Background(), "fantasma", 10, 50, hoy)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// Cantidad o costo no positivos se rechazan sin tocar libro ni valoración.
func TestReceiveStock_MontosInvalidos(t *testing.T) {
	uc, catalogUC, store := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Harina")
	require.NoError(t, err)

	_, err = uc.ReceiveStock(ctx, "harina", 0, 100, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.ReceiveStock(ctx, "harina", -5, 100, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = uc.ReceiveStock(ctx, "harina", 10, 0, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	assert.Empty(t, store.entries, "ninguna entrada debe llegar al libro")
}

// Stock insuficiente (incluido producto sin movimientos) se rechaza sin mutación.
func TestConsumeStock_StockInsuficiente(t *testing.T) {
	uc, catalogUC, store := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Harina")
	require.NoError(t, err)

	// Sin movimientos todavía.
	_, err = uc.ConsumeStock(ctx, "harina", 1, hoy)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = uc.ReceiveStock(ctx, "harina", 20, 100, hoy)
	require.NoError(t, err)

	_, err = uc.ConsumeStock(ctx, "harina", 25, hoy)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El libro solo tiene la recepción y el estado quedó intacto.
	require.Len(t, store.entries, 1)
	state, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, state.TotalQuantity)
}

func TestConsumeStock_CantidadInvalida(t *testing.T) {
	uc, catalogUC, _ := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Harina")
	require.NoError(t, err)

	_, err = uc.ConsumeStock(ctx, "harina", 0, hoy)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Lookup
// ──────────────────────────────────────────────────────────────────────────────

// Un producto registrado pero sin movimientos no tiene valoración que consultar.
func TestLookup_SinMovimientos(t *testing.T) {
	uc, catalogUC, _ := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Azúcar")
	require.NoError(t, err)

	_, err = uc.Lookup(ctx, "azúcar")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestLookup_DevuelveProductoYEstado(t *testing.T) {
	uc, catalogUC, _ := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Azúcar")
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, "azúcar", 100, 500, hoy)
	require.NoError(t, err)

	res, err := uc.Lookup(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "azúcar", res.Product.Name)
	assert.Equal(t, 100.0, res.State.TotalQuantity)
	assert.Equal(t, 5.0, res.State.AveragePrice)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RebuildValuations
// ──────────────────────────────────────────────────────────────────────────────

// Reconstruir desde el libro reproduce exactamente el estado incremental, incluso
// después de descartar la vista materializada (simula el fallo entre append y upsert).
func TestRebuildValuations_ReproduceEstadoIncremental(t *testing.T) {
	uc, catalogUC, store := setup(t)
	ctx := context.Background()

	_, err := catalogUC.Register(ctx, "Azúcar")
	require.NoError(t, err)
	_, err = catalogUC.Register(ctx, "Harina")
	require.NoError(t, err)

	_, err = uc.ReceiveStock(ctx, "azúcar", 100, 500, hoy)
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, "harina", 30, 90, hoy)
	require.NoError(t, err)
	_, err = uc.ReceiveStock(ctx, "azúcar", 50, 300, hoy.AddDate(0, 0, 1))
	require.NoError(t, err)
	_, err = uc.ConsumeStock(ctx, "azúcar", 30, hoy.AddDate(0, 0, 2))
	require.NoError(t, err)

	incremental := map[int64]*entity.ValuationState{}
	for id := int64(1); id <= 2; id++ {
		s, err := store.Get(id)
		require.NoError(t, err)
		incremental[id] = s
	}

	// Vista materializada perdida: solo sobrevive el libro.
	store.valuations = make(map[int64]*entity.ValuationState)

	n, err := uc.RebuildValuations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id := int64(1); id <= 2; id++ {
		rebuilt, err := store.Get(id)
		require.NoError(t, err)
		assert.Equal(t, incremental[id], rebuilt, "producto %d", id)
	}
}

func TestRebuildValuations_LibroVacio(t *testing.T) {
	uc, _, _ := setup(t)

	n, err := uc.RebuildValuations(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
