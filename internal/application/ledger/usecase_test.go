package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
	"github.com/jhoicas/gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

var actor = dto.Actor{UserID: "u-admin", IPAddress: "127.0.0.1"}

// fakeRecorder cuenta las métricas reportadas por el libro.
type fakeRecorder struct {
	mu       sync.Mutex
	recorded map[entity.TransactionType]int
	rejected map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{recorded: map[entity.TransactionType]int{}, rejected: map[string]int{}}
}

func (f *fakeRecorder) TransactionRecorded(t entity.TransactionType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded[t]++
}

func (f *fakeRecorder) TransactionRejected(kind string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected[kind]++
}

func (f *fakeRecorder) ObserveOperation(string, time.Duration) {}

type fixture struct {
	db      *memory.Store
	uc      *ledger.StockLedger
	metrics *fakeRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := memory.NewStore()
	rec := newFakeRecorder()
	uc := ledger.NewStockLedger(memory.NewTxRunner(db), db.Products(), db.Transactions(), rec, logger.Nop(), ledger.DefaultOptions())
	return &fixture{db: db, uc: uc, metrics: rec}
}

func (f *fixture) addProduct(t *testing.T, id string, current, min int64) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.db.Products().Create(context.Background(), &entity.Product{
		ID: id, SKU: "SKU-" + id, Name: "Producto " + id, Category: "General", Unit: "pcs",
		Price: decimal.NewFromInt(2500), CurrentStock: current, MinStock: min,
		CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *fixture) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	lvl, err := f.uc.GetCurrentStock(context.Background(), id)
	require.NoError(t, err)
	return lvl.CurrentStock
}

func today() dto.Date { return dto.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)} }

func in(id string, qty int64) dto.InTransactionRequest {
	return dto.InTransactionRequest{ProductID: id, Quantity: qty, TransactionDate: today()}
}

func adjust(id string, qty int64) dto.AdjustmentRequest {
	return dto.AdjustmentRequest{
		ProductID: id, Quantity: qty, Reason: string(entity.ReasonDamage),
		Notes: "Caja dañada en recepción", TransactionDate: today(),
	}
}

// ─── Escenario completo ──────────────────────────────────────────────────────

func TestStockLedger_EscenarioSalidaYAjustes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 10, 5)

	_, err := f.uc.RecordOut(ctx, actor, in("p1", 12))
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, int64(10), ise.Available)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"), "el stock no debe cambiar tras el rechazo")

	tx, err := f.uc.RecordOut(ctx, actor, in("p1", 8))
	require.NoError(t, err)
	assert.Equal(t, int64(2), tx.StockAfter)
	lvl, err := f.uc.GetCurrentStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), lvl.CurrentStock)
	assert.Equal(t, string(stock.StatusLowStock), lvl.Status)

	_, err = f.uc.RecordAdjustment(ctx, actor, adjust("p1", -2))
	require.NoError(t, err)
	lvl, err = f.uc.GetCurrentStock(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), lvl.CurrentStock)
	assert.Equal(t, string(stock.StatusOutOfStock), lvl.Status)

	_, err = f.uc.RecordAdjustment(ctx, actor, adjust("p1", -1))
	var iae *domain.InvalidAdjustmentError
	require.ErrorAs(t, err, &iae)
	assert.Equal(t, int64(0), iae.CurrentStock)
	assert.Equal(t, int64(0), f.stockOf(t, "p1"))

	assert.Equal(t, 1, f.metrics.rejected[domain.KindInsufficientStock])
	assert.Equal(t, 1, f.metrics.rejected[domain.KindInvalidAdjustment])
	assert.Equal(t, 1, f.metrics.recorded[entity.TransactionOut])
	assert.Equal(t, 1, f.metrics.recorded[entity.TransactionAdjustment])
}

// ─── Validaciones ────────────────────────────────────────────────────────────

func TestStockLedger_RecordIn_Limites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	_, err := f.uc.RecordIn(ctx, actor, in("p1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordIn(ctx, actor, in("p1", 1_000_000))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tx, err := f.uc.RecordIn(ctx, actor, in("p1", 999_999))
	require.NoError(t, err)
	assert.Equal(t, int64(999_999), tx.StockAfter)
	assert.Equal(t, "in", tx.Type)
	assert.Equal(t, actor.UserID, tx.CreatedBy)
}

func TestStockLedger_ProductoInexistente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.RecordIn(ctx, actor, in("no-existe", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetCurrentStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.GetHistory(ctx, "no-existe", 1, 20)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockLedger_ProductoArchivado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 5, 0)
	require.NoError(t, f.db.Products().SetArchived(ctx, "p1", true, time.Now()))

	_, err := f.uc.RecordIn(ctx, actor, in("p1", 1))
	assert.ErrorIs(t, err, domain.ErrProductArchived)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, int64(5), f.stockOf(t, "p1"))
}

func TestStockLedger_FechaObligatoria(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	req := in("p1", 1)
	req.TransactionDate = dto.Date{}
	_, err := f.uc.RecordIn(context.Background(), actor, req)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "transaction_date", ve.Field)
}

func TestStockLedger_AjusteValidaMotivoYNotas(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 10, 0)

	req := adjust("p1", 3)
	req.Reason = "robo"
	_, err := f.uc.RecordAdjustment(ctx, actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = adjust("p1", 3)
	req.Notes = "corto"
	_, err = f.uc.RecordAdjustment(ctx, actor, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordAdjustment(ctx, actor, adjust("p1", 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tx, err := f.uc.RecordAdjustment(ctx, actor, adjust("p1", 3))
	require.NoError(t, err)
	assert.Equal(t, string(entity.ReasonDamage), tx.Reason)
	assert.Equal(t, int64(13), tx.StockAfter)
}

// ─── Atomicidad y consistencia ───────────────────────────────────────────────

func TestStockLedger_RechazoNoDejaRastro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 3, 0)

	_, err := f.uc.RecordOut(ctx, actor, in("p1", 4))
	require.Error(t, err)

	page, err := f.uc.GetHistory(ctx, "p1", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	_, total, err := f.db.AuditLogs().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "un rechazo no debe auditar")
}

func TestStockLedger_NoEsIdempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	first, err := f.uc.RecordIn(ctx, actor, in("p1", 5))
	require.NoError(t, err)
	second, err := f.uc.RecordIn(ctx, actor, in("p1", 5))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(10), f.stockOf(t, "p1"))
}

func TestStockLedger_StockIgualASumaDeEfectos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	_, err := f.uc.RecordIn(ctx, actor, in("p1", 40))
	require.NoError(t, err)
	_, err = f.uc.RecordOut(ctx, actor, in("p1", 15))
	require.NoError(t, err)
	_, err = f.uc.RecordAdjustment(ctx, actor, adjust("p1", -5))
	require.NoError(t, err)
	_, err = f.uc.RecordAdjustment(ctx, actor, adjust("p1", 2))
	require.NoError(t, err)

	txs, _, err := f.db.Transactions().List(ctx, repository.TransactionFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, f.stockOf(t, "p1"), stock.Replay(0, txs))
	assert.Equal(t, int64(22), f.stockOf(t, "p1"))

	logs, total, err := f.db.AuditLogs().List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, entity.AuditStockAdjustment, logs[0].Action)
}

// ─── Concurrencia ────────────────────────────────────────────────────────────

func TestStockLedger_SalidasConcurrentesNoSobrevenden(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 10, 0)

	const workers = 25
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		rejected  int
		unexpects []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.RecordOut(ctx, actor, in("p1", 1))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				unexpects = append(unexpects, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unexpects)
	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, rejected)
	assert.Equal(t, int64(0), f.stockOf(t, "p1"))
}

// ─── Historial ───────────────────────────────────────────────────────────────

func TestStockLedger_GetHistory_PaginasSinSolape(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)
	f.addProduct(t, "p2", 0, 0)

	for i := 1; i <= 25; i++ {
		req := in("p1", int64(i))
		req.Reference = fmt.Sprintf("REF-%02d", i)
		_, err := f.uc.RecordIn(ctx, actor, req)
		require.NoError(t, err)
	}
	_, err := f.uc.RecordIn(ctx, actor, in("p2", 1))
	require.NoError(t, err)

	first, err := f.uc.GetHistory(ctx, "p1", 1, 20)
	require.NoError(t, err)
	second, err := f.uc.GetHistory(ctx, "p1", 2, 20)
	require.NoError(t, err)

	require.Len(t, first.Data, 20)
	require.Len(t, second.Data, 5)
	assert.Equal(t, 25, first.Pagination.Total)
	assert.Equal(t, 2, first.Pagination.Pages)

	seen := map[string]bool{}
	var refs []string
	for _, tx := range append(first.Data, second.Data...) {
		assert.False(t, seen[tx.ID], "transacción repetida entre páginas")
		seen[tx.ID] = true
		refs = append(refs, tx.Reference)
	}
	assert.Equal(t, "REF-25", refs[0], "la más reciente primero")
	assert.Equal(t, "REF-06", refs[19])
	assert.Equal(t, "REF-05", refs[20])
	assert.Equal(t, "REF-01", refs[24])

	empty, err := f.uc.GetHistory(ctx, "p1", 9, 20)
	require.NoError(t, err)
	assert.Empty(t, empty.Data, "página fuera de rango devuelve vacío")
	assert.Equal(t, 25, empty.Pagination.Total)
}

func TestStockLedger_GetHistory_ValidaPagina(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	_, err := f.uc.GetHistory(ctx, "p1", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.GetHistory(ctx, "p1", 1, 15)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	page, err := f.uc.GetHistory(ctx, "p1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Pagination.Limit, "pageSize 0 usa el valor por defecto")
}

func TestStockLedger_ListTransactions_FiltraPorTipo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addProduct(t, "p1", 0, 0)

	_, err := f.uc.RecordIn(ctx, actor, in("p1", 10))
	require.NoError(t, err)
	_, err = f.uc.RecordOut(ctx, actor, in("p1", 3))
	require.NoError(t, err)

	page, err := f.uc.ListTransactions(ctx, dto.TransactionListRequest{Type: "out"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Data[0].Quantity)

	_, err = f.uc.ListTransactions(ctx, dto.TransactionListRequest{Type: "transfer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
