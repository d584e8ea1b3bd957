package stock_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Validate: reglas independientes del stock actual
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_EntradaYSalida(t *testing.T) {
	for _, typ := range []entity.TransactionType{entity.TransactionIn, entity.TransactionOut} {
		ok := stock.Movement{Type: typ, Quantity: 1}
		assert.NoError(t, ok.Validate(0))

		top := stock.Movement{Type: typ, Quantity: stock.DefaultMaxQuantity}
		assert.NoError(t, top.Validate(0), "el tope 999999 es inclusivo")

		for _, q := range []int64{0, -3, stock.DefaultMaxQuantity + 1} {
			err := stock.Movement{Type: typ, Quantity: q}.Validate(0)
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad %d debe rechazarse", q)
		}
	}
}

func TestValidate_Ajuste(t *testing.T) {
	base := stock.Movement{
		Type:     entity.TransactionAdjustment,
		Quantity: -2,
		Reason:   entity.ReasonDamage,
		Notes:    "caja aplastada en recepción",
	}
	require.NoError(t, base.Validate(0))

	zero := base
	zero.Quantity = 0
	assert.ErrorIs(t, zero.Validate(0), domain.ErrInvalidInput)

	noReason := base
	noReason.Reason = ""
	err := noReason.Validate(0)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "reason", vErr.Field)

	badReason := base
	badReason.Reason = "robo"
	assert.ErrorIs(t, badReason.Validate(0), domain.ErrInvalidInput)

	shortNotes := base
	shortNotes.Notes = "corto"
	require.True(t, errors.As(shortNotes.Validate(0), &vErr))
	assert.Equal(t, "notes", vErr.Field)

	// 10 runas con acentos cuentan como 10 caracteres, no como bytes.
	accented := base
	accented.Notes = "áéíóúáéíóú"
	assert.NoError(t, accented.Validate(0))
}

func TestValidate_LongitudesDeTexto(t *testing.T) {
	m := stock.Movement{Type: entity.TransactionIn, Quantity: 1, Reference: strings.Repeat("x", 101)}
	assert.ErrorIs(t, m.Validate(0), domain.ErrInvalidInput)

	m = stock.Movement{Type: entity.TransactionIn, Quantity: 1, Notes: strings.Repeat("x", 501)}
	assert.ErrorIs(t, m.Validate(0), domain.ErrInvalidInput)
}

func TestValidate_TipoDesconocido(t *testing.T) {
	err := stock.Movement{Type: "transfer", Quantity: 1}.Validate(0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Apply: reglas contra el stock observado
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_SalidaInsuficienteReportaDisponible(t *testing.T) {
	next, err := stock.Movement{Type: entity.TransactionOut, Quantity: 12}.Apply("p1", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), next, "en error el stock no cambia")

	var isErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &isErr))
	assert.Equal(t, int64(10), isErr.Available)
	assert.Equal(t, int64(12), isErr.Requested)
}

func TestApply_SalidaExacta(t *testing.T) {
	next, err := stock.Movement{Type: entity.TransactionOut, Quantity: 10}.Apply("p1", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

func TestApply_AjusteNegativo(t *testing.T) {
	adj := stock.Movement{Type: entity.TransactionAdjustment, Quantity: -1}
	_, err := adj.Apply("p1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAdjustment)

	next, err := stock.Movement{Type: entity.TransactionAdjustment, Quantity: -2}.Apply("p1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), next)

	next, err = stock.Movement{Type: entity.TransactionAdjustment, Quantity: 7}.Apply("p1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), next)
}

func TestReplay_SumaEfectosConSigno(t *testing.T) {
	txs := []*entity.StockTransaction{
		{Type: entity.TransactionIn, Quantity: 10},
		{Type: entity.TransactionOut, Quantity: 4},
		{Type: entity.TransactionAdjustment, Quantity: -3},
		{Type: entity.TransactionAdjustment, Quantity: 2},
	}
	assert.Equal(t, int64(5), stock.Replay(0, txs))
	assert.Equal(t, int64(105), stock.Replay(100, txs))
}
