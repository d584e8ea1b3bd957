package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/application/usecase"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/infrastructure/memory"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

var admin = dto.Actor{UserID: "u-admin", Role: entity.RoleAdmin, IPAddress: "10.0.0.1"}

func newProductUseCase(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	db := memory.NewStore()
	audit := usecase.NewAuditRecorder(db.AuditLogs(), logger.Nop())
	return usecase.NewProductUseCase(db.Products(), audit, logger.Nop()), db
}

func validProduct(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:      sku,
		Name:     "Arroz Diana 500g",
		Category: "Granos",
		Price:    decimal.RequireFromString("3200.50"),
		Unit:     "pcs",
		MinStock: 10,
	}
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestProductUseCase_Create_StockEnCeroYEstadoDerivado(t *testing.T) {
	uc, db := newProductUseCase(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, admin, validProduct(" ARR-500 "))
	require.NoError(t, err)
	assert.Equal(t, "ARR-500", p.SKU)
	assert.Equal(t, int64(0), p.CurrentStock)
	assert.Equal(t, "out-of-stock", p.Status)
	assert.False(t, p.IsArchived)
	assert.Equal(t, admin.UserID, p.CreatedBy)

	logs, total, err := db.AuditLogs().List(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, entity.AuditProductCreate, logs[0].Action)
}

func TestProductUseCase_Create_Validaciones(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateProductRequest){
		"sku corto":          func(r *dto.CreateProductRequest) { r.SKU = "AB" },
		"sku con espacios":   func(r *dto.CreateProductRequest) { r.SKU = "AB C" },
		"sku en minúsculas":  func(r *dto.CreateProductRequest) { r.SKU = "arr-500" },
		"sku mixto":          func(r *dto.CreateProductRequest) { r.SKU = "Arr-500" },
		"nombre corto":       func(r *dto.CreateProductRequest) { r.Name = "Ab" },
		"sin categoría":      func(r *dto.CreateProductRequest) { r.Category = " " },
		"sin unidad":         func(r *dto.CreateProductRequest) { r.Unit = "" },
		"precio cero":        func(r *dto.CreateProductRequest) { r.Price = decimal.Zero },
		"tres decimales":     func(r *dto.CreateProductRequest) { r.Price = decimal.RequireFromString("1.005") },
		"min_stock negativo": func(r *dto.CreateProductRequest) { r.MinStock = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validProduct("VAL-001")
			mutate(&req)
			_, err := uc.Create(ctx, admin, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUseCase_Create_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, admin, validProduct("DUP-1"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, validProduct(" DUP-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// ─── Update / Archive ────────────────────────────────────────────────────────

func TestProductUseCase_Update_NoTocaStock(t *testing.T) {
	uc, db := newProductUseCase(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, admin, validProduct("UPD-1"))
	require.NoError(t, err)
	require.NoError(t, db.Products().UpdateStock(ctx, p.ID, 4, p.UpdatedAt))

	minStock := int64(2)
	name := "Arroz Roa 500g"
	updated, err := uc.Update(ctx, admin, p.ID, dto.UpdateProductRequest{Name: &name, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, int64(4), updated.CurrentStock)
	assert.Equal(t, "available", updated.Status)

	bad := decimal.Zero
	_, err = uc.Update(ctx, admin, p.ID, dto.UpdateProductRequest{Price: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, admin, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_Archive_Idempotente(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	p, err := uc.Create(ctx, admin, validProduct("ARC-1"))
	require.NoError(t, err)

	first, err := uc.Archive(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.True(t, first.IsArchived)
	second, err := uc.Archive(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.True(t, second.IsArchived)

	page, err := uc.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	assert.Empty(t, page.Data, "los archivados no aparecen por defecto")

	page, err = uc.List(ctx, dto.ProductListRequest{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
}

// ─── List ────────────────────────────────────────────────────────────────────

func TestProductUseCase_List_Filtros(t *testing.T) {
	uc, _ := newProductUseCase(t)
	ctx := context.Background()

	cheap := validProduct("CHP-1")
	cheap.Price = decimal.NewFromInt(100)
	_, err := uc.Create(ctx, admin, cheap)
	require.NoError(t, err)
	_, err = uc.Create(ctx, admin, validProduct("EXP-1"))
	require.NoError(t, err)

	page, err := uc.List(ctx, dto.ProductListRequest{PriceMax: "500"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "CHP-1", page.Data[0].SKU)

	page, err = uc.List(ctx, dto.ProductListRequest{Status: "out-of-stock", PageRequest: dto.PageRequest{Page: 1, Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)

	_, err = uc.List(ctx, dto.ProductListRequest{Status: "agotado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(ctx, dto.ProductListRequest{PriceMin: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
