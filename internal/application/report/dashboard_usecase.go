package report

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

const dashboardRecentTransactions = 5 // transacciones en el widget de actividad reciente

// DashboardUseCase genera el resumen del panel principal.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	txRepo      repository.StockTransactionRepository
	lang        language.Tag
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(productRepo repository.ProductRepository, txRepo repository.StockTransactionRepository, lang language.Tag) *DashboardUseCase {
	return &DashboardUseCase{productRepo: productRepo, txRepo: txRepo, lang: lang}
}

// GetSummary totales del catálogo activo, productos a reponer y actividad reciente.
//
// Dos consultas en paralelo:
//  1. productos no archivados  → totales + productos bajo el mínimo
//  2. últimas transacciones    → actividad reciente
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	type productsResult struct {
		list []*entity.Product
		err  error
	}
	type txResult struct {
		list []*entity.StockTransaction
		err  error
	}

	productsCh := make(chan productsResult, 1)
	txCh := make(chan txResult, 1)

	go func() {
		list, _, err := uc.productRepo.List(ctx, repository.ProductFilter{})
		productsCh <- productsResult{list, err}
	}()
	go func() {
		list, _, err := uc.txRepo.List(ctx, repository.TransactionFilter{Limit: dashboardRecentTransactions})
		txCh <- txResult{list, err}
	}()

	products := <-productsCh
	recent := <-txCh
	if products.err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", products.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: transacciones recientes: %w", recent.err)
	}

	sortByName(products.list, uc.lang)
	sum := summarize(products.list)
	out := &dto.DashboardSummaryDTO{
		TotalProducts:      sum.products,
		TotalStockValue:    sum.value,
		TotalStockItems:    sum.items,
		LowStockCount:      sum.low,
		OutOfStockCount:    sum.out,
		LowStockProducts:   []dto.LowStockProductDTO{},
		RecentTransactions: make([]dto.TransactionResponse, 0, len(recent.list)),
	}
	for _, p := range products.list {
		st := stock.StatusOf(p.CurrentStock, p.MinStock)
		if st == stock.StatusAvailable {
			continue
		}
		out.LowStockProducts = append(out.LowStockProducts, dto.LowStockProductDTO{
			ProductID:         p.ID,
			SKU:               p.SKU,
			Name:              p.Name,
			CurrentStock:      p.CurrentStock,
			MinStock:          p.MinStock,
			Status:            string(st),
			SuggestedOrderQty: stock.SuggestedReorder(p.CurrentStock, p.MinStock),
		})
	}
	// Agotados primero; el orden por nombre se conserva dentro de cada grupo.
	sort.SliceStable(out.LowStockProducts, func(i, j int) bool {
		return out.LowStockProducts[i].CurrentStock == 0 && out.LowStockProducts[j].CurrentStock != 0
	})
	for _, t := range recent.list {
		out.RecentTransactions = append(out.RecentTransactions, dto.NewTransactionResponse(t))
	}
	return out, nil
}
