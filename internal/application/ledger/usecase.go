package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

// Options límites configurables del libro.
type Options struct {
	MaxQuantity      int64
	AllowedPageSizes []int
	DefaultPageSize  int
}

// DefaultOptions valores usados cuando no hay configuración.
func DefaultOptions() Options {
	return Options{
		MaxQuantity:      stock.DefaultMaxQuantity,
		AllowedPageSizes: []int{10, 20, 50},
		DefaultPageSize:  20,
	}
}

// StockLedger registra entradas, salidas y ajustes de stock de forma transaccional.
// Cada registro valida, bloquea la fila del producto (GetForUpdate), actualiza current_stock
// y agrega la transacción dentro de la misma tx; si algo falla no queda nada escrito.
type StockLedger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	txRepo      repository.StockTransactionRepository
	metrics     Recorder
	log         *logger.Logger
	opts        Options
	now         func() time.Time
}

// NewStockLedger construye el caso de uso. metrics y log pueden ser nil.
func NewStockLedger(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	metrics Recorder,
	log *logger.Logger,
	opts Options,
) *StockLedger {
	if metrics == nil {
		metrics = nopRecorder{}
	}
	def := DefaultOptions()
	if opts.MaxQuantity <= 0 {
		opts.MaxQuantity = def.MaxQuantity
	}
	if len(opts.AllowedPageSizes) == 0 {
		opts.AllowedPageSizes = def.AllowedPageSizes
	}
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = def.DefaultPageSize
	}
	return &StockLedger{
		txRunner:    txRunner,
		productRepo: productRepo,
		txRepo:      txRepo,
		metrics:     metrics,
		log:         log.Component("stock_ledger"),
		opts:        opts,
		now:         time.Now,
	}
}

// RecordIn registra una entrada: current_stock += quantity.
func (uc *StockLedger) RecordIn(ctx context.Context, actor dto.Actor, in dto.InTransactionRequest) (*dto.TransactionResponse, error) {
	mv := stock.Movement{
		Type:      entity.TransactionIn,
		Quantity:  in.Quantity,
		Reference: strings.TrimSpace(in.Reference),
		Notes:     strings.TrimSpace(in.Notes),
	}
	return uc.record(ctx, actor, in.ProductID, mv, in.TransactionDate.Time)
}

// RecordOut registra una salida. Falla con InsufficientStockError si quantity supera el stock
// observado bajo el bloqueo.
func (uc *StockLedger) RecordOut(ctx context.Context, actor dto.Actor, in dto.OutTransactionRequest) (*dto.TransactionResponse, error) {
	mv := stock.Movement{
		Type:      entity.TransactionOut,
		Quantity:  in.Quantity,
		Reference: strings.TrimSpace(in.Reference),
		Notes:     strings.TrimSpace(in.Notes),
	}
	return uc.record(ctx, actor, in.ProductID, mv, in.TransactionDate.Time)
}

// RecordAdjustment registra un ajuste con signo. Requiere motivo y notas (10..500).
// Falla con InvalidAdjustmentError si el stock quedaría negativo.
func (uc *StockLedger) RecordAdjustment(ctx context.Context, actor dto.Actor, in dto.AdjustmentRequest) (*dto.TransactionResponse, error) {
	mv := stock.Movement{
		Type:      entity.TransactionAdjustment,
		Quantity:  in.Quantity,
		Reason:    entity.AdjustmentReason(strings.TrimSpace(in.Reason)),
		Reference: strings.TrimSpace(in.Reference),
		Notes:     strings.TrimSpace(in.Notes),
	}
	return uc.record(ctx, actor, in.ProductID, mv, in.TransactionDate.Time)
}

func (uc *StockLedger) record(ctx context.Context, actor dto.Actor, productID string, mv stock.Movement, date time.Time) (*dto.TransactionResponse, error) {
	start := uc.now()
	op := "record_" + string(mv.Type)
	defer func() { uc.metrics.ObserveOperation(op, time.Since(start)) }()

	productID = strings.TrimSpace(productID)
	if err := uc.validate(productID, mv, date); err != nil {
		return nil, uc.reject(productID, mv, err)
	}

	var created *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(
		txRepo repository.StockTransactionRepository,
		productRepo repository.ProductRepository,
		auditRepo repository.AuditLogRepository,
	) error {
		// Bloquea la fila del producto hasta el commit: validación y escritura son atómicas.
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return fmt.Errorf("leer producto: %w", err)
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		if product.IsArchived {
			return domain.ErrProductArchived
		}

		before := product.CurrentStock
		after, err := mv.Apply(product.ID, before)
		if err != nil {
			return err
		}

		now := uc.now().UTC()
		if err := productRepo.UpdateStock(ctx, product.ID, after, now); err != nil {
			return fmt.Errorf("actualizar stock: %w", err)
		}

		t := &entity.StockTransaction{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			Type:            mv.Type,
			Quantity:        mv.Quantity,
			Reason:          mv.Reason,
			Reference:       mv.Reference,
			Notes:           mv.Notes,
			StockAfter:      after,
			TransactionDate: date,
			CreatedBy:       actor.UserID,
			CreatedAt:       now,
		}
		if err := txRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("guardar transacción: %w", err)
		}

		if err := auditRepo.Create(ctx, stockAudit(actor, t, before, now)); err != nil {
			return fmt.Errorf("guardar auditoría: %w", err)
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, uc.reject(productID, mv, err)
	}

	uc.metrics.TransactionRecorded(created.Type)
	uc.log.Info().
		Str("product_id", created.ProductID).
		Str("type", string(created.Type)).
		Int64("quantity", created.Quantity).
		Int64("stock_after", created.StockAfter).
		Str("transaction_id", created.ID).
		Msg("transacción de stock registrada")

	out := dto.NewTransactionResponse(created)
	return &out, nil
}

func (uc *StockLedger) validate(productID string, mv stock.Movement, date time.Time) error {
	if productID == "" {
		return domain.NewValidationError("product_id", "requerido")
	}
	if err := mv.Validate(uc.opts.MaxQuantity); err != nil {
		return err
	}
	if date.IsZero() {
		return domain.NewValidationError("transaction_date", "requerida")
	}
	return nil
}

func (uc *StockLedger) reject(productID string, mv stock.Movement, err error) error {
	kind := domain.KindOf(err)
	uc.metrics.TransactionRejected(kind)
	ev := uc.log.Warn()
	if kind == domain.KindInternal {
		ev = uc.log.Error()
	}
	ev.Err(err).
		Str("product_id", productID).
		Str("type", string(mv.Type)).
		Int64("quantity", mv.Quantity).
		Str("kind", kind).
		Msg("transacción de stock rechazada")
	return err
}

func stockAudit(actor dto.Actor, t *entity.StockTransaction, before int64, at time.Time) *entity.AuditLog {
	action := entity.AuditStockIn
	switch t.Type {
	case entity.TransactionOut:
		action = entity.AuditStockOut
	case entity.TransactionAdjustment:
		action = entity.AuditStockAdjustment
	}
	oldValues, _ := json.Marshal(map[string]any{"current_stock": before})
	newValues, _ := json.Marshal(map[string]any{
		"current_stock":  t.StockAfter,
		"transaction_id": t.ID,
		"type":           t.Type,
		"quantity":       t.Quantity,
		"reason":         t.Reason,
	})
	return &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     actor.UserID,
		Action:     action,
		EntityType: "product",
		EntityID:   t.ProductID,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  actor.IPAddress,
		Status:     "success",
		CreatedAt:  at,
	}
}

// GetCurrentStock devuelve el stock actual y su estado derivado. Lectura pura.
func (uc *StockLedger) GetCurrentStock(ctx context.Context, productID string) (*dto.StockLevelResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, strings.TrimSpace(productID))
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return &dto.StockLevelResponse{
		ProductID:    product.ID,
		CurrentStock: product.CurrentStock,
		MinStock:     product.MinStock,
		Status:       string(stock.StatusOf(product.CurrentStock, product.MinStock)),
	}, nil
}

// GetHistory devuelve una página del historial del producto, de la más reciente a la más antigua.
// page es 1-based; pageSize 0 usa el valor por defecto. Una página fuera de rango devuelve Data vacío.
func (uc *StockLedger) GetHistory(ctx context.Context, productID string, page, pageSize int) (*dto.PageResponse[dto.TransactionResponse], error) {
	if pageSize == 0 {
		pageSize = uc.opts.DefaultPageSize
	}
	if err := uc.checkPage(page, pageSize); err != nil {
		return nil, err
	}
	productID = strings.TrimSpace(productID)
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return uc.listPage(ctx, repository.TransactionFilter{ProductID: product.ID}, page, pageSize)
}

// ListTransactions feed global de transacciones con filtros opcionales por tipo y producto.
func (uc *StockLedger) ListTransactions(ctx context.Context, in dto.TransactionListRequest) (*dto.PageResponse[dto.TransactionResponse], error) {
	in.DefaultPage(uc.opts.DefaultPageSize)
	if err := uc.checkPage(in.Page, in.Limit); err != nil {
		return nil, err
	}
	filter := repository.TransactionFilter{ProductID: strings.TrimSpace(in.ProductID)}
	if in.Type != "" {
		t := entity.TransactionType(in.Type)
		if !t.Valid() {
			return nil, domain.NewValidationError("type", "debe ser in, out o adjustment")
		}
		filter.Type = t
	}
	return uc.listPage(ctx, filter, in.Page, in.Limit)
}

func (uc *StockLedger) checkPage(page, pageSize int) error {
	if page < 1 {
		return domain.NewValidationError("page", "debe ser al menos 1")
	}
	for _, n := range uc.opts.AllowedPageSizes {
		if n == pageSize {
			return nil
		}
	}
	return domain.NewValidationError("page_size", fmt.Sprintf("debe ser uno de %v", uc.opts.AllowedPageSizes))
}

func (uc *StockLedger) listPage(ctx context.Context, filter repository.TransactionFilter, page, pageSize int) (*dto.PageResponse[dto.TransactionResponse], error) {
	req := dto.PageRequest{Page: page, Limit: pageSize}
	filter.Limit = req.Limit
	filter.Offset = req.Offset()
	list, total, err := uc.txRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar transacciones: %w", err)
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.NewTransactionResponse(t))
	}
	return &dto.PageResponse[dto.TransactionResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, page, pageSize),
	}, nil
}
