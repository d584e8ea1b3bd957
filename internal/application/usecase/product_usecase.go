package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/application/dto"
	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
	"github.com/jhoicas/gudang-api/pkg/logger"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

// ProductUseCase casos de uso del catálogo. El stock solo cambia vía el libro de stock.
type ProductUseCase struct {
	repo  repository.ProductRepository
	audit *AuditRecorder
	log   *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, audit *AuditRecorder, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, audit: audit, log: log.Component("product_usecase")}
}

// Create crea un nuevo producto con stock 0.
func (uc *ProductUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	in.Unit = strings.TrimSpace(in.Unit)

	if err := validateSKU(in.SKU); err != nil {
		return nil, err
	}
	if err := validateProductFields(in.Name, in.Category, in.Description, in.Unit, in.Price, in.MinStock); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, fmt.Errorf("buscar sku: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("sku %s: %w", in.SKU, domain.ErrDuplicate)
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		SKU:          in.SKU,
		Name:         in.Name,
		Category:     in.Category,
		Description:  in.Description,
		Price:        in.Price,
		Unit:         in.Unit,
		MinStock:     in.MinStock,
		CurrentStock: 0,
		CreatedBy:    actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, entity.AuditProductCreate, "product", product.ID, nil, toProductResponse(product))
	uc.log.Info().Str("product_id", product.ID).Str("sku", product.SKU).Msg("producto creado")
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("leer producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return product, nil
}

// Update actualiza metadatos. SKU y stock no se editan aquí.
func (uc *ProductUseCase) Update(ctx context.Context, actor dto.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := toProductResponse(product)

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Unit != nil {
		product.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if err := validateProductFields(product.Name, product.Category, product.Description, product.Unit, product.Price, product.MinStock); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	after := toProductResponse(product)
	uc.audit.Record(ctx, actor, entity.AuditProductUpdate, "product", product.ID, before, after)
	return after, nil
}

// Archive marca el producto como archivado. Es idempotente; el historial se conserva.
func (uc *ProductUseCase) Archive(ctx context.Context, actor dto.Actor, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.IsArchived {
		return toProductResponse(product), nil
	}
	product.IsArchived = true
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.SetArchived(ctx, product.ID, true, product.UpdatedAt); err != nil {
		return nil, err
	}
	uc.audit.Record(ctx, actor, entity.AuditProductArchive, "product", product.ID,
		map[string]any{"is_archived": false}, map[string]any{"is_archived": true})
	uc.log.Info().Str("product_id", product.ID).Msg("producto archivado")
	return toProductResponse(product), nil
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.PageResponse[dto.ProductResponse], error) {
	in.DefaultPage(20)
	if in.Limit > 100 {
		return nil, domain.NewValidationError("limit", "máximo 100")
	}
	filter := repository.ProductFilter{
		Search:          strings.TrimSpace(in.Search),
		Category:        strings.TrimSpace(in.Category),
		IncludeArchived: in.IncludeArchived,
		Limit:           in.Limit,
		Offset:          in.Offset(),
	}
	if in.Status != "" {
		st, ok := stock.ParseStatus(in.Status)
		if !ok {
			return nil, domain.NewValidationError("status", "debe ser available, low-stock o out-of-stock")
		}
		filter.Status = st
	}
	var err error
	if filter.PriceMin, err = parseOptionalDecimal("price_min", in.PriceMin); err != nil {
		return nil, err
	}
	if filter.PriceMax, err = parseOptionalDecimal("price_max", in.PriceMax); err != nil {
		return nil, err
	}

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return &dto.PageResponse[dto.ProductResponse]{
		Data:       out,
		Pagination: dto.NewPagination(total, in.Page, in.Limit),
	}, nil
}

func parseOptionalDecimal(field, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, domain.NewValidationError(field, "número inválido")
	}
	return &d, nil
}

func validateSKU(sku string) error {
	n := utf8.RuneCountInString(sku)
	if n < 3 || n > 50 {
		return domain.NewValidationError("sku", "entre 3 y 50 caracteres")
	}
	if !skuPattern.MatchString(sku) {
		return domain.NewValidationError("sku", "solo mayúsculas, dígitos y guiones")
	}
	return nil
}

func validateProductFields(name, category, description, unit string, price decimal.Decimal, minStock int64) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 255 {
		return domain.NewValidationError("name", "entre 3 y 255 caracteres")
	}
	if category == "" {
		return domain.NewValidationError("category", "requerida")
	}
	if utf8.RuneCountInString(category) > 100 {
		return domain.NewValidationError("category", "máximo 100 caracteres")
	}
	if utf8.RuneCountInString(description) > 1000 {
		return domain.NewValidationError("description", "máximo 1000 caracteres")
	}
	if unit == "" {
		return domain.NewValidationError("unit", "requerida")
	}
	if !price.IsPositive() {
		return domain.NewValidationError("price", "debe ser mayor que 0")
	}
	if !price.Round(2).Equal(price) {
		return domain.NewValidationError("price", "máximo 2 decimales")
	}
	if minStock < 0 || minStock > stock.DefaultMaxQuantity {
		return domain.NewValidationError("min_stock", "entre 0 y 999999")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price,
		Unit:         p.Unit,
		MinStock:     p.MinStock,
		CurrentStock: p.CurrentStock,
		Status:       string(stock.StatusOf(p.CurrentStock, p.MinStock)),
		IsArchived:   p.IsArchived,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
