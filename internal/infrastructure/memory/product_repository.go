package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	v view
}

// Create persiste un nuevo producto. SKU único (sin distinguir mayúsculas).
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.product(product.ID); ok {
			return domain.ErrDuplicate
		}
		if findBySKU(st, product.SKU) != nil {
			return domain.ErrDuplicate
		}
		cp := *product
		st.putProduct(&cp)
		return nil
	})
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		if p, ok := st.product(id); ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	r.v.read(func(st *state) {
		if p := findBySKU(st, sku); p != nil {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func findBySKU(st *state, sku string) *entity.Product {
	for _, id := range st.productOrder {
		if p, _ := st.product(id); strings.EqualFold(p.SKU, sku) {
			return p
		}
	}
	return nil
}

// GetForUpdate en memoria el bloqueo lo da el TxRunner (un escritor a la vez).
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update actualiza metadatos del catálogo.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.v.write(func(st *state) error {
		p, ok := st.productForWrite(product.ID)
		if !ok {
			return domain.ErrNotFound
		}
		p.Name = product.Name
		p.Category = product.Category
		p.Description = product.Description
		p.Price = product.Price
		p.Unit = product.Unit
		p.MinStock = product.MinStock
		p.UpdatedAt = product.UpdatedAt
		return nil
	})
}

// UpdateStock fija current_stock.
func (r *ProductRepo) UpdateStock(_ context.Context, productID string, currentStock int64, updatedAt time.Time) error {
	return r.v.write(func(st *state) error {
		p, ok := st.productForWrite(productID)
		if !ok {
			return domain.ErrNotFound
		}
		p.CurrentStock = currentStock
		p.UpdatedAt = updatedAt
		return nil
	})
}

// SetArchived marca o desmarca el producto como archivado.
func (r *ProductRepo) SetArchived(_ context.Context, productID string, archived bool, updatedAt time.Time) error {
	return r.v.write(func(st *state) error {
		p, ok := st.productForWrite(productID)
		if !ok {
			return domain.ErrNotFound
		}
		p.IsArchived = archived
		p.UpdatedAt = updatedAt
		return nil
	})
}

// List filtra y pagina, del más reciente al más antiguo.
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	var matched []*entity.Product
	r.v.read(func(st *state) {
		for i := len(st.productOrder) - 1; i >= 0; i-- {
			p, _ := st.product(st.productOrder[i])
			if matchProduct(p, filter) {
				cp := *p
				matched = append(matched, &cp)
			}
		}
	})
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

func matchProduct(p *entity.Product, f repository.ProductFilter) bool {
	if p.IsArchived && !f.IncludeArchived {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Status != "" && stock.StatusOf(p.CurrentStock, p.MinStock) != f.Status {
		return false
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.SKU), q) &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return true
}
