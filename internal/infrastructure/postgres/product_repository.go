package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
	"github.com/jhoicas/gudang-api/internal/domain/stock"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, category, description, price, unit, min_stock, current_stock, is_archived, created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.SKU, p.Name, p.Category, p.Description, p.Price, p.Unit,
		p.MinStock, p.CurrentStock, p.IsArchived, nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU (sin distinguir mayúsculas).
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE upper(sku) = upper($1)`, sku)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE). Usar dentro de una tx.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza metadatos. No modifica sku, current_stock ni is_archived.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, category = $3, description = $4, price = $5, unit = $6, min_stock = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Category, p.Description, p.Price, p.Unit, p.MinStock, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStock fija current_stock (solo lo usa el libro de stock, dentro de su tx).
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, currentStock int64, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $2, updated_at = $3 WHERE id = $1`,
		productID, currentStock, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetArchived marca o desmarca el producto como archivado.
func (r *ProductRepo) SetArchived(ctx context.Context, productID string, archived bool, updatedAt time.Time) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET is_archived = $2, updated_at = $3 WHERE id = $1`,
		productID, archived, updatedAt,
	)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra y pagina, del más reciente al más antiguo. El estado se evalúa en SQL con la misma
// regla que stock.StatusOf.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, int, error) {
	var w whereBuilder
	if !f.IncludeArchived {
		w.add("is_archived = false")
	}
	if f.Category != "" {
		w.add("lower(category) = lower(?)", f.Category)
	}
	switch f.Status {
	case stock.StatusOutOfStock:
		w.add("current_stock <= 0")
	case stock.StatusLowStock:
		w.add("current_stock > 0 AND current_stock <= min_stock")
	case stock.StatusAvailable:
		w.add("current_stock > min_stock")
	}
	if f.PriceMin != nil {
		w.add("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		w.add("price <= ?", *f.PriceMax)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		w.add("(lower(sku) LIKE ? OR lower(name) LIKE ? OR lower(category) LIKE ?)", like, like, like)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	suffix, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+w.sql()+` ORDER BY created_at DESC, id`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p         entity.Product
		createdBy *string
	)
	err := row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Category, &p.Description, &p.Price, &p.Unit,
		&p.MinStock, &p.CurrentStock, &p.IsArchived, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}

// nullable convierte "" en NULL para columnas uuid opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
