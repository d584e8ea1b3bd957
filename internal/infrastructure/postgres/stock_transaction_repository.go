package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const transactionColumns = `id, seq, product_id, type, quantity, reason, reference, notes, stock_after, transaction_date, created_by, created_at`

// StockTransactionRepo log append-only de transacciones. seq (bigserial) da el orden de inserción.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create inserta la transacción y asigna Seq desde la secuencia.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (id, product_id, type, quantity, reason, reference, notes, stock_after, transaction_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.ProductID, string(t.Type), t.Quantity, nullable(string(t.Reason)),
		t.Reference, t.Notes, t.StockAfter, t.TransactionDate, nullable(t.CreatedBy), t.CreatedAt,
	).Scan(&t.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

// GetByID obtiene una transacción por ID.
func (r *StockTransactionRepo) GetByID(ctx context.Context, id string) (*entity.StockTransaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM stock_transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock transaction: %w", err)
	}
	return t, nil
}

// List de la más reciente a la más antigua (seq DESC).
func (r *StockTransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	w := transactionWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM stock_transactions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock transactions: %w", err)
	}

	suffix, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+` FROM stock_transactions`+w.sql()+` ORDER BY seq DESC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockTransaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// SumByType suma quantity agrupando por tipo (ignora paginación).
func (r *StockTransactionRepo) SumByType(ctx context.Context, f repository.TransactionFilter) (map[entity.TransactionType]int64, error) {
	w := transactionWhere(f)
	rows, err := r.q.Query(ctx, `SELECT type, COALESCE(SUM(quantity), 0) FROM stock_transactions`+w.sql()+` GROUP BY type`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("sum stock transactions: %w", err)
	}
	defer rows.Close()
	sums := make(map[entity.TransactionType]int64)
	for rows.Next() {
		var (
			typ string
			sum int64
		)
		if err := rows.Scan(&typ, &sum); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		sums[entity.TransactionType(typ)] = sum
	}
	return sums, rows.Err()
}

func transactionWhere(f repository.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	if f.ProductID != "" {
		w.add("product_id = ?", f.ProductID)
	}
	if f.Type != "" {
		w.add("type = ?", string(f.Type))
	}
	if f.From != nil {
		w.add("transaction_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("transaction_date <= ?", *f.To)
	}
	return w
}

func scanTransaction(row pgx.Row) (*entity.StockTransaction, error) {
	var (
		t         entity.StockTransaction
		typ       string
		reason    *string
		createdBy *string
	)
	err := row.Scan(
		&t.ID, &t.Seq, &t.ProductID, &typ, &t.Quantity, &reason, &t.Reference, &t.Notes,
		&t.StockAfter, &t.TransactionDate, &createdBy, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	if reason != nil {
		t.Reason = entity.AdjustmentReason(*reason)
	}
	if createdBy != nil {
		t.CreatedBy = *createdBy
	}
	return &t, nil
}
