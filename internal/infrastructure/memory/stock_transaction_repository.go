package memory

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/domain"
	"github.com/jhoicas/gudang-api/internal/domain/entity"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo log append-only en memoria. El orden del slice es el orden de inserción.
type StockTransactionRepo struct {
	v view
}

// Create agrega la transacción y asigna Seq.
func (r *StockTransactionRepo) Create(_ context.Context, tx *entity.StockTransaction) error {
	return r.v.write(func(st *state) error {
		for _, t := range st.txs {
			if t.ID == tx.ID {
				return domain.ErrDuplicate
			}
		}
		st.seq++
		tx.Seq = st.seq
		cp := *tx
		st.txs = append(st.txs, &cp)
		return nil
	})
}

// GetByID obtiene una transacción por ID.
func (r *StockTransactionRepo) GetByID(_ context.Context, id string) (*entity.StockTransaction, error) {
	var out *entity.StockTransaction
	r.v.read(func(st *state) {
		for _, t := range st.txs {
			if t.ID == id {
				cp := *t
				out = &cp
				return
			}
		}
	})
	return out, nil
}

// List de la más reciente a la más antigua (Seq descendente).
func (r *StockTransactionRepo) List(_ context.Context, filter repository.TransactionFilter) ([]*entity.StockTransaction, int, error) {
	var matched []*entity.StockTransaction
	r.v.read(func(st *state) {
		for i := len(st.txs) - 1; i >= 0; i-- {
			if matchTransaction(st.txs[i], filter) {
				cp := *st.txs[i]
				matched = append(matched, &cp)
			}
		}
	})
	return paginate(matched, filter.Limit, filter.Offset), len(matched), nil
}

// SumByType suma Quantity por tipo sobre las transacciones que cumplen el filtro (ignora paginación).
func (r *StockTransactionRepo) SumByType(_ context.Context, filter repository.TransactionFilter) (map[entity.TransactionType]int64, error) {
	sums := make(map[entity.TransactionType]int64)
	r.v.read(func(st *state) {
		for _, t := range st.txs {
			if matchTransaction(t, filter) {
				sums[t.Type] += t.Quantity
			}
		}
	})
	return sums, nil
}

func matchTransaction(t *entity.StockTransaction, f repository.TransactionFilter) bool {
	if f.ProductID != "" && t.ProductID != f.ProductID {
		return false
	}
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.From != nil && t.TransactionDate.Before(*f.From) {
		return false
	}
	if f.To != nil && t.TransactionDate.After(*f.To) {
		return false
	}
	return true
}
