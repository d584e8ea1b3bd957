package memory

import (
	"context"

	"github.com/jhoicas/gudang-api/internal/application/ledger"
	"github.com/jhoicas/gudang-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con un único escritor a la vez. Las filas tocadas se copian a un
// estado en preparación que se publica solo si fn termina sin error.
type TxRunner struct {
	db *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(db *Store) *TxRunner {
	return &TxRunner{db: db}
}

// Run toma el bloqueo de escritura, ejecuta fn y publica los cambios o los descarta.
func (r *TxRunner) Run(ctx context.Context, fn func(
	txRepo repository.StockTransactionRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditLogRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.writeMu.Lock()
	defer r.db.writeMu.Unlock()

	// writeMu excluye a cualquier otro escritor: base no cambia mientras dura la tx.
	staged := r.db.st.stage()

	v := view{db: r.db, staged: staged}
	if err := fn(&StockTransactionRepo{v}, &ProductRepo{v}, &AuditLogRepo{v}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	staged.publish()
	r.db.mu.Unlock()
	return nil
}
