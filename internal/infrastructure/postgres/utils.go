package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// whereBuilder arma cláusulas WHERE con placeholders numerados ($1, $2...).
type whereBuilder struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" se reemplaza por el siguiente placeholder.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET si limit > 0 y devuelve el sufijo SQL junto con los argumentos.
func (w *whereBuilder) page(limit, offset int) (string, []any) {
	args := append([]any(nil), w.args...)
	if limit <= 0 {
		return "", args
	}
	args = append(args, limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}
