package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/kardex-core/internal/domain"
)

// Códigos de error de PostgreSQL relevantes para el núcleo del kardex.
const (
	codeForeignKeyViolation   = "23503" // foreign_key_violation
	codeUniqueViolation       = "23505" // unique_violation
	codeCheckViolation        = "23514" // check_violation (quantity >= 0)
	codeLockNotAvailable      = "55P03" // lock_not_available (lock_timeout vencido)
	codeSequenceLimitExceeded = "2200H" // sequence_generator_limit_exceeded
	codeUndefinedTable        = "42P01" // undefined_table (secuencia inexistente vía regclass)
)

// translateError convierte errores de PostgreSQL en errores de dominio.
// Cualquier otro error se devuelve tal cual para que el caller lo envuelva.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeForeignKeyViolation:
		return domain.ErrReferentialViolation
	case codeUniqueViolation:
		return domain.ErrDuplicate
	case codeCheckViolation:
		// El mutador valida antes de escribir; el CHECK de la tabla es la última línea.
		return domain.ErrInsufficientStock
	case codeLockNotAvailable:
		return domain.ErrLockTimeout
	case codeSequenceLimitExceeded:
		return domain.ErrSequenceExhausted
	case codeUndefinedTable:
		return domain.ErrNotFound
	}
	return err
}
