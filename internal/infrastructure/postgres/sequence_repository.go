package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos de documentos usando secuencias nativas de
// PostgreSQL. nextval() no toma bloqueos de fila y no participa del rollback:
// dos llamadores concurrentes nunca se bloquean entre sí y un valor asignado
// jamás se repite, aunque la transacción que lo pidió se deshaga (quedan huecos).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next asigna el siguiente valor de la secuencia nombrada.
// El nombre viaja como parámetro y se resuelve vía regclass, nunca concatenado.
func (r *SequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	const q = `SELECT nextval($1::regclass)`
	var v int64
	if err := r.q.QueryRow(ctx, q, name).Scan(&v); err != nil {
		return 0, fmt.Errorf("nextval %s: %w", name, translateError(err))
	}
	return v, nil
}
