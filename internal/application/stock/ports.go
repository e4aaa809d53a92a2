package stock

import (
	"context"

	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Commit al retornar nil, Rollback ante error:
// una operación de negocio con varias mutaciones y una asignación de
// consecutivo es todo-o-nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
