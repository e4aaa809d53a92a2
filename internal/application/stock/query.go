package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// LedgerQuery consultas de solo lectura sobre saldos y diario, fuera de
// transacción (repositorios atados al pool).
type LedgerQuery struct {
	balanceRepo repository.StockBalanceRepository
	movRepo     repository.MovementRepository
}

// NewLedgerQuery construye el caso de uso de consulta.
func NewLedgerQuery(balanceRepo repository.StockBalanceRepository, movRepo repository.MovementRepository) *LedgerQuery {
	return &LedgerQuery{balanceRepo: balanceRepo, movRepo: movRepo}
}

// GetBalance devuelve el saldo de una clave (cero si nunca ha tenido movimientos).
func (q *LedgerQuery) GetBalance(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	return q.balanceRepo.Get(ctx, key)
}

// ListBalancesByPart lista los saldos de una parte en todas sus claves.
func (q *LedgerQuery) ListBalancesByPart(ctx context.Context, partID int64) ([]*entity.StockBalance, error) {
	return q.balanceRepo.ListByPart(ctx, partID)
}

// ListMovementsByPart lista asientos de una parte, más recientes primero.
func (q *LedgerQuery) ListMovementsByPart(ctx context.Context, partID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movRepo.ListByPart(ctx, partID, from, to, normalizeLimit(limit), offset)
}

// ListMovementsByLocation lista asientos que tocan una ubicación.
func (q *LedgerQuery) ListMovementsByLocation(ctx context.Context, locationID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return q.movRepo.ListByLocation(ctx, locationID, from, to, normalizeLimit(limit), offset)
}

// ReconcileResult compara el saldo almacenado con la suma del diario.
type ReconcileResult struct {
	Key        entity.BalanceKey
	Balance    decimal.Decimal
	JournalSum decimal.Decimal
	Consistent bool
}

// ReconcileBalance recomputa el saldo de una clave desde el diario y lo
// contrasta con la fila de saldos. En todo estado confirmado deben coincidir.
func (q *LedgerQuery) ReconcileBalance(ctx context.Context, key entity.BalanceKey) (ReconcileResult, error) {
	bal, err := q.balanceRepo.Get(ctx, key)
	if err != nil {
		return ReconcileResult{}, err
	}
	sum, err := q.movRepo.SumForKey(ctx, key)
	if err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{
		Key:        key,
		Balance:    bal.Quantity,
		JournalSum: sum,
		Consistent: bal.Quantity.Equal(sum),
	}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 50
	}
	return limit
}
