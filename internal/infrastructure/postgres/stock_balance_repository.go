package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo implementación del almacén de saldos sobre PostgreSQL (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// LockForUpdate bloquea la fila del saldo para la clave dada (SELECT FOR UPDATE).
// Si no existe, primero la inserta en cero: el INSERT valida las referencias a
// datos maestros (FK) y la fila recién creada queda bloqueada por el mismo SELECT.
// La espera del bloqueo está acotada por el lock_timeout de la transacción.
func (r *StockBalanceRepo) LockForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	const ins = `
		INSERT INTO stock_balances (part_id, lot_id, location_id, status_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (part_id, lot_id, location_id, status_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, ins, key.PartID, key.LotID, key.LocationID, key.StatusID); err != nil {
		return nil, fmt.Errorf("ensure stock balance: %w", translateError(err))
	}

	const sel = `
		SELECT id, part_id, lot_id, location_id, status_id, quantity, updated_at
		FROM stock_balances
		WHERE part_id = $1 AND lot_id = $2 AND location_id = $3 AND status_id = $4
		FOR UPDATE`
	b, err := scanBalance(r.q.QueryRow(ctx, sel, key.PartID, key.LotID, key.LocationID, key.StatusID))
	if err != nil {
		return nil, fmt.Errorf("lock stock balance: %w", translateError(err))
	}
	return b, nil
}

// UpdateQuantity fija la cantidad de una fila ya bloqueada por LockForUpdate.
func (r *StockBalanceRepo) UpdateQuantity(ctx context.Context, balanceID int64, quantity decimal.Decimal) error {
	const q = `UPDATE stock_balances SET quantity = $2, updated_at = now() WHERE id = $1`
	if _, err := r.q.Exec(ctx, q, balanceID, quantity); err != nil {
		return fmt.Errorf("update stock balance: %w", translateError(err))
	}
	return nil
}

// Get lee el saldo sin bloquear. Una clave sin fila equivale a saldo cero.
func (r *StockBalanceRepo) Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	const q = `
		SELECT id, part_id, lot_id, location_id, status_id, quantity, updated_at
		FROM stock_balances
		WHERE part_id = $1 AND lot_id = $2 AND location_id = $3 AND status_id = $4`
	b, err := scanBalance(r.q.QueryRow(ctx, q, key.PartID, key.LotID, key.LocationID, key.StatusID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{Key: key, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", translateError(err))
	}
	return b, nil
}

// ListByPart lista los saldos de una parte en todas sus claves.
func (r *StockBalanceRepo) ListByPart(ctx context.Context, partID int64) ([]*entity.StockBalance, error) {
	const q = `
		SELECT id, part_id, lot_id, location_id, status_id, quantity, updated_at
		FROM stock_balances
		WHERE part_id = $1
		ORDER BY lot_id, location_id, status_id`
	rows, err := r.q.Query(ctx, q, partID)
	if err != nil {
		return nil, fmt.Errorf("list stock balances: %w", translateError(err))
	}
	defer rows.Close()
	var list []*entity.StockBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock balance: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBalance(row pgxScanner) (*entity.StockBalance, error) {
	var b entity.StockBalance
	err := row.Scan(
		&b.ID, &b.Key.PartID, &b.Key.LotID, &b.Key.LocationID, &b.Key.StatusID,
		&b.Quantity, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
