package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain/entity"
)

// StockBalanceRepository define el puerto del almacén de saldos.
// Solo el mutador de stock escribe a través de este puerto, siempre dentro
// de una transacción: el invariante "el saldo es la suma de sus movimientos"
// le pertenece a él.
type StockBalanceRepository interface {
	// LockForUpdate bloquea la fila del saldo (SELECT FOR UPDATE), creándola
	// en cero bajo el mismo bloqueo si no existe todavía.
	LockForUpdate(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	// UpdateQuantity fija la nueva cantidad de una fila ya bloqueada.
	UpdateQuantity(ctx context.Context, balanceID int64, quantity decimal.Decimal) error
	// Get lee el saldo sin bloquear; devuelve cantidad cero si la fila no existe.
	Get(ctx context.Context, key entity.BalanceKey) (*entity.StockBalance, error)
	ListByPart(ctx context.Context, partID int64) ([]*entity.StockBalance, error)
}
