package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain/entity"
)

// MovementRepository define el puerto del diario de movimientos.
// El diario es de solo inserción: no existen operaciones de edición ni borrado.
type MovementRepository interface {
	// Create persiste el asiento y asigna su ID generado.
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id int64) (*entity.Movement, error)
	ListByPart(ctx context.Context, partID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByLocation(ctx context.Context, locationID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// SumForKey recalcula el saldo de una clave desde el diario: suma los
	// asientos que entran a la clave y resta los que salen de ella.
	SumForKey(ctx context.Context, key entity.BalanceKey) (decimal.Decimal, error)
}
