package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceKey identifica un saldo de inventario: parte, lote, ubicación y estado de calidad.
// Todos los ids referencian datos maestros administrados fuera del núcleo.
type BalanceKey struct {
	PartID     int64
	LotID      int64
	LocationID int64
	StatusID   int64
}

// StockBalance representa la cantidad actual en existencia para una clave del kardex.
// La fila se crea implícitamente en cero con el primer movimiento y nunca se elimina;
// la cantidad jamás es negativa, ni siquiera dentro de una transacción sin confirmar.
type StockBalance struct {
	ID        int64
	Key       BalanceKey
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
