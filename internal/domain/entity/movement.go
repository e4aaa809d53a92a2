package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	MovementTypeRECEIPT    = "RECEIPT"    // entrada desde el exterior (recepción de mercancía)
	MovementTypeISSUE      = "ISSUE"      // salida hacia el exterior (consumo o despacho)
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre ubicaciones o estados
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste de inventario (conteo físico, merma)
)

// Movement representa un asiento inmutable del diario de movimientos.
// Una vez escrito nunca se edita ni se borra: las correcciones se registran
// como movimientos nuevos que compensan al original.
// FromLocationID/FromStatusID en nil significan origen externo (recepción);
// ToLocationID/ToStatusID en nil significan destino externo (despacho).
type Movement struct {
	ID             int64
	GroupID        string // agrupa los asientos de una misma operación de negocio
	PartID         int64
	LotID          int64
	FromLocationID *int64
	FromStatusID   *int64
	ToLocationID   *int64
	ToStatusID     *int64
	Quantity       decimal.Decimal // siempre > 0; el sentido lo dan from/to
	Type           string
	ReferenceDoc   string // documento de referencia (OC, remisión, nota de ajuste)
	CreatedBy      int64
	CreatedAt      time.Time
}
