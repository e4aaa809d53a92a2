package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse respuesta de error estándar de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AdjustStockRequest cuerpo para registrar un ajuste de stock.
type AdjustStockRequest struct {
	PartID     int64           `json:"part_id"`
	LotID      int64           `json:"lot_id"`
	LocationID int64           `json:"location_id"`
	StatusID   int64           `json:"status_id"`
	Delta      decimal.Decimal `json:"delta"`
	Type       string          `json:"type"` // RECEIPT, ISSUE o ADJUSTMENT
	Reference  string          `json:"reference"`
	ActorID    int64           `json:"actor_id"`
}

// AdjustStockResponse resultado de un ajuste aplicado.
type AdjustStockResponse struct {
	BalanceID   int64           `json:"balance_id"`
	MovementID  int64           `json:"movement_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// TransferStockRequest cuerpo para registrar un traslado.
type TransferStockRequest struct {
	PartID         int64           `json:"part_id"`
	LotID          int64           `json:"lot_id"`
	FromLocationID int64           `json:"from_location_id"`
	FromStatusID   int64           `json:"from_status_id"`
	ToLocationID   int64           `json:"to_location_id"`
	ToStatusID     int64           `json:"to_status_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reference      string          `json:"reference"`
	ActorID        int64           `json:"actor_id"`
}

// GoodsReceiptRequest cuerpo para contabilizar una recepción de mercancía.
type GoodsReceiptRequest struct {
	ActorID int64                     `json:"actor_id"`
	Lines   []GoodsReceiptLineRequest `json:"lines"`
}

// GoodsReceiptLineRequest una línea de la recepción.
type GoodsReceiptLineRequest struct {
	PartID     int64           `json:"part_id"`
	LotID      int64           `json:"lot_id"`
	LocationID int64           `json:"location_id"`
	StatusID   int64           `json:"status_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// MovementDTO asiento del diario para respuestas de la API.
type MovementDTO struct {
	ID             int64           `json:"id"`
	GroupID        string          `json:"group_id"`
	PartID         int64           `json:"part_id"`
	LotID          int64           `json:"lot_id"`
	FromLocationID *int64          `json:"from_location_id"`
	FromStatusID   *int64          `json:"from_status_id"`
	ToLocationID   *int64          `json:"to_location_id"`
	ToStatusID     *int64          `json:"to_status_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Type           string          `json:"type"`
	Reference      string          `json:"reference"`
	CreatedBy      int64           `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// BalanceDTO saldo actual de una clave.
type BalanceDTO struct {
	BalanceID  int64           `json:"balance_id"`
	PartID     int64           `json:"part_id"`
	LotID      int64           `json:"lot_id"`
	LocationID int64           `json:"location_id"`
	StatusID   int64           `json:"status_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// AllocateNumberRequest cuerpo para pedir un número de documento.
type AllocateNumberRequest struct {
	Sequence string `json:"sequence"` // po_number_seq, qc_lot_number_seq, grn_number_seq
	Prefix   string `json:"prefix"`   // ej. PO, QC, GRN
}

// AllocateNumberResponse número asignado.
type AllocateNumberResponse struct {
	Number string `json:"number"`
	Value  int64  `json:"value"`
}
