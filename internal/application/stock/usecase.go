package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// Mutator aplica mutaciones del kardex de forma transaccional: bloquea la
// fila del saldo (SELECT FOR UPDATE), valida que la cantidad resultante no
// sea negativa, escribe el asiento en el diario y actualiza el saldo.
// Ningún otro componente escribe saldos ni diario.
type Mutator struct {
	txRunner TxRunner
}

// NewMutator construye el mutador de stock.
func NewMutator(txRunner TxRunner) *Mutator {
	return &Mutator{txRunner: txRunner}
}

// AdjustStockInput entrada para un ajuste con delta firmado sobre una clave.
type AdjustStockInput struct {
	PartID     int64
	LotID      int64
	LocationID int64
	StatusID   int64
	Delta      decimal.Decimal // distinto de cero; negativo descuenta
	Type       string          // RECEIPT, ISSUE o ADJUSTMENT
	Reference  string
	ActorID    int64
	GroupID    string // opcional: agrupa con otros asientos de la misma operación
}

// AdjustStockResult resultado de un ajuste aplicado.
type AdjustStockResult struct {
	BalanceID   int64
	MovementID  int64
	NewQuantity decimal.Decimal
}

// AdjustStock aplica el ajuste en su propia transacción.
func (uc *Mutator) AdjustStock(ctx context.Context, in AdjustStockInput) (AdjustStockResult, error) {
	var res AdjustStockResult
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		_ repository.SequenceRepository,
	) error {
		r, err := uc.AdjustStockInTx(ctx, balanceRepo, movRepo, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return AdjustStockResult{}, err
	}
	return res, nil
}

// AdjustStockInTx aplica el ajuste usando los repositorios proporcionados
// (misma transacción del caller). Permite componer varios ajustes y una
// asignación de consecutivo en una sola unidad atómica.
// Ante ErrInsufficientStock no se escribe nada: ni asiento ni saldo.
func (uc *Mutator) AdjustStockInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	in AdjustStockInput,
) (AdjustStockResult, error) {
	if err := validateAdjust(in); err != nil {
		return AdjustStockResult{}, err
	}

	key := entity.BalanceKey{
		PartID: in.PartID, LotID: in.LotID,
		LocationID: in.LocationID, StatusID: in.StatusID,
	}

	// Bloquea la fila del saldo (se crea en cero bajo el mismo bloqueo si no existe).
	bal, err := balanceRepo.LockForUpdate(ctx, key)
	if err != nil {
		return AdjustStockResult{}, err
	}

	newQty := bal.Quantity.Add(in.Delta)
	if newQty.IsNegative() {
		return AdjustStockResult{}, domain.ErrInsufficientStock
	}

	// El asiento registra siempre cantidad positiva; el sentido lo dan from/to.
	mov := &entity.Movement{
		GroupID:      in.GroupID,
		PartID:       in.PartID,
		LotID:        in.LotID,
		Type:         in.Type,
		ReferenceDoc: in.Reference,
		CreatedBy:    in.ActorID,
	}
	if in.Delta.IsNegative() {
		mov.Quantity = in.Delta.Neg()
		mov.FromLocationID = &in.LocationID
		mov.FromStatusID = &in.StatusID
	} else {
		mov.Quantity = in.Delta
		mov.ToLocationID = &in.LocationID
		mov.ToStatusID = &in.StatusID
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return AdjustStockResult{}, err
	}
	if err := balanceRepo.UpdateQuantity(ctx, bal.ID, newQty); err != nil {
		return AdjustStockResult{}, err
	}
	return AdjustStockResult{BalanceID: bal.ID, MovementID: mov.ID, NewQuantity: newQty}, nil
}

// TransferStockInput entrada para un traslado entre dos claves de la misma parte/lote.
type TransferStockInput struct {
	PartID         int64
	LotID          int64
	FromLocationID int64
	FromStatusID   int64
	ToLocationID   int64
	ToStatusID     int64
	Quantity       decimal.Decimal // siempre > 0
	Reference      string
	ActorID        int64
	GroupID        string
}

// TransferStockResult resultado de un traslado aplicado.
type TransferStockResult struct {
	MovementID int64
}

// TransferStock aplica el traslado en su propia transacción.
func (uc *Mutator) TransferStock(ctx context.Context, in TransferStockInput) (TransferStockResult, error) {
	var res TransferStockResult
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		_ repository.SequenceRepository,
	) error {
		r, err := uc.TransferStockInTx(ctx, balanceRepo, movRepo, in)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return TransferStockResult{}, err
	}
	return res, nil
}

// TransferStockInTx descuenta en el origen, abona en el destino (creándolo en
// cero si no existe) y escribe un único asiento con ambos extremos, todo con
// los repositorios del caller. Las dos filas se bloquean en orden total fijo
// (location_id, status_id ascendente) para que dos traslados cruzados sobre el
// mismo par de claves no puedan esperarse circularmente.
func (uc *Mutator) TransferStockInTx(
	ctx context.Context,
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	in TransferStockInput,
) (TransferStockResult, error) {
	if err := validateTransfer(in); err != nil {
		return TransferStockResult{}, err
	}

	fromKey := entity.BalanceKey{
		PartID: in.PartID, LotID: in.LotID,
		LocationID: in.FromLocationID, StatusID: in.FromStatusID,
	}
	toKey := entity.BalanceKey{
		PartID: in.PartID, LotID: in.LotID,
		LocationID: in.ToLocationID, StatusID: in.ToStatusID,
	}

	first, second := fromKey, toKey
	if keyLess(toKey, fromKey) {
		first, second = toKey, fromKey
	}
	firstBal, err := balanceRepo.LockForUpdate(ctx, first)
	if err != nil {
		return TransferStockResult{}, err
	}
	secondBal, err := balanceRepo.LockForUpdate(ctx, second)
	if err != nil {
		return TransferStockResult{}, err
	}

	src, dst := firstBal, secondBal
	if first != fromKey {
		src, dst = secondBal, firstBal
	}

	if src.Quantity.LessThan(in.Quantity) {
		return TransferStockResult{}, domain.ErrInsufficientStock
	}

	mov := &entity.Movement{
		GroupID:        in.GroupID,
		PartID:         in.PartID,
		LotID:          in.LotID,
		FromLocationID: &in.FromLocationID,
		FromStatusID:   &in.FromStatusID,
		ToLocationID:   &in.ToLocationID,
		ToStatusID:     &in.ToStatusID,
		Quantity:       in.Quantity,
		Type:           entity.MovementTypeTRANSFER,
		ReferenceDoc:   in.Reference,
		CreatedBy:      in.ActorID,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return TransferStockResult{}, err
	}
	if err := balanceRepo.UpdateQuantity(ctx, src.ID, src.Quantity.Sub(in.Quantity)); err != nil {
		return TransferStockResult{}, err
	}
	if err := balanceRepo.UpdateQuantity(ctx, dst.ID, dst.Quantity.Add(in.Quantity)); err != nil {
		return TransferStockResult{}, err
	}
	return TransferStockResult{MovementID: mov.ID}, nil
}

// ── validación ────────────────────────────────────────────────────────────────

func validateAdjust(in AdjustStockInput) error {
	if in.PartID <= 0 || in.LotID <= 0 || in.LocationID <= 0 || in.StatusID <= 0 || in.ActorID <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Delta.IsZero() {
		return domain.ErrInvalidInput
	}
	switch in.Type {
	case entity.MovementTypeRECEIPT:
		if in.Delta.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeISSUE:
		if !in.Delta.IsNegative() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		// cualquier signo
	default:
		// TRANSFER solo vía TransferStock
		return domain.ErrInvalidInput
	}
	return nil
}

func validateTransfer(in TransferStockInput) error {
	if in.PartID <= 0 || in.LotID <= 0 || in.ActorID <= 0 {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID <= 0 || in.FromStatusID <= 0 || in.ToLocationID <= 0 || in.ToStatusID <= 0 {
		return domain.ErrInvalidInput
	}
	if in.FromLocationID == in.ToLocationID && in.FromStatusID == in.ToStatusID {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.IsPositive() {
		return domain.ErrInvalidInput
	}
	return nil
}

// keyLess define el orden total de bloqueo: location_id y luego status_id.
func keyLess(a, b entity.BalanceKey) bool {
	if a.LocationID != b.LocationID {
		return a.LocationID < b.LocationID
	}
	return a.StatusID < b.StatusID
}
