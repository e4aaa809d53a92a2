package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/document"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// GoodsReceiptLine una línea de recepción de mercancía.
type GoodsReceiptLine struct {
	PartID     int64
	LotID      int64
	LocationID int64
	StatusID   int64
	Quantity   decimal.Decimal // siempre > 0
}

// GoodsReceiptInput entrada para contabilizar una recepción completa.
type GoodsReceiptInput struct {
	Lines   []GoodsReceiptLine
	ActorID int64
}

// GoodsReceiptResult resultado de la recepción contabilizada.
type GoodsReceiptResult struct {
	ReceiptNumber string
	GroupID       string
	Lines         []AdjustStockResult
}

// PostGoodsReceipt contabiliza una recepción en una sola transacción: asigna
// el consecutivo GRN, lo formatea con el año en curso y aplica un ajuste
// RECEIPT por línea con ese número como documento de referencia y un group_id
// común. Todo o nada: si una línea falla, ningún asiento queda escrito
// (el consecutivo consumido no se devuelve; queda un hueco).
func (uc *Mutator) PostGoodsReceipt(ctx context.Context, in GoodsReceiptInput) (GoodsReceiptResult, error) {
	if len(in.Lines) == 0 || in.ActorID <= 0 {
		return GoodsReceiptResult{}, domain.ErrInvalidInput
	}

	groupID := uuid.New().String()
	var res GoodsReceiptResult
	err := uc.txRunner.Run(ctx, func(
		balanceRepo repository.StockBalanceRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		n, err := seqRepo.Next(ctx, entity.SeqGRNNumber)
		if err != nil {
			return err
		}
		number, err := document.FormatNumber("GRN", n, time.Now().Year())
		if err != nil {
			return err
		}
		res = GoodsReceiptResult{ReceiptNumber: number, GroupID: groupID}
		for _, line := range in.Lines {
			r, err := uc.AdjustStockInTx(ctx, balanceRepo, movRepo, AdjustStockInput{
				PartID:     line.PartID,
				LotID:      line.LotID,
				LocationID: line.LocationID,
				StatusID:   line.StatusID,
				Delta:      line.Quantity,
				Type:       entity.MovementTypeRECEIPT,
				Reference:  number,
				ActorID:    in.ActorID,
				GroupID:    groupID,
			})
			if err != nil {
				return err
			}
			res.Lines = append(res.Lines, r)
		}
		return nil
	})
	if err != nil {
		return GoodsReceiptResult{}, err
	}
	return res, nil
}
