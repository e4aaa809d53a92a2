package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-core/internal/application/dto"
	"github.com/jhoicas/kardex-core/internal/application/stock"
	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
)

// StockHandler maneja las peticiones HTTP del kardex: ajustes, traslados,
// recepciones y consultas de saldos y diario. La autenticación vive fuera
// del núcleo; aquí llegan ids ya validados.
type StockHandler struct {
	mutator *stock.Mutator
	query   *stock.LedgerQuery
}

// NewStockHandler construye el handler.
func NewStockHandler(mutator *stock.Mutator, query *stock.LedgerQuery) *StockHandler {
	return &StockHandler{mutator: mutator, query: query}
}

// Adjust registra un ajuste de stock (RECEIPT, ISSUE o ADJUSTMENT).
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.mutator.AdjustStock(c.Context(), stock.AdjustStockInput{
		PartID:     in.PartID,
		LotID:      in.LotID,
		LocationID: in.LocationID,
		StatusID:   in.StatusID,
		Delta:      in.Delta,
		Type:       in.Type,
		Reference:  in.Reference,
		ActorID:    in.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustStockResponse{
		BalanceID:   res.BalanceID,
		MovementID:  res.MovementID,
		NewQuantity: res.NewQuantity,
	})
}

// Transfer registra un traslado entre dos claves de la misma parte/lote.
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.mutator.TransferStock(c.Context(), stock.TransferStockInput{
		PartID:         in.PartID,
		LotID:          in.LotID,
		FromLocationID: in.FromLocationID,
		FromStatusID:   in.FromStatusID,
		ToLocationID:   in.ToLocationID,
		ToStatusID:     in.ToStatusID,
		Quantity:       in.Quantity,
		Reference:      in.Reference,
		ActorID:        in.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": res.MovementID})
}

// PostReceipt contabiliza una recepción de mercancía completa.
func (h *StockHandler) PostReceipt(c *fiber.Ctx) error {
	var in dto.GoodsReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lines := make([]stock.GoodsReceiptLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, stock.GoodsReceiptLine{
			PartID:     l.PartID,
			LotID:      l.LotID,
			LocationID: l.LocationID,
			StatusID:   l.StatusID,
			Quantity:   l.Quantity,
		})
	}
	res, err := h.mutator.PostGoodsReceipt(c.Context(), stock.GoodsReceiptInput{
		Lines:   lines,
		ActorID: in.ActorID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"receipt_number": res.ReceiptNumber,
		"group_id":       res.GroupID,
		"lines":          len(res.Lines),
	})
}

// GetBalance devuelve el saldo de una clave (query: part_id, lot_id, location_id, status_id).
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	key, ok := balanceKeyFromQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "clave incompleta"})
	}
	bal, err := h.query.GetBalance(c.Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.BalanceDTO{
		BalanceID:  bal.ID,
		PartID:     bal.Key.PartID,
		LotID:      bal.Key.LotID,
		LocationID: bal.Key.LocationID,
		StatusID:   bal.Key.StatusID,
		Quantity:   bal.Quantity,
		UpdatedAt:  bal.UpdatedAt,
	})
}

// ListMovements lista el diario filtrado por parte o por ubicación.
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	partID := int64(c.QueryInt("part_id"))
	locationID := int64(c.QueryInt("location_id"))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	from, to := dateWindowFromQuery(c)

	var (
		list []*entity.Movement
		err  error
	)
	switch {
	case partID > 0:
		list, err = h.query.ListMovementsByPart(c.Context(), partID, from, to, limit, offset)
	case locationID > 0:
		list, err = h.query.ListMovementsByLocation(c.Context(), locationID, from, to, limit, offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere part_id o location_id"})
	}
	if err != nil {
		return writeError(c, err)
	}

	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementDTO{
			ID:             m.ID,
			GroupID:        m.GroupID,
			PartID:         m.PartID,
			LotID:          m.LotID,
			FromLocationID: m.FromLocationID,
			FromStatusID:   m.FromStatusID,
			ToLocationID:   m.ToLocationID,
			ToStatusID:     m.ToStatusID,
			Quantity:       m.Quantity,
			Type:           m.Type,
			Reference:      m.ReferenceDoc,
			CreatedBy:      m.CreatedBy,
			CreatedAt:      m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reconcile contrasta el saldo almacenado de una clave con la suma del diario.
func (h *StockHandler) Reconcile(c *fiber.Ctx) error {
	key, ok := balanceKeyFromQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "clave incompleta"})
	}
	res, err := h.query.ReconcileBalance(c.Context(), key)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"balance":     res.Balance,
		"journal_sum": res.JournalSum,
		"consistent":  res.Consistent,
	})
}

// ── helpers ───────────────────────────────────────────────────────────────────

func balanceKeyFromQuery(c *fiber.Ctx) (entity.BalanceKey, bool) {
	key := entity.BalanceKey{
		PartID:     int64(c.QueryInt("part_id")),
		LotID:      int64(c.QueryInt("lot_id")),
		LocationID: int64(c.QueryInt("location_id")),
		StatusID:   int64(c.QueryInt("status_id")),
	}
	ok := key.PartID > 0 && key.LotID > 0 && key.LocationID > 0 && key.StatusID > 0
	return key, ok
}

func dateWindowFromQuery(c *fiber.Ctx) (from, to *time.Time) {
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			to = &t
		}
	}
	return from, to
}

// writeError traduce errores de dominio al código HTTP correspondiente.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrReferentialViolation):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_REFERENCE", Message: "parte, lote, ubicación o estado inexistente"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrLockTimeout):
		// 423 Locked: el caller puede reintentar con backoff
		return c.Status(fiber.StatusLocked).JSON(dto.ErrorResponse{Code: "LOCK_TIMEOUT", Message: "registro bloqueado, reintente"})
	case errors.Is(err, domain.ErrSequenceExhausted):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SEQUENCE_EXHAUSTED", Message: "secuencia de documentos agotada"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
