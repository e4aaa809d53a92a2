package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// Descriptor ordenado de stock_movements; el orden debe coincidir con los
// argumentos de Create (ver fields.go).
var movementColumns = []string{
	"group_id", "part_id", "lot_id",
	"from_location_id", "from_status_id", "to_location_id", "to_status_id",
	"quantity", "movement_type", "reference_doc", "created_by", "created_at",
}

const movementSelect = `
	SELECT id, group_id, part_id, lot_id,
	       from_location_id, from_status_id, to_location_id, to_status_id,
	       quantity, movement_type, reference_doc, created_by, created_at
	FROM stock_movements`

// MovementRepo implementación del diario de movimientos sobre PostgreSQL (usable con pool o tx).
// Solo inserta y consulta: el diario no se edita ni se borra.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste el asiento y asigna su ID generado por la tabla.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.GroupID == "" {
		m.GroupID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	query := insertSQL("stock_movements", movementColumns, "id")
	err := r.q.QueryRow(ctx, query,
		m.GroupID, m.PartID, m.LotID,
		m.FromLocationID, m.FromStatusID, m.ToLocationID, m.ToStatusID,
		m.Quantity, m.Type, m.ReferenceDoc, m.CreatedBy, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", translateError(err))
	}
	return nil
}

// GetByID obtiene un asiento por ID; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id int64) (*entity.Movement, error) {
	query := movementSelect + ` WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", translateError(err))
	}
	return m, nil
}

// ListByPart lista asientos de una parte en un rango de fechas, más recientes primero.
func (r *MovementRepo) ListByPart(ctx context.Context, partID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE part_id = $1`
	args := []any{partID}
	query, args = appendDateWindow(query, args, from, to)
	query, args = appendPage(query, args, limit, offset)
	return r.list(ctx, query, args)
}

// ListByLocation lista asientos que tocan una ubicación (como origen o destino).
func (r *MovementRepo) ListByLocation(ctx context.Context, locationID int64, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := movementSelect + ` WHERE (from_location_id = $1 OR to_location_id = $1)`
	args := []any{locationID}
	query, args = appendDateWindow(query, args, from, to)
	query, args = appendPage(query, args, limit, offset)
	return r.list(ctx, query, args)
}

// SumForKey recalcula el saldo de una clave desde el diario: suma lo que entra
// a la clave (to_*) y resta lo que sale de ella (from_*). Debe coincidir con
// la fila de stock_balances en todo estado confirmado.
func (r *MovementRepo) SumForKey(ctx context.Context, key entity.BalanceKey) (decimal.Decimal, error) {
	const q = `
		SELECT COALESCE(SUM(CASE WHEN to_location_id   = $3 AND to_status_id   = $4 THEN quantity ELSE 0 END), 0)
		     - COALESCE(SUM(CASE WHEN from_location_id = $3 AND from_status_id = $4 THEN quantity ELSE 0 END), 0)
		FROM stock_movements
		WHERE part_id = $1 AND lot_id = $2
		  AND (   (to_location_id   = $3 AND to_status_id   = $4)
		       OR (from_location_id = $3 AND from_status_id = $4))`
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, q, key.PartID, key.LotID, key.LocationID, key.StatusID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum movements for key: %w", translateError(err))
	}
	return sum, nil
}

func (r *MovementRepo) list(ctx context.Context, query string, args []any) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", translateError(err))
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

// appendDateWindow agrega los filtros opcionales de fecha con placeholders posicionales.
func appendDateWindow(query string, args []any, from, to *time.Time) (string, []any) {
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	return query, args
}

func appendPage(query string, args []any, limit, offset int) (string, []any) {
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return query, args
}

func scanMovement(row pgxScanner) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(
		&m.ID, &m.GroupID, &m.PartID, &m.LotID,
		&m.FromLocationID, &m.FromStatusID, &m.ToLocationID, &m.ToStatusID,
		&m.Quantity, &m.Type, &m.ReferenceDoc, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
