package stock_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
	"github.com/jhoicas/kardex-core/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos del núcleo.
//
// fakeTxRunner reproduce la semántica transaccional real: toma un candado
// global durante fn (equivalente a la serialización por bloqueo de fila),
// hace snapshot del estado al entrar y lo restaura si fn falla (rollback).
// El contador de secuencias queda fuera del snapshot a propósito: nextval()
// no participa del rollback y los valores consumidos no se devuelven.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu             sync.Mutex
	balances       map[entity.BalanceKey]*entity.StockBalance
	movements      []*entity.Movement
	lockOrder      []entity.BalanceKey
	nextBalanceID  int64
	nextMovementID int64
	seqValues      map[string]int64 // sobrevive al rollback
	movementErr    error            // si no es nil, el próximo Create falla
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:  make(map[entity.BalanceKey]*entity.StockBalance),
		seqValues: make(map[string]int64),
	}
}

// seedBalance crea un saldo inicial sin pasar por el mutador.
func (s *fakeStore) seedBalance(key entity.BalanceKey, qty decimal.Decimal) {
	s.nextBalanceID++
	s.balances[key] = &entity.StockBalance{
		ID:       s.nextBalanceID,
		Key:      key,
		Quantity: qty,
	}
}

func (s *fakeStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *fakeStore) balanceQty(key entity.BalanceKey) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.balances[key]; ok {
		return b.Quantity
	}
	return decimal.Zero
}

type storeSnapshot struct {
	balances       map[entity.BalanceKey]entity.StockBalance
	movements      []*entity.Movement
	nextBalanceID  int64
	nextMovementID int64
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		balances:       make(map[entity.BalanceKey]entity.StockBalance, len(s.balances)),
		movements:      append([]*entity.Movement(nil), s.movements...),
		nextBalanceID:  s.nextBalanceID,
		nextMovementID: s.nextMovementID,
	}
	for k, b := range s.balances {
		snap.balances[k] = *b
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.balances = make(map[entity.BalanceKey]*entity.StockBalance, len(snap.balances))
	for k, b := range snap.balances {
		copy := b
		s.balances[k] = &copy
	}
	s.movements = snap.movements
	s.nextBalanceID = snap.nextBalanceID
	s.nextMovementID = snap.nextMovementID
}

type fakeTxRunner struct {
	store *fakeStore
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	balanceRepo repository.StockBalanceRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.snapshot()
	err := fn(
		&fakeBalanceRepo{store: r.store},
		&fakeMovementRepo{store: r.store},
		&fakeSequenceRepo{store: r.store},
	)
	if err != nil {
		r.store.restore(snap) // rollback: saldos y diario; la secuencia no se restaura
		return err
	}
	return nil
}

// ── repos ─────────────────────────────────────────────────────────────────────

type fakeBalanceRepo struct {
	store *fakeStore
}

func (r *fakeBalanceRepo) LockForUpdate(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	r.store.lockOrder = append(r.store.lockOrder, key)
	b, ok := r.store.balances[key]
	if !ok {
		r.store.nextBalanceID++
		b = &entity.StockBalance{ID: r.store.nextBalanceID, Key: key, Quantity: decimal.Zero}
		r.store.balances[key] = b
	}
	copy := *b
	return &copy, nil
}

func (r *fakeBalanceRepo) UpdateQuantity(_ context.Context, balanceID int64, quantity decimal.Decimal) error {
	for _, b := range r.store.balances {
		if b.ID == balanceID {
			b.Quantity = quantity
			b.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeBalanceRepo) Get(_ context.Context, key entity.BalanceKey) (*entity.StockBalance, error) {
	if b, ok := r.store.balances[key]; ok {
		copy := *b
		return &copy, nil
	}
	return &entity.StockBalance{Key: key, Quantity: decimal.Zero}, nil
}

func (r *fakeBalanceRepo) ListByPart(_ context.Context, partID int64) ([]*entity.StockBalance, error) {
	var list []*entity.StockBalance
	for _, b := range r.store.balances {
		if b.Key.PartID == partID {
			copy := *b
			list = append(list, &copy)
		}
	}
	return list, nil
}

type fakeMovementRepo struct {
	store *fakeStore
}

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	if err := r.store.movementErr; err != nil {
		r.store.movementErr = nil
		return err
	}
	r.store.nextMovementID++
	m.ID = r.store.nextMovementID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	copy := *m
	r.store.movements = append(r.store.movements, &copy)
	return nil
}

func (r *fakeMovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			copy := *m
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByPart(_ context.Context, partID int64, _, _ *time.Time, _, _ int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.store.movements {
		if m.PartID == partID {
			copy := *m
			list = append(list, &copy)
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) ListByLocation(_ context.Context, locationID int64, _, _ *time.Time, _, _ int) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for _, m := range r.store.movements {
		in := m.ToLocationID != nil && *m.ToLocationID == locationID
		out := m.FromLocationID != nil && *m.FromLocationID == locationID
		if in || out {
			copy := *m
			list = append(list, &copy)
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) SumForKey(_ context.Context, key entity.BalanceKey) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.store.movements {
		if m.PartID != key.PartID || m.LotID != key.LotID {
			continue
		}
		if m.ToLocationID != nil && *m.ToLocationID == key.LocationID &&
			m.ToStatusID != nil && *m.ToStatusID == key.StatusID {
			sum = sum.Add(m.Quantity)
		}
		if m.FromLocationID != nil && *m.FromLocationID == key.LocationID &&
			m.FromStatusID != nil && *m.FromStatusID == key.StatusID {
			sum = sum.Sub(m.Quantity)
		}
	}
	return sum, nil
}

type fakeSequenceRepo struct {
	store *fakeStore
}

func (r *fakeSequenceRepo) Next(_ context.Context, name string) (int64, error) {
	r.store.seqValues[name]++
	return r.store.seqValues[name], nil
}
