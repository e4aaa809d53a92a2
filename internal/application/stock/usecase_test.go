package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-core/internal/application/stock"
	"github.com/jhoicas/kardex-core/internal/domain"
	"github.com/jhoicas/kardex-core/internal/domain/entity"
)

const (
	testPartID  = int64(10)
	testLotID   = int64(1)
	testLocA    = int64(1) // bodega A
	testLocB    = int64(2) // bodega B
	testOK      = int64(1) // estado disponible
	testHOLD    = int64(2) // estado retenido
	testActorID = int64(7)
)

func keyA() entity.BalanceKey {
	return entity.BalanceKey{PartID: testPartID, LotID: testLotID, LocationID: testLocA, StatusID: testOK}
}

func keyB() entity.BalanceKey {
	return entity.BalanceKey{PartID: testPartID, LotID: testLotID, LocationID: testLocB, StatusID: testHOLD}
}

func newMutator() (*stock.Mutator, *fakeStore) {
	store := newFakeStore()
	return stock.NewMutator(&fakeTxRunner{store: store}), store
}

func adjustInput(delta int64, movType string) stock.AdjustStockInput {
	return stock.AdjustStockInput{
		PartID:     testPartID,
		LotID:      testLotID,
		LocationID: testLocA,
		StatusID:   testOK,
		Delta:      decimal.NewFromInt(delta),
		Type:       movType,
		Reference:  "DOC-1",
		ActorID:    testActorID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// AdjustStock
// ──────────────────────────────────────────────────────────────────────────────

// Salida de 30 sobre un saldo de 100: queda 70 y un único asiento con la
// clave como origen y cantidad positiva 30.
func TestAdjustStock_SalidaDescuentaSaldo(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(100))

	res, err := uc.AdjustStock(context.Background(), adjustInput(-30, entity.MovementTypeISSUE))
	require.NoError(t, err)

	assert.True(t, res.NewQuantity.Equal(decimal.NewFromInt(70)))
	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(70)))
	require.Equal(t, 1, store.movementCount())

	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeISSUE, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(30)), "el asiento registra cantidad positiva")
	require.NotNil(t, mov.FromLocationID)
	assert.Equal(t, testLocA, *mov.FromLocationID)
	require.NotNil(t, mov.FromStatusID)
	assert.Equal(t, testOK, *mov.FromStatusID)
	assert.Nil(t, mov.ToLocationID, "una salida no tiene destino interno")
	assert.Equal(t, testActorID, mov.CreatedBy)
}

// Un descuento mayor al saldo falla con ErrInsufficientStock y no deja rastro:
// ni asiento nuevo ni cambio de saldo.
func TestAdjustStock_StockInsuficienteNoEscribe(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(70))

	_, err := uc.AdjustStock(context.Background(), adjustInput(-150, entity.MovementTypeISSUE))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(70)), "el saldo no cambia")
	assert.Equal(t, 0, store.movementCount(), "no se escribe ningún asiento")
}

// La primera entrada a una clave inexistente crea la fila en cero bajo el
// mismo bloqueo y la deja con la cantidad recibida.
func TestAdjustStock_CreaSaldoImplicito(t *testing.T) {
	uc, store := newMutator()

	res, err := uc.AdjustStock(context.Background(), adjustInput(50, entity.MovementTypeRECEIPT))
	require.NoError(t, err)

	assert.True(t, res.NewQuantity.Equal(decimal.NewFromInt(50)))
	assert.NotZero(t, res.BalanceID)
	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(50)))

	mov := store.movements[0]
	require.NotNil(t, mov.ToLocationID, "una entrada lleva la clave como destino")
	assert.Equal(t, testLocA, *mov.ToLocationID)
	assert.Nil(t, mov.FromLocationID)
}

func TestAdjustStock_ValidaEntrada(t *testing.T) {
	uc, _ := newMutator()
	ctx := context.Background()

	cases := []struct {
		name string
		in   stock.AdjustStockInput
	}{
		{"delta cero", adjustInput(0, entity.MovementTypeADJUSTMENT)},
		{"RECEIPT con delta negativo", adjustInput(-5, entity.MovementTypeRECEIPT)},
		{"ISSUE con delta positivo", adjustInput(5, entity.MovementTypeISSUE)},
		{"tipo desconocido", adjustInput(5, "MYSTERY")},
		{"TRANSFER por la vía equivocada", adjustInput(5, entity.MovementTypeTRANSFER)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.AdjustStock(ctx, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	sinActor := adjustInput(5, entity.MovementTypeRECEIPT)
	sinActor.ActorID = 0
	_, err := uc.AdjustStock(ctx, sinActor)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Dos descuentos de 60 sobre un saldo de 100 ejecutados en paralelo: el
// bloqueo de fila los serializa, de modo que exactamente uno gana (queda 40)
// y el otro falla con ErrInsufficientStock. Un solo asiento en el diario.
func TestAdjustStock_ConcurrentesSerializados(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(100))

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.AdjustStock(context.Background(), adjustInput(-60, entity.MovementTypeISSUE))
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, failed, "exactamente una de las dos operaciones debe fallar")
	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 1, store.movementCount())
}

// Tras una serie de ajustes confirmados, el saldo final es el inicial más la
// suma de los deltas y la suma del diario coincide con el saldo.
func TestAdjustStock_SaldoIgualSumaDeMovimientos(t *testing.T) {
	uc, store := newMutator()
	ctx := context.Background()

	deltas := []int64{100, -20, 35, -50}
	for _, d := range deltas {
		in := adjustInput(d, entity.MovementTypeADJUSTMENT)
		_, err := uc.AdjustStock(ctx, in)
		require.NoError(t, err)
	}

	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(65)))

	movRepo := &fakeMovementRepo{store: store}
	sum, err := movRepo.SumForKey(ctx, keyA())
	require.NoError(t, err)
	assert.True(t, sum.Equal(store.balanceQty(keyA())), "el diario debe reproducir el saldo")
}

// ──────────────────────────────────────────────────────────────────────────────
// TransferStock
// ──────────────────────────────────────────────────────────────────────────────

func transferInput(qty int64) stock.TransferStockInput {
	return stock.TransferStockInput{
		PartID:         testPartID,
		LotID:          testLotID,
		FromLocationID: testLocA,
		FromStatusID:   testOK,
		ToLocationID:   testLocB,
		ToStatusID:     testHOLD,
		Quantity:       decimal.NewFromInt(qty),
		Reference:      "TRF-9",
		ActorID:        testActorID,
	}
}

// Traslado de 20 desde (A, OK) con saldo 70 hacia (B, HOLD) inexistente:
// origen queda en 50, destino se crea con 20 y hay un único asiento con
// ambos extremos.
func TestTransferStock_MueveEntreClaves(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(70))

	res, err := uc.TransferStock(context.Background(), transferInput(20))
	require.NoError(t, err)
	assert.NotZero(t, res.MovementID)

	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(50)))
	assert.True(t, store.balanceQty(keyB()).Equal(decimal.NewFromInt(20)), "el destino se crea bajo el mismo bloqueo")

	require.Equal(t, 1, store.movementCount(), "un traslado produce un único asiento")
	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeTRANSFER, mov.Type)
	require.NotNil(t, mov.FromLocationID)
	require.NotNil(t, mov.ToLocationID)
	assert.Equal(t, testLocA, *mov.FromLocationID)
	assert.Equal(t, testLocB, *mov.ToLocationID)
	assert.Equal(t, testOK, *mov.FromStatusID)
	assert.Equal(t, testHOLD, *mov.ToStatusID)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(20)))
}

func TestTransferStock_OrigenInsuficiente(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(10))

	_, err := uc.TransferStock(context.Background(), transferInput(20))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(10)))
	assert.True(t, store.balanceQty(keyB()).IsZero())
	assert.Equal(t, 0, store.movementCount())
}

func TestTransferStock_MismaClaveRechazada(t *testing.T) {
	uc, _ := newMutator()
	in := transferInput(5)
	in.ToLocationID = in.FromLocationID
	in.ToStatusID = in.FromStatusID

	_, err := uc.TransferStock(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Las dos filas se bloquean siempre en orden ascendente (location_id,
// status_id), sin importar cuál es origen y cuál destino.
func TestTransferStock_OrdenTotalDeBloqueo(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyB(), decimal.NewFromInt(30))

	// origen (B=2, HOLD) y destino (A=1, OK): debe bloquearse primero A
	in := transferInput(10)
	in.FromLocationID, in.FromStatusID = testLocB, testHOLD
	in.ToLocationID, in.ToStatusID = testLocA, testOK

	_, err := uc.TransferStock(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, store.lockOrder, 2)
	assert.Equal(t, keyA(), store.lockOrder[0])
	assert.Equal(t, keyB(), store.lockOrder[1])
}

// Si el asiento no puede escribirse, la transacción deshace también los
// saldos: nunca queda un traslado a medias.
func TestTransferStock_RollbackAtomico(t *testing.T) {
	uc, store := newMutator()
	store.seedBalance(keyA(), decimal.NewFromInt(70))
	boom := errors.New("journal caído")
	store.movementErr = boom

	_, err := uc.TransferStock(context.Background(), transferInput(20))
	require.ErrorIs(t, err, boom)

	assert.True(t, store.balanceQty(keyA()).Equal(decimal.NewFromInt(70)), "el origen no se descuenta")
	assert.True(t, store.balanceQty(keyB()).IsZero(), "el destino no se abona")
	assert.Equal(t, 0, store.movementCount())
}
