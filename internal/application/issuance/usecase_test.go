package issuance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
)

const (
	testCompanyID  = "comp-1"
	testBodeguero  = "user-bodega"
	testEngineerID = "eng-1"
	otherEngineer  = "eng-2"
)

// seedBulk registra un producto a granel con el stock dado.
func seedBulk(store *testutil.Store, id, name string, stock int64) *entity.MasterItem {
	m := &entity.MasterItem{
		ID:           id,
		CompanyID:    testCompanyID,
		ProductName:  name,
		NameKey:      name,
		PartNo:       "none",
		Category:     "construccion",
		UnitMeasure:  "und",
		TotalInStock: decimal.NewFromInt(stock),
	}
	store.Masters[m.ID] = m
	return m
}

// seedSerialized registra un producto serializado con unidades in_stock.
func seedSerialized(store *testutil.Store, id, name string, barcodes ...string) *entity.MasterItem {
	m := &entity.MasterItem{
		ID:           id,
		CompanyID:    testCompanyID,
		ProductName:  name,
		NameKey:      name,
		PartNo:       "none",
		UnitMeasure:  "und",
		TotalInStock: decimal.NewFromInt(int64(len(barcodes))),
		Serialized:   true,
	}
	store.Masters[m.ID] = m
	for i, bc := range barcodes {
		store.Units[bc] = &entity.InventoryUnit{
			ID:         bc + "-id",
			MasterID:   id,
			Barcode:    bc,
			SKU:        "SKU-" + bc,
			Status:     entity.UnitStatusInStock,
			ReceivedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}
	return m
}

// Entrega a granel: descuenta bodega, acredita la billetera y anota el movimiento.
func TestIssueStock_Granel(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	out, err := uc.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-cemento", Quantity: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ENT-"+out.BatchID[:8], out.BatchName)

	assert.True(t, store.Masters["m-cemento"].TotalInStock.Equal(decimal.NewFromInt(40)))
	assert.True(t, store.Wallet(testEngineerID, "cemento").Equal(decimal.NewFromInt(10)))

	// La billetera captura categoría y maestro para anotar consumos posteriores.
	w := store.Wallets[testEngineerID+"|cemento"]
	require.NotNil(t, w)
	assert.Equal(t, "construccion", w.ItemCategory)
	require.NotNil(t, w.MasterID)
	assert.Equal(t, "m-cemento", *w.MasterID)

	entries, err := store.LedgerRepo().ListByBatch(out.BatchID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TxTypeRestock, entries[0].Type)
	require.NotNil(t, entries[0].EngineerID)
	assert.Equal(t, testEngineerID, *entries[0].EngineerID)
	assert.True(t, entries[0].Quantity.Equal(decimal.NewFromInt(10)))
}

// Entregas sucesivas del mismo producto acumulan sobre la billetera: el saldo
// es la suma de los deltas, nunca el valor absoluto de la última entrega, y
// coincide con la suma firmada del ledger.
func TestIssueStock_EntregasSucesivasAcumulan(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))
	ctx := context.Background()

	for _, qty := range []int64{10, 10} {
		_, err := uc.IssueStock(ctx, issuance.Input{
			CompanyID:  testCompanyID,
			EngineerID: testEngineerID,
			RecordedBy: testBodeguero,
			Items:      []issuance.ItemInput{{MasterID: "m-cemento", Quantity: qty}},
		})
		require.NoError(t, err)
	}

	assert.True(t, store.Wallet(testEngineerID, "cemento").Equal(decimal.NewFromInt(20)))

	sum, err := store.LedgerRepo().SumByEngineerAndItem(testEngineerID, "cemento")
	require.NoError(t, err)
	assert.True(t, store.Wallet(testEngineerID, "cemento").Equal(sum), "la proyección iguala la suma del ledger")
}

// Pedir más de lo que hay en bodega es conflicto y no deja rastro.
func TestIssueStock_StockInsuficiente(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 5)
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	_, err := uc.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-cemento", Quantity: 6}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, store.Masters["m-cemento"].TotalInStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, store.Wallet(testEngineerID, "cemento").IsZero())
	assert.Empty(t, store.Entries)
}

// Entrega serializada por barcodes: las unidades pasan a fulfilled con holder.
func TestIssueStock_Serializado(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1", "BC-2")
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	_, err := uc.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-router", Barcodes: []string{"BC-1", "BC-2"}}},
	})
	require.NoError(t, err)

	for _, bc := range []string{"BC-1", "BC-2"} {
		u := store.Units[bc]
		assert.Equal(t, entity.UnitStatusFulfilled, u.Status)
		require.NotNil(t, u.CurrentHolderID)
		assert.Equal(t, testEngineerID, *u.CurrentHolderID)
		assert.NotNil(t, u.IssuedAt)
	}
	assert.True(t, store.Masters["m-router"].TotalInStock.IsZero())
	assert.True(t, store.Wallet(testEngineerID, "router").Equal(decimal.NewFromInt(2)))
}

// Doble entrega del mismo barcode: la segunda es conflicto, no no-op, y el
// holder original no cambia.
func TestIssueStock_BarcodeYaEntregadoEsConflicto(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1")
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))
	ctx := context.Background()

	_, err := uc.IssueStock(ctx, issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-router", Barcodes: []string{"BC-1"}}},
	})
	require.NoError(t, err)

	_, err = uc.IssueStock(ctx, issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: otherEngineer,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-router", Barcodes: []string{"BC-1"}}},
	})
	require.ErrorIs(t, err, domain.ErrUnitNotAvailable)

	u := store.Units["BC-1"]
	require.NotNil(t, u.CurrentHolderID)
	assert.Equal(t, testEngineerID, *u.CurrentHolderID, "el holder original no debe cambiar")
	assert.True(t, store.Wallet(otherEngineer, "router").IsZero())
	assert.Len(t, store.Entries, 1, "el intento fallido no deja movimiento")
}

// Los caminos cruzados de seriado son conflicto: cantidad sobre un producto
// serializado y barcodes sobre uno a granel.
func TestIssueStock_ModoSeriadoCruzado(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 10)
	seedSerialized(store, "m-router", "router", "BC-1")
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))
	ctx := context.Background()

	_, err := uc.IssueStock(ctx, issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-router", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrSerialityMismatch)

	_, err = uc.IssueStock(ctx, issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-cemento", Barcodes: []string{"BC-1"}}},
	})
	assert.ErrorIs(t, err, domain.ErrSerialityMismatch)
}

// Un ítem inválido en una entrega de varios revierte la entrega completa.
func TestIssueStock_FalloParcialRevierteTodo(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	seedSerialized(store, "m-router", "router", "BC-1")
	uc := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	_, err := uc.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items: []issuance.ItemInput{
			{MasterID: "m-cemento", Quantity: 10},
			{MasterID: "m-router", Barcodes: []string{"BC-inexistente"}},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, store.Masters["m-cemento"].TotalInStock.Equal(decimal.NewFromInt(50)), "el primer ítem también se revierte")
	assert.True(t, store.Wallet(testEngineerID, "cemento").IsZero())
	assert.Empty(t, store.Entries)
}

// Devolución: fulfilled -> in_stock, el maestro suma uno y la billetera del
// técnico queda saldada con los dos movimientos.
func TestReturnUnit(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1")
	runner := testutil.NewTxRunner(store)
	issueUC := issuance.NewIssueStockUseCase(runner)
	returnUC := issuance.NewReturnUnitUseCase(runner)
	ctx := context.Background()

	_, err := issueUC.IssueStock(ctx, issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-router", Barcodes: []string{"BC-1"}}},
	})
	require.NoError(t, err)

	require.NoError(t, returnUC.ReturnUnit(ctx, testCompanyID, testBodeguero, "BC-1"))

	u := store.Units["BC-1"]
	assert.Equal(t, entity.UnitStatusInStock, u.Status)
	assert.Nil(t, u.CurrentHolderID)
	assert.Nil(t, u.IssuedAt)
	assert.True(t, store.Masters["m-router"].TotalInStock.Equal(decimal.NewFromInt(1)))
	assert.True(t, store.Wallet(testEngineerID, "router").IsZero())

	// entrega + (return bodega, adjustment técnico)
	require.Len(t, store.Entries, 3)
	ret := store.Entries[1]
	assert.Equal(t, entity.TxTypeReturn, ret.Type)
	assert.Nil(t, ret.EngineerID)
	assert.True(t, ret.Quantity.Equal(decimal.NewFromInt(1)))
	adj := store.Entries[2]
	assert.Equal(t, entity.TxTypeAdjustment, adj.Type)
	require.NotNil(t, adj.EngineerID)
	assert.Equal(t, testEngineerID, *adj.EngineerID)
	assert.True(t, adj.Quantity.Equal(decimal.NewFromInt(-1)))

	// La suma firmada del ledger coincide con la proyección.
	sum, err := store.LedgerRepo().SumByEngineerAndItem(testEngineerID, "router")
	require.NoError(t, err)
	assert.True(t, sum.IsZero())
}

// Devolver una unidad que está en bodega es conflicto.
func TestReturnUnit_NoEntregadaEsConflicto(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1")
	returnUC := issuance.NewReturnUnitUseCase(testutil.NewTxRunner(store))

	err := returnUC.ReturnUnit(context.Background(), testCompanyID, testBodeguero, "BC-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}
