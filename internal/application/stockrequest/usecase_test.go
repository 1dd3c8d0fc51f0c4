package stockrequest_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/application/stockrequest"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
)

const (
	testCompanyID  = "comp-1"
	testAdminID    = "user-admin"
	testEngineerID = "eng-1"
	otherEngineer  = "eng-2"
)

func newUseCase(store *testutil.Store) *stockrequest.UseCase {
	runner := testutil.NewTxRunner(store)
	return stockrequest.NewUseCase(store.RequestRepo(), runner, issuance.NewIssueStockUseCase(runner))
}

func seedBulk(store *testutil.Store, id, name string, stock int64) {
	store.Masters[id] = &entity.MasterItem{
		ID:           id,
		CompanyID:    testCompanyID,
		ProductName:  name,
		NameKey:      name,
		PartNo:       "none",
		UnitMeasure:  "und",
		TotalInStock: decimal.NewFromInt(stock),
	}
}

func seedSerialized(store *testutil.Store, id, name string, barcodes ...string) {
	store.Masters[id] = &entity.MasterItem{
		ID:           id,
		CompanyID:    testCompanyID,
		ProductName:  name,
		NameKey:      name,
		PartNo:       "none",
		UnitMeasure:  "und",
		TotalInStock: decimal.NewFromInt(int64(len(barcodes))),
		Serialized:   true,
	}
	// ReceivedAt creciente con el orden de los barcodes: el primero es el más antiguo.
	base := time.Now().Add(-time.Hour)
	for i, bc := range barcodes {
		store.Units[bc] = &entity.InventoryUnit{
			ID:         bc + "-id",
			MasterID:   id,
			Barcode:    bc,
			SKU:        "SKU-" + bc,
			Status:     entity.UnitStatusInStock,
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
}

func createPending(t *testing.T, uc *stockrequest.UseCase, items ...entity.StockRequestItem) *entity.StockRequest {
	t.Helper()
	req, err := uc.Create(context.Background(), stockrequest.CreateInput{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		Notes:      "materiales obra norte",
		Items:      items,
	})
	require.NoError(t, err)
	return req
}

func TestCreate(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})

	assert.Equal(t, entity.RequestStatusPending, req.Status)
	assert.Equal(t, testEngineerID, req.EngineerID)
	assert.NotEmpty(t, req.ID)
	assert.NotNil(t, store.Requests[req.ID])
}

func TestCreate_Validacion(t *testing.T) {
	uc := newUseCase(testutil.NewStore())
	ctx := context.Background()

	_, err := uc.Create(ctx, stockrequest.CreateInput{CompanyID: testCompanyID, EngineerID: testEngineerID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, stockrequest.CreateInput{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		Items:      []entity.StockRequestItem{{MasterID: "m-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateItems_SoloPendingYPropietario(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})

	// El solicitante puede editar mientras está pending.
	updated, err := uc.UpdateItems(ctx, req.ID, testEngineerID,
		[]entity.StockRequestItem{{MasterID: "m-cemento", Quantity: 15}}, "ajuste de cantidades")
	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Items[0].Quantity)
	assert.Equal(t, "ajuste de cantidades", updated.Notes)

	// Otro técnico no.
	_, err = uc.UpdateItems(ctx, req.ID, otherEngineer,
		[]entity.StockRequestItem{{MasterID: "m-cemento", Quantity: 1}}, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Tras la decisión del admin tampoco el solicitante.
	_, err = uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusRejected, "sin presupuesto")
	require.NoError(t, err)
	_, err = uc.UpdateItems(ctx, req.ID, testEngineerID,
		[]entity.StockRequestItem{{MasterID: "m-cemento", Quantity: 1}}, "")
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)

	// Todo el ciclo pending -> rejected transcurre sin tocar el ledger.
	assert.Empty(t, store.Entries)
}

func TestProcess(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})

	processed, err := uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "ok")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusApproved, processed.Status)
	assert.Equal(t, "ok", processed.AdminNotes)
	require.NotNil(t, processed.ApprovedBy)
	assert.Equal(t, testAdminID, *processed.ApprovedBy)

	// Una decisión es final: reprocesar es conflicto.
	_, err = uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusRejected, "")
	assert.ErrorIs(t, err, domain.ErrRequestNotPending)
}

func TestProcess_DecisionInvalida(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})

	_, err := uc.Process(context.Background(), req.ID, testCompanyID, testAdminID, "fulfilled", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cumplir una solicitud aprobada entrega los materiales y la marca fulfilled
// en la misma transacción.
func TestFulfill(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})
	_, err := uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "")
	require.NoError(t, err)

	out, err := uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, "SOL-"+req.ID[:8], out.BatchName)

	assert.Equal(t, entity.RequestStatusFulfilled, store.Requests[req.ID].Status)
	assert.True(t, store.Masters["m-cemento"].TotalInStock.Equal(decimal.NewFromInt(40)))
	assert.True(t, store.Wallet(testEngineerID, "cemento").Equal(decimal.NewFromInt(10)))

	entries, err := store.LedgerRepo().ListByBatch(out.BatchID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "SOL-"+req.ID[:8], entries[0].BatchName)

	// fulfilled es terminal.
	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrRequestNotApproved)
}

func TestFulfill_SoloAprobadas(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})

	_, err := uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrRequestNotApproved)

	_, err = uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusRejected, "")
	require.NoError(t, err)
	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	assert.ErrorIs(t, err, domain.ErrRequestNotApproved)
}

// Si la entrega falla, el rollback deja la solicitud approved y reintentable.
func TestFulfill_StockInsuficienteDejaAprobada(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 5)
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 10})
	_, err := uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "")
	require.NoError(t, err)

	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, entity.RequestStatusApproved, store.Requests[req.ID].Status)
	assert.True(t, store.Masters["m-cemento"].TotalInStock.Equal(decimal.NewFromInt(5)))
	assert.True(t, store.Wallet(testEngineerID, "cemento").IsZero())

	// Llega stock y el reintento funciona.
	store.Masters["m-cemento"].TotalInStock = decimal.NewFromInt(20)
	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusFulfilled, store.Requests[req.ID].Status)
}

// Una solicitud de producto serializado se cumple eligiendo en bodega las
// unidades in_stock más antiguas: el técnico pide cantidad, no barcodes.
func TestFulfill_SerializadoEligeUnidadesMasAntiguas(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1", "BC-2", "BC-3")
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-router", Quantity: 2})
	_, err := uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "")
	require.NoError(t, err)

	out, err := uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.NoError(t, err)

	assert.Equal(t, entity.RequestStatusFulfilled, store.Requests[req.ID].Status)
	for _, bc := range []string{"BC-1", "BC-2"} {
		u := store.Units[bc]
		assert.Equal(t, entity.UnitStatusFulfilled, u.Status, bc)
		require.NotNil(t, u.CurrentHolderID, bc)
		assert.Equal(t, testEngineerID, *u.CurrentHolderID, bc)
	}
	assert.Equal(t, entity.UnitStatusInStock, store.Units["BC-3"].Status, "la unidad más reciente queda en bodega")
	assert.True(t, store.Masters["m-router"].TotalInStock.Equal(decimal.NewFromInt(1)))
	assert.True(t, store.Wallet(testEngineerID, "router").Equal(decimal.NewFromInt(2)))

	entries, err := store.LedgerRepo().ListByBatch(out.BatchID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Quantity.Equal(decimal.NewFromInt(2)))
}

// Sin unidades suficientes el cumplimiento falla completo y la solicitud sigue
// approved; cuando la bodega repone, el reintento funciona.
func TestFulfill_SerializadoSinUnidadesDejaAprobada(t *testing.T) {
	store := testutil.NewStore()
	seedSerialized(store, "m-router", "router", "BC-1")
	uc := newUseCase(store)
	ctx := context.Background()

	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-router", Quantity: 2})
	_, err := uc.Process(ctx, req.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "")
	require.NoError(t, err)

	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, entity.RequestStatusApproved, store.Requests[req.ID].Status)
	assert.Equal(t, entity.UnitStatusInStock, store.Units["BC-1"].Status)
	assert.True(t, store.Wallet(testEngineerID, "router").IsZero())

	// Llega otra unidad y el reintento entrega ambas.
	store.Units["BC-2"] = &entity.InventoryUnit{
		ID: "BC-2-id", MasterID: "m-router", Barcode: "BC-2", SKU: "SKU-BC-2",
		Status: entity.UnitStatusInStock, ReceivedAt: time.Now(),
	}
	store.Masters["m-router"].TotalInStock = decimal.NewFromInt(2)

	_, err = uc.Fulfill(ctx, req.ID, testCompanyID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusFulfilled, store.Requests[req.ID].Status)
	assert.True(t, store.Wallet(testEngineerID, "router").Equal(decimal.NewFromInt(2)))
}

func TestGetByID_OtraCompania(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	req := createPending(t, uc, entity.StockRequestItem{MasterID: "m-cemento", Quantity: 1})

	_, err := uc.GetByID(context.Background(), req.ID, "otra-compania")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListByCompany_FiltraPorEstado(t *testing.T) {
	store := testutil.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	r1 := createPending(t, uc, entity.StockRequestItem{MasterID: "m-1", Quantity: 1})
	createPending(t, uc, entity.StockRequestItem{MasterID: "m-2", Quantity: 2})
	_, err := uc.Process(ctx, r1.ID, testCompanyID, testAdminID, entity.RequestStatusApproved, "")
	require.NoError(t, err)

	approved, err := uc.ListByCompany(ctx, testCompanyID, entity.RequestStatusApproved, 50, 0)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, r1.ID, approved[0].ID)

	all, err := uc.ListByCompany(ctx, testCompanyID, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
