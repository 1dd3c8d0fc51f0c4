package receiving_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/receiving"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/testutil"
)

const (
	testCompanyID = "comp-1"
	testUserID    = "user-bodega"
)

func newUseCase() (*receiving.ReceiveStockUseCase, *testutil.Store) {
	store := testutil.NewStore()
	return receiving.NewReceiveStockUseCase(testutil.NewTxRunner(store)), store
}

// Recepción mixta: una línea a granel y una serializada en el mismo batch.
func TestReceiveBatch_GranelYSerializado(t *testing.T) {
	uc, store := newUseCase()

	out, err := uc.ReceiveBatch(context.Background(), receiving.BatchInput{
		CompanyID:    testCompanyID,
		ReceivedBy:   testUserID,
		SupplierName: "Distribuidora Norte",
		ReferenceNo:  "REM-0042",
		Lines: []receiving.LineInput{
			{
				ProductName:   "Cable UTP Cat6",
				Category:      "cableado",
				UnitMeasure:   "mts",
				PurchasePrice: decimal.NewFromInt(2),
				Quantity:      50,
			},
			{
				ProductName:   "Router AX1800",
				PartNo:        "AX-1800",
				Category:      "equipos",
				PurchasePrice: decimal.NewFromInt(120),
				Units: []receiving.UnitInput{
					{Barcode: "BC-001"},
					{Barcode: "BC-002"},
					{Barcode: "BC-003"},
				},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "REM-0042", out.BatchName, "el nombre del lote viene de la remisión")
	assert.True(t, out.TotalItems.Equal(decimal.NewFromInt(53)))

	// Catálogo maestro: dos productos con su modo de seriado fijado.
	cable, err := store.MasterRepo().GetByNaturalKey(testCompanyID, "cable utp cat6", "none")
	require.NoError(t, err)
	require.NotNil(t, cable)
	assert.False(t, cable.Serialized)
	assert.True(t, cable.TotalInStock.Equal(decimal.NewFromInt(50)))

	router, err := store.MasterRepo().GetByNaturalKey(testCompanyID, "router ax1800", "ax-1800")
	require.NoError(t, err)
	require.NotNil(t, router)
	assert.True(t, router.Serialized)
	assert.True(t, router.TotalInStock.Equal(decimal.NewFromInt(3)))

	// 3 unidades quedan en bodega.
	count, err := store.UnitRepo().CountByMasterAndStatus(router.ID, entity.UnitStatusInStock)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Un movimiento restock por línea, ambos a nivel bodega (sin técnico).
	entries, err := store.LedgerRepo().ListByBatch(out.BatchID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, entity.TxTypeRestock, e.Type)
		assert.Nil(t, e.EngineerID, "los restock de recepción no pertenecen a ninguna billetera")
		assert.Equal(t, "REM-0042", e.BatchName)
	}
}

// Sin remisión el nombre del lote se deriva del ID del batch.
func TestReceiveBatch_NombrePorDefecto(t *testing.T) {
	uc, _ := newUseCase()

	out, err := uc.ReceiveBatch(context.Background(), receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines: []receiving.LineInput{
			{ProductName: "Tornillo 3/8", Quantity: 100},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "REC-"+out.BatchID[:8], out.BatchName)
}

// Recepciones repetidas del mismo producto acumulan sobre el mismo maestro,
// aunque el nombre venga con mayúsculas y tildes distintas.
func TestReceiveBatch_ClaveNaturalNormalizada(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines:      []receiving.LineInput{{ProductName: "Conector Rápido", Quantity: 10}},
	})
	require.NoError(t, err)

	_, err = uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines:      []receiving.LineInput{{ProductName: "  CONECTOR   RAPIDO ", Quantity: 5}},
	})
	require.NoError(t, err)

	assert.Len(t, store.Masters, 1, "ambas recepciones resuelven al mismo maestro")
	m, err := store.MasterRepo().GetByNaturalKey(testCompanyID, "conector rapido", "none")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.True(t, m.TotalInStock.Equal(decimal.NewFromInt(15)))
}

// Un barcode duplicado revierte la recepción completa: ni el maestro nuevo ni
// las unidades de otras líneas persisten.
func TestReceiveBatch_BarcodeDuplicadoRevierteTodo(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines: []receiving.LineInput{
			{ProductName: "ONT Fibra", Units: []receiving.UnitInput{{Barcode: "BC-100"}}},
		},
	})
	require.NoError(t, err)

	_, err = uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines: []receiving.LineInput{
			{ProductName: "Cinta Aislante", Quantity: 20},
			{ProductName: "ONT Fibra", Units: []receiving.UnitInput{{Barcode: "BC-100"}}},
		},
	})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	// Rollback completo: la cinta de la primera línea no quedó registrada.
	cinta, err := store.MasterRepo().GetByNaturalKey(testCompanyID, "cinta aislante", "none")
	require.NoError(t, err)
	assert.Nil(t, cinta)
	assert.Len(t, store.Batches, 1, "solo la primera recepción persiste")

	ont, err := store.MasterRepo().GetByNaturalKey(testCompanyID, "ont fibra", "none")
	require.NoError(t, err)
	require.NotNil(t, ont)
	assert.True(t, ont.TotalInStock.Equal(decimal.NewFromInt(1)), "el stock de la primera recepción queda intacto")
}

// El modo de seriado es inmutable: una línea a granel de un producto serializado
// (o al revés) es un conflicto.
func TestReceiveBatch_ModoSeriadoInmutable(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines: []receiving.LineInput{
			{ProductName: "Router AX1800", Units: []receiving.UnitInput{{Barcode: "BC-200"}}},
		},
	})
	require.NoError(t, err)

	_, err = uc.ReceiveBatch(ctx, receiving.BatchInput{
		CompanyID:  testCompanyID,
		ReceivedBy: testUserID,
		Lines: []receiving.LineInput{
			{ProductName: "Router AX1800", Quantity: 5},
		},
	})
	require.ErrorIs(t, err, domain.ErrSerialityMismatch)
}

func TestReceiveBatch_Validacion(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	cases := []struct {
		name  string
		input receiving.BatchInput
	}{
		{"sin líneas", receiving.BatchInput{CompanyID: testCompanyID, ReceivedBy: testUserID}},
		{"sin company", receiving.BatchInput{ReceivedBy: testUserID, Lines: []receiving.LineInput{{ProductName: "X", Quantity: 1}}}},
		{"línea sin nombre", receiving.BatchInput{CompanyID: testCompanyID, ReceivedBy: testUserID, Lines: []receiving.LineInput{{Quantity: 1}}}},
		{"granel y serializado a la vez", receiving.BatchInput{CompanyID: testCompanyID, ReceivedBy: testUserID, Lines: []receiving.LineInput{
			{ProductName: "X", Quantity: 2, Units: []receiving.UnitInput{{Barcode: "B"}}},
		}}},
		{"ni granel ni serializado", receiving.BatchInput{CompanyID: testCompanyID, ReceivedBy: testUserID, Lines: []receiving.LineInput{{ProductName: "X"}}}},
		{"barcode vacío", receiving.BatchInput{CompanyID: testCompanyID, ReceivedBy: testUserID, Lines: []receiving.LineInput{
			{ProductName: "X", Units: []receiving.UnitInput{{Barcode: ""}}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.ReceiveBatch(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
