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

// fakeGenerator captura el VoucherData recibido y devuelve bytes fijos.
type fakeGenerator struct {
	got issuance.VoucherData
}

func (g *fakeGenerator) GenerateVoucher(data issuance.VoucherData) ([]byte, error) {
	g.got = data
	return []byte("%PDF-fake"), nil
}

func TestGenerateForBatch(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	seedBulk(store, "m-arena", "arena", 30)
	issueUC := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	out, err := issueUC.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		BatchName:  "ENT-OBRA-7",
		RecordedBy: testBodeguero,
		Items: []issuance.ItemInput{
			{MasterID: "m-cemento", Quantity: 10},
			{MasterID: "m-arena", Quantity: 5},
		},
	})
	require.NoError(t, err)

	gen := &fakeGenerator{}
	voucherUC := issuance.NewVoucherUseCase(store.LedgerRepo(), gen)

	pdf, err := voucherUC.GenerateForBatch(context.Background(), testCompanyID, out.BatchID, "")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	assert.Equal(t, out.BatchID, gen.got.BatchID)
	assert.Equal(t, "ENT-OBRA-7", gen.got.BatchName)
	assert.Equal(t, testEngineerID, gen.got.EngineerID)
	require.Len(t, gen.got.Lines, 2)
	assert.Equal(t, "cemento", gen.got.Lines[0].ItemName)
	assert.Equal(t, "10", gen.got.Lines[0].Quantity)
	assert.Equal(t, "arena", gen.got.Lines[1].ItemName)
}

func TestGenerateForBatch_BatchInexistente(t *testing.T) {
	store := testutil.NewStore()
	voucherUC := issuance.NewVoucherUseCase(store.LedgerRepo(), &fakeGenerator{})

	_, err := voucherUC.GenerateForBatch(context.Background(), testCompanyID, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGenerateForBatch_OtraCompania(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	issueUC := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	out, err := issueUC.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-cemento", Quantity: 1}},
	})
	require.NoError(t, err)

	voucherUC := issuance.NewVoucherUseCase(store.LedgerRepo(), &fakeGenerator{})
	_, err = voucherUC.GenerateForBatch(context.Background(), "otra-compania", out.BatchID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Con el filtro de técnico activo, solo el destinatario de la entrega puede
// descargar el comprobante.
func TestGenerateForBatch_SoloElTecnicoDeLaEntrega(t *testing.T) {
	store := testutil.NewStore()
	seedBulk(store, "m-cemento", "cemento", 50)
	issueUC := issuance.NewIssueStockUseCase(testutil.NewTxRunner(store))

	out, err := issueUC.IssueStock(context.Background(), issuance.Input{
		CompanyID:  testCompanyID,
		EngineerID: testEngineerID,
		RecordedBy: testBodeguero,
		Items:      []issuance.ItemInput{{MasterID: "m-cemento", Quantity: 1}},
	})
	require.NoError(t, err)

	voucherUC := issuance.NewVoucherUseCase(store.LedgerRepo(), &fakeGenerator{})

	_, err = voucherUC.GenerateForBatch(context.Background(), testCompanyID, out.BatchID, otherEngineer)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	pdf, err := voucherUC.GenerateForBatch(context.Background(), testCompanyID, out.BatchID, testEngineerID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

// Un batch de recepción no tiene técnico asociado: no se emite comprobante.
func TestGenerateForBatch_BatchDeRecepcion(t *testing.T) {
	store := testutil.NewStore()
	m := seedBulk(store, "m-cemento", "cemento", 0)
	batchID := "rec-batch-1"
	entry := &entity.LedgerEntry{
		CompanyID: testCompanyID,
		BatchID:   &batchID,
		BatchName: "REC-001",
		ItemName:  m.ProductName,
		Quantity:  decimal.NewFromInt(10),
		Unit:      m.UnitMeasure,
		Type:      entity.TxTypeRestock,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.LedgerRepo().Create(entry))

	voucherUC := issuance.NewVoucherUseCase(store.LedgerRepo(), &fakeGenerator{})
	_, err := voucherUC.GenerateForBatch(context.Background(), testCompanyID, batchID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
