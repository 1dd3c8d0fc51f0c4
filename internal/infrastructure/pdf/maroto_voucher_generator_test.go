package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
)

func TestGenerateVoucher(t *testing.T) {
	gen := pdf.NewMarotoVoucherGenerator()

	raw, err := gen.GenerateVoucher(issuance.VoucherData{
		BatchID:    "b1c2d3e4-0000-0000-0000-000000000000",
		BatchName:  "ENT-b1c2d3e4",
		EngineerID: "eng-1",
		IssuedAt:   "2026-08-30 14:05",
		Lines: []issuance.VoucherLine{
			{ItemName: "cemento", Quantity: "10", Unit: "kg"},
			{ItemName: "router ax1800", Quantity: "2", Unit: "und"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestGenerateVoucher_SinLineas(t *testing.T) {
	gen := pdf.NewMarotoVoucherGenerator()

	raw, err := gen.GenerateVoucher(issuance.VoucherData{
		BatchID:   "b1c2d3e4-0000-0000-0000-000000000000",
		BatchName: "ENT-b1c2d3e4",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
}
