package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/invoicekit/fapiao/internal/entity"
)

func TestExportInvoicesXLSX(t *testing.T) {
	svc := NewService(nil)
	records := []entity.InvoiceRecord{
		sampleRecord(),
		{
			ID:            "6f1d2c3b-0000-4000-8000-000000000002",
			FileName:      "second.pdf",
			InvoiceCode:   "N/A",
			InvoiceNumber: "22222222",
			InvoiceDate:   "2024年1月2日",
			InvoiceType:   "N/A",
			BuyerName:     "甲公司",
			SellerName:    "乙公司",
			TotalAmount:   "0.00",
		},
	}

	data, err := svc.ExportInvoicesXLSX(records)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"发票"}, f.GetSheetList())

	rows, err := f.GetRows("发票")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])

	assert.Equal(t, "invoice.pdf", rows[1][1])
	assert.Equal(t, "1440320001", rows[1][2])
	assert.Equal(t, "1100000001", rows[1][3])
	assert.Equal(t, "2023年5月10日", rows[1][4])
	assert.Equal(t, "深圳市创新科技有限公司", rows[1][6])
	assert.Equal(t, "106.58", rows[1][8])

	assert.Equal(t, "second.pdf", rows[2][1])
	assert.Equal(t, "22222222", rows[2][3])
}

func TestExportInvoicesXLSXEmpty(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.ExportInvoicesXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("发票")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Headers, rows[0])
}
