package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicekit/fapiao/constants"
	"github.com/invoicekit/fapiao/internal/entity"
)

func mandatoryFields() *Fields {
	f := NewFields()
	f.Set(constants.FieldInvoiceNumber, "1100000001")
	f.Set(constants.FieldInvoiceDate, "2023年5月10日")
	f.Set(constants.FieldBuyerName, "甲公司")
	f.Set(constants.FieldSellerName, "乙公司")
	return f
}

func TestAssembleDefaults(t *testing.T) {
	a := NewAssembler(nil)
	rec, err := a.Assemble("invoice.pdf", mandatoryFields(), nil)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "invoice.pdf", rec.FileName)
	assert.Equal(t, "1100000001", rec.InvoiceNumber)
	assert.Equal(t, "2023年5月10日", rec.InvoiceDate)

	// Unresolved keys come back as sentinels, never absent.
	assert.Equal(t, "N/A", rec.InvoiceCode)
	assert.Equal(t, "N/A", rec.InvoiceType)
	assert.Equal(t, "0.00", rec.TotalAmount)
	assert.Equal(t, "0.00", rec.AmountWithoutTax)
	assert.Equal(t, "0.00", rec.TaxAmount)
	assert.Empty(t, rec.Items)
}

func TestAssembleMandatoryMissing(t *testing.T) {
	a := NewAssembler(nil)

	f := NewFields()
	f.Set(constants.FieldInvoiceNumber, "1100000001")
	f.Set(constants.FieldInvoiceDate, "2023年5月10日")
	f.Set(constants.FieldBuyerName, "甲公司")
	// seller missing

	rec, err := a.Assemble("invoice.pdf", f, nil)
	assert.Nil(t, rec)
	assert.Error(t, err)

	rec, err = a.Assemble("invoice.pdf", nil, nil)
	assert.Nil(t, rec)
	assert.Error(t, err)
}

func TestAssembleCarriesItems(t *testing.T) {
	a := NewAssembler(nil)
	items := []entity.LineItem{
		{Name: "打印机", Unit: "台", Quantity: 2, UnitPrice: 50, Amount: 100, TaxRate: "13%", TaxAmount: 13},
	}
	rec, err := a.Assemble("invoice.pdf", mandatoryFields(), items)
	require.NoError(t, err)
	require.Len(t, rec.Items, 1)
	assert.Equal(t, "打印机", rec.Items[0].Name)
}

func TestAssembleUniqueIDs(t *testing.T) {
	a := NewAssembler(nil)
	r1, err := a.Assemble("a.pdf", mandatoryFields(), nil)
	require.NoError(t, err)
	r2, err := a.Assemble("b.pdf", mandatoryFields(), nil)
	require.NoError(t, err)
	assert.NotEqual(t, r1.ID, r2.ID)
}

func TestInvoiceSchemaAcceptsAssembledRecord(t *testing.T) {
	// Schema and assembler must agree; a sentinel-filled record validates.
	a := NewAssembler(nil)
	rec, err := a.Assemble("invoice.pdf", mandatoryFields(), nil)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestValidateJSONAgainstSchemaRejects(t *testing.T) {
	schema := BuildInvoiceJSONSchema()
	err := ValidateJSONAgainstSchema(schema, []byte(`{"id":"x"}`))
	assert.Error(t, err)
}
