package constants

// Field keys for an extracted invoice. Store these exact strings;
// the export layer and the record schema both key off them.
const (
	FieldInvoiceCode      = "invoiceCode"
	FieldInvoiceNumber    = "invoiceNumber"
	FieldInvoiceDate      = "invoiceDate"
	FieldInvoiceType      = "invoiceType"
	FieldBuyerName        = "buyerName"
	FieldSellerName       = "sellerName"
	FieldTotalAmount      = "totalAmount"
	FieldAmountWithoutTax = "amountWithoutTax"
	FieldTaxAmount        = "taxAmount"
)

// FieldKeys lists every field key in output order.
var FieldKeys = []string{
	FieldInvoiceCode,
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldInvoiceType,
	FieldBuyerName,
	FieldSellerName,
	FieldTotalAmount,
	FieldAmountWithoutTax,
	FieldTaxAmount,
}

// AmountFields holds the keys whose values are money strings; they default
// to DefaultAmount instead of DefaultText and are coerced to numbers on
// export.
var AmountFields = map[string]struct{}{
	FieldTotalAmount:      {},
	FieldAmountWithoutTax: {},
	FieldTaxAmount:        {},
}

// MandatoryFields are the keys whose absence invalidates the whole record.
var MandatoryFields = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldBuyerName,
	FieldSellerName,
}

// Sentinel values for fields still unresolved after every fallback pass.
const (
	DefaultText   = "N/A"
	DefaultAmount = "0.00"
)

// IsAmountField reports whether key holds a money string.
func IsAmountField(key string) bool {
	_, ok := AmountFields[key]
	return ok
}
