package entity

// LineItem is one parsed row of the invoice's goods/services grid.
// Rows missing a name, quantity, or amount are dropped during parsing and
// never reach this type.
type LineItem struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
	TaxRate   string  `json:"taxRate"`
	TaxAmount float64 `json:"taxAmount"`
}

// InvoiceRecord is the assembled output for one file. Immutable after
// assembly; amount fields hold plain decimal strings ("0.00" when
// unresolved), textual fields hold "N/A" when unresolved.
type InvoiceRecord struct {
	ID               string     `json:"id"`
	FileName         string     `json:"fileName"`
	InvoiceCode      string     `json:"invoiceCode"`
	InvoiceNumber    string     `json:"invoiceNumber"`
	InvoiceDate      string     `json:"invoiceDate"`
	InvoiceType      string     `json:"invoiceType"`
	BuyerName        string     `json:"buyerName"`
	SellerName       string     `json:"sellerName"`
	TotalAmount      string     `json:"totalAmount"`
	AmountWithoutTax string     `json:"amountWithoutTax"`
	TaxAmount        string     `json:"taxAmount"`
	Items            []LineItem `json:"items"`
}
