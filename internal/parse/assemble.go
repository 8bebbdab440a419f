package parse

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/invoicekit/fapiao/constants"
	"github.com/invoicekit/fapiao/internal/common"
	"github.com/invoicekit/fapiao/internal/entity"
)

// Assembler combines extracted fields and line items into an InvoiceRecord.
type Assembler struct {
	logger *slog.Logger
}

func NewAssembler(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{logger: logger}
}

// Assemble builds the final record for one file. Every declared field key is
// present in the output, defaulting to "N/A" (textual) or "0.00" (amounts)
// when unresolved. The mandatory-field rule is asserted here rather than
// trusted to the extraction order: fields missing any of the four mandatory
// keys never produce a record. The marshalled record is checked against the
// invoice schema before it leaves.
func (a *Assembler) Assemble(fileName string, f *Fields, items []entity.LineItem) (*entity.InvoiceRecord, error) {
	if f == nil || !f.HasAll(constants.MandatoryFields) {
		return nil, common.NewAppError("ASSEMBLE_ERROR",
			"mandatory invoice fields missing", common.ErrUnparseable)
	}

	get := func(key string) string {
		if v, ok := f.Get(key); ok {
			return v
		}
		if constants.IsAmountField(key) {
			return constants.DefaultAmount
		}
		return constants.DefaultText
	}

	rec := &entity.InvoiceRecord{
		ID:               uuid.NewString(),
		FileName:         fileName,
		InvoiceCode:      get(constants.FieldInvoiceCode),
		InvoiceNumber:    get(constants.FieldInvoiceNumber),
		InvoiceDate:      get(constants.FieldInvoiceDate),
		InvoiceType:      get(constants.FieldInvoiceType),
		BuyerName:        get(constants.FieldBuyerName),
		SellerName:       get(constants.FieldSellerName),
		TotalAmount:      get(constants.FieldTotalAmount),
		AmountWithoutTax: get(constants.FieldAmountWithoutTax),
		TaxAmount:        get(constants.FieldTaxAmount),
		Items:            items,
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildInvoiceJSONSchema(), b); err != nil {
		return nil, common.NewAppError("ASSEMBLE_ERROR",
			"assembled record failed schema validation", err)
	}
	return rec, nil
}
