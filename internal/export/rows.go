package export

import (
	"fmt"
	"strconv"

	"github.com/invoicekit/fapiao/internal/entity"
)

// Headers are the flat-export column titles, in row order.
var Headers = []string{
	"ID",
	"文件名",
	"发票代码",
	"发票号码",
	"开票日期",
	"发票类型",
	"购买方名称",
	"销售方名称",
	"价税合计",
	"不含税金额",
	"税额",
}

// RowFromRecord flattens a record for spreadsheet export. Amount fields are
// coerced to numbers; the line-items column is deliberately absent from the
// flat shape. Everything except that coercion survives a round trip through
// RecordFromRow.
func RowFromRecord(r entity.InvoiceRecord) []any {
	return []any{
		r.ID,
		r.FileName,
		r.InvoiceCode,
		r.InvoiceNumber,
		r.InvoiceDate,
		r.InvoiceType,
		r.BuyerName,
		r.SellerName,
		coerceAmount(r.TotalAmount),
		coerceAmount(r.AmountWithoutTax),
		coerceAmount(r.TaxAmount),
	}
}

// RecordFromRow rebuilds a record from a flat row. Items are not part of the
// flat shape and come back empty.
func RecordFromRow(row []any) (entity.InvoiceRecord, error) {
	if len(row) != len(Headers) {
		return entity.InvoiceRecord{}, fmt.Errorf("row has %d cells, want %d", len(row), len(Headers))
	}
	return entity.InvoiceRecord{
		ID:               asString(row[0]),
		FileName:         asString(row[1]),
		InvoiceCode:      asString(row[2]),
		InvoiceNumber:    asString(row[3]),
		InvoiceDate:      asString(row[4]),
		InvoiceType:      asString(row[5]),
		BuyerName:        asString(row[6]),
		SellerName:       asString(row[7]),
		TotalAmount:      asAmount(row[8]),
		AmountWithoutTax: asAmount(row[9]),
		TaxAmount:        asAmount(row[10]),
	}, nil
}

// coerceAmount turns a money string into a float64 cell value, leaving
// non-numeric values (which should not occur) as-is.
func coerceAmount(s string) any {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return s
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asAmount(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", v)
	}
}
