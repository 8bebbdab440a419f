package parse

// BuildInvoiceJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing an assembled invoice record. The assembler
// validates every record it emits against this before handing it out.
func BuildInvoiceJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":      map[string]any{"type": "string", "minLength": 1},
			"unit":      map[string]any{"type": "string"},
			"quantity":  map[string]any{"type": "number"},
			"unitPrice": map[string]any{"type": "number", "minimum": 0.0},
			"amount":    map[string]any{"type": "number"},
			"taxRate":   map[string]any{"type": "string"},
			"taxAmount": map[string]any{"type": "number"},
		},
		"required": []string{"name", "quantity", "amount"},
	}

	props := map[string]any{
		"id":               map[string]any{"type": "string", "minLength": 1},
		"fileName":         map[string]any{"type": "string", "minLength": 1},
		"invoiceCode":      map[string]any{"type": "string", "minLength": 1},
		"invoiceNumber":    map[string]any{"type": "string", "pattern": `^\d{8,20}$`},
		"invoiceDate":      map[string]any{"type": "string", "pattern": `^\d{4}年\d{1,2}月\d{1,2}日$`},
		"invoiceType":      map[string]any{"type": "string", "minLength": 1},
		"buyerName":        map[string]any{"type": "string", "minLength": 1},
		"sellerName":       map[string]any{"type": "string", "minLength": 1},
		"totalAmount":      amountProp(),
		"amountWithoutTax": amountProp(),
		"taxAmount":        amountProp(),
		"items":            map[string]any{"type": []string{"array", "null"}, "items": item},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required": []string{
			"id", "fileName", "invoiceCode", "invoiceNumber", "invoiceDate",
			"invoiceType", "buyerName", "sellerName", "totalAmount",
			"amountWithoutTax", "taxAmount", "items",
		},
	}
}

func amountProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^\d+(\.\d{1,2})?$`,
	}
}
