package parse

import (
	"log/slog"

	"github.com/invoicekit/fapiao/internal/entity"
)

// Parser runs the full text-to-record path for one page of text:
// normalize, extract fields, extract line items, assemble.
type Parser struct {
	logger    *slog.Logger
	extractor *Extractor
	assembler *Assembler
}

// NewParser builds a Parser. A nil split uses DefaultSplit.
func NewParser(logger *slog.Logger, split SplitFunc) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:    logger,
		extractor: NewExtractor(logger, split),
		assembler: NewAssembler(logger),
	}
}

// Parse attempts to turn one page's reconstructed text into a complete
// record. ok is false when the page is unparseable; that is a signal to try
// the next page or the next stage, not an error.
func (p *Parser) Parse(raw, fileName string) (*entity.InvoiceRecord, bool) {
	text := Normalize(raw)
	if text == "" {
		return nil, false
	}

	fields := p.extractor.Extract(text)
	if fields == nil {
		return nil, false
	}

	// Line items read the raw text: entry boundaries follow the original
	// line breaks.
	items := ExtractLineItems(raw)

	rec, err := p.assembler.Assemble(fileName, fields, items)
	if err != nil {
		p.logger.Error("assembly failed on validated fields", "file", fileName, "err", err)
		return nil, false
	}

	p.logger.Debug("page parsed",
		"file", fileName,
		"invoice_number", rec.InvoiceNumber,
		"items", len(rec.Items),
		"confidence", heuristicConfidence(text),
	)
	return rec, true
}
