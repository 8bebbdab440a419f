package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/invoicekit/fapiao/constants"
	"github.com/invoicekit/fapiao/internal/entity"
	"github.com/invoicekit/fapiao/internal/parse"
	"github.com/invoicekit/fapiao/internal/pdftext"
)

// PageSource exposes one file's pages as reconstructed text.
type PageSource interface {
	PageCount() int
	PageText(page int) (string, error)
}

// Opener opens a file's bytes as a PageSource. Stubbed in tests.
type Opener func(name string, data []byte, logger *slog.Logger) (PageSource, error)

// Recognizer is the OCR collaborator boundary: one page in, plain text out,
// fractional progress in [0,1] on the side.
type Recognizer interface {
	RecognizePage(ctx context.Context, data []byte, page int, progress func(float64)) (string, error)
}

// Processor drives the extraction pipeline over a collection of files,
// strictly one file at a time and one page at a time. OCR is memory-heavy;
// keeping the sequence single-writer also keeps progress monotonic without
// locks.
type Processor struct {
	logger *slog.Logger
	parser *parse.Parser
	opener Opener
	ocr    Recognizer

	maxOCRPages int

	jobs     []*FileJob
	status   constants.BatchStatus
	progress int
	records  []entity.InvoiceRecord
}

// Option configures a Processor.
type Option func(*Processor)

// WithOpener replaces the default PDF-backed page source.
func WithOpener(open Opener) Option {
	return func(p *Processor) { p.opener = open }
}

// WithRecognizer sets the OCR fallback engine. Without one, files whose
// text layer fails to parse simply fail.
func WithRecognizer(r Recognizer) Option {
	return func(p *Processor) { p.ocr = r }
}

// WithMaxOCRPages caps how many pages the OCR stage will attempt per file.
func WithMaxOCRPages(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxOCRPages = n
		}
	}
}

func NewProcessor(logger *slog.Logger, parser *parse.Parser, opts ...Option) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger: logger,
		parser: parser,
		opener: openPDF,
		status: constants.BatchStatusIdle,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Add queues a file for processing and returns its job ID.
func (p *Processor) Add(fileName string, data []byte) uuid.UUID {
	job := newFileJob(fileName, data)
	p.jobs = append(p.jobs, job)
	return job.ID
}

// Jobs returns the per-file jobs for status display.
func (p *Processor) Jobs() []*FileJob {
	return p.jobs
}

// Records returns the successfully extracted records, in processing order.
func (p *Processor) Records() []entity.InvoiceRecord {
	return p.records
}

// Status returns the overall batch status.
func (p *Processor) Status() constants.BatchStatus {
	return p.status
}

// Progress returns batch completion as an integer percentage.
func (p *Processor) Progress() int {
	return p.progress
}

// Reset discards all jobs and accumulated records.
func (p *Processor) Reset() {
	p.jobs = nil
	p.records = nil
	p.progress = 0
	p.status = constants.BatchStatusIdle
}

// ProcessAll runs every queued job sequentially. A failing file never
// aborts the batch; batch progress advances after each file regardless of
// its outcome. A cancelled context stops between files and is the only way
// to end a batch early.
func (p *Processor) ProcessAll(ctx context.Context) error {
	if len(p.jobs) == 0 {
		p.status = constants.BatchStatusFinished
		p.progress = 100
		return nil
	}

	p.status = constants.BatchStatusProcessing
	processed := 0
	for _, job := range p.jobs {
		if err := ctx.Err(); err != nil {
			p.status = constants.BatchStatusFinished
			return err
		}

		job.Status = constants.JobStatusProcessing
		rec, err := p.processJob(ctx, job)
		if err != nil {
			p.logger.Warn("file failed", "file", job.FileName, "job_id", job.ID, "err", err)
			job.Status = constants.JobStatusFailure
		} else {
			p.records = append(p.records, *rec)
			job.Status = constants.JobStatusSuccess
		}
		job.Progress = 100

		processed++
		p.progress = processed * 100 / len(p.jobs)
	}
	p.status = constants.BatchStatusFinished
	return nil
}

// stage attempts one acquisition strategy for a file. ok reports whether a
// page parsed into a complete record.
type stage struct {
	name string
	run  func(ctx context.Context, job *FileJob) (*entity.InvoiceRecord, bool, error)
}

// processJob runs the explicit two-stage attempt sequence: direct text
// layer first, OCR second. Each stage iterates pages and stops at the first
// page that parses; OCR only gets pages the direct stage proved
// unparseable. Panics (ledongthuc/pdf throws them on corrupt files) are
// converted into a per-file failure.
func (p *Processor) processJob(ctx context.Context, job *FileJob) (rec *entity.InvoiceRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while processing file", "file", job.FileName, "panic", r)
			rec, err = nil, fmt.Errorf("processing panicked: %v", r)
		}
	}()

	stages := []stage{
		{name: "direct", run: p.directStage},
		{name: "ocr", run: p.ocrStage},
	}
	for _, s := range stages {
		rec, ok, stageErr := s.run(ctx, job)
		if ok {
			p.logger.Info("file parsed", "file", job.FileName, "stage", s.name)
			return rec, nil
		}
		if stageErr != nil {
			p.logger.Warn("stage failed", "file", job.FileName, "stage", s.name, "err", stageErr)
		}
	}
	return nil, fmt.Errorf("no page yielded a complete record")
}

func (p *Processor) directStage(_ context.Context, job *FileJob) (*entity.InvoiceRecord, bool, error) {
	src, err := p.opener(job.FileName, job.Data, p.logger)
	if err != nil {
		return nil, false, err
	}
	for page := 1; page <= src.PageCount(); page++ {
		text, err := src.PageText(page)
		if err != nil {
			p.logger.Warn("text layer failed", "file", job.FileName, "page", page, "err", err)
			continue
		}
		if text == "" {
			// no embedded text on this page; a signal, not an error
			continue
		}
		if rec, ok := p.parser.Parse(text, job.FileName); ok {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

func (p *Processor) ocrStage(ctx context.Context, job *FileJob) (*entity.InvoiceRecord, bool, error) {
	if p.ocr == nil {
		return nil, false, nil
	}
	src, err := p.opener(job.FileName, job.Data, p.logger)
	if err != nil {
		return nil, false, err
	}
	pages := src.PageCount()
	if p.maxOCRPages > 0 && pages > p.maxOCRPages {
		pages = p.maxOCRPages
	}
	for page := 1; page <= pages; page++ {
		text, err := p.ocr.RecognizePage(ctx, job.Data, page, func(frac float64) {
			job.Progress = int(frac * 100)
		})
		if err != nil {
			p.logger.Warn("ocr failed", "file", job.FileName, "page", page, "err", err)
			continue
		}
		if rec, ok := p.parser.Parse(text, job.FileName); ok {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

// pdfSource adapts pdftext.Document to the PageSource boundary.
type pdfSource struct {
	doc *pdftext.Document
}

func (s pdfSource) PageCount() int {
	return s.doc.PageCount()
}

func (s pdfSource) PageText(page int) (string, error) {
	tokens, err := s.doc.Tokens(page)
	if err != nil {
		return "", err
	}
	return pdftext.ReconstructLines(tokens), nil
}

func openPDF(name string, data []byte, logger *slog.Logger) (PageSource, error) {
	doc, err := pdftext.Open(name, data, logger)
	if err != nil {
		return nil, err
	}
	return pdfSource{doc: doc}, nil
}
