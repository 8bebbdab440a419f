package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/invoicekit/fapiao/internal/common"
)

// Engine recognizes the text of single PDF pages. It shells out to pdftoppm
// for rasterization and tesseract for recognition, with an image
// preprocessing step in between. Invoked only when the direct text layer
// fails to parse.
type Engine struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg common.OCRConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "chi_sim"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.ScaleFactor < 1.0 {
		cfg.ScaleFactor = 2.0
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// RecognizePage rasterizes one page (1-indexed) of the given PDF bytes and
// returns the recognized plain text. progress, when non-nil, receives
// fractional completion values in [0,1]; the final call is always 1.0 on
// success. Page artifacts live in a temp dir removed before returning.
func (e *Engine) RecognizePage(ctx context.Context, data []byte, page int, progress func(float64)) (string, error) {
	report := func(v float64) {
		if progress != nil {
			progress(v)
		}
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	tmpDir, err := os.MkdirTemp("", "fapiao-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return "", err
	}

	// pdftoppm -f N -l N -r <dpi> -png in.pdf <tmp/page>
	prefix := filepath.Join(tmpDir, "page")
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-f", fmt.Sprintf("%d", page),
		"-l", fmt.Sprintf("%d", page),
		"-r", fmt.Sprintf("%d", e.cfg.DPI),
		"-png", in, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w (%s)", page, err, truncate(string(errb), 512))
	}
	report(0.25)

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	img, err := preprocessImage(matches[0], e.cfg.ScaleFactor)
	if err != nil {
		return "", err
	}
	report(0.5)

	txt, err := e.tesseract(ctx, img)
	if err != nil {
		return "", err
	}
	report(1.0)
	return txt, nil
}

func (e *Engine) tesseract(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", e.cfg.PSM))
	}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
