package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicekit/fapiao/internal/common"
)

// stubRunner fakes pdftoppm and tesseract. The pdftoppm branch writes a
// real PNG at the prefix-derived path so the preprocessing step has a file
// to work on.
type stubRunner struct {
	t *testing.T

	text         string
	pdftoppmErr  error
	tesseractErr error

	pdftoppmArgs  []string
	tesseractArgs []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch name {
	case "pdftoppm":
		r.pdftoppmArgs = args
		if r.pdftoppmErr != nil {
			return nil, []byte("rasterize error"), r.pdftoppmErr
		}
		prefix := args[len(args)-1]
		writeTestPNG(r.t, prefix+"-1.png")
		return nil, nil, nil
	case "tesseract":
		r.tesseractArgs = args
		if r.tesseractErr != nil {
			return nil, []byte("recognize error"), r.tesseractErr
		}
		return []byte(r.text), nil, nil
	default:
		r.t.Fatalf("unexpected command %q", name)
		return nil, nil, nil
	}
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		img.SetGray(x, 4, color.Gray{Y: 255})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newStubEngine(t *testing.T, cfg common.OCRConfig) (*Engine, *stubRunner) {
	t.Helper()
	e := NewEngine(cfg, nil)
	r := &stubRunner{t: t, text: "发票号码：14403200011100000001\n"}
	e.runner = r
	return e, r
}

func TestRecognizePage(t *testing.T) {
	e, r := newStubEngine(t, common.OCRConfig{DPI: 300, PSM: 6})

	var progress []float64
	txt, err := e.RecognizePage(context.Background(), []byte("%PDF-1.4"), 2, func(v float64) {
		progress = append(progress, v)
	})
	require.NoError(t, err)
	assert.Equal(t, "发票号码：14403200011100000001\n", txt)
	assert.Equal(t, []float64{0.25, 0.5, 1.0}, progress)

	// pdftoppm gets the single-page window at the configured resolution.
	require.GreaterOrEqual(t, len(r.pdftoppmArgs), 7)
	assert.Equal(t, []string{"-f", "2", "-l", "2", "-r", "300", "-png"}, r.pdftoppmArgs[:7])

	// tesseract reads the preprocessed image, not the raw render.
	require.GreaterOrEqual(t, len(r.tesseractArgs), 4)
	assert.Contains(t, r.tesseractArgs[0], "_processed.png")
	assert.Equal(t, "stdout", r.tesseractArgs[1])
	assert.Equal(t, []string{"-l", "chi_sim"}, r.tesseractArgs[2:4])
	assert.Contains(t, r.tesseractArgs, "--psm")
}

func TestRecognizePageNilProgress(t *testing.T) {
	e, _ := newStubEngine(t, common.OCRConfig{})

	txt, err := e.RecognizePage(context.Background(), []byte("%PDF-1.4"), 1, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, txt)
}

func TestRecognizePagePdftoppmFailure(t *testing.T) {
	e, r := newStubEngine(t, common.OCRConfig{})
	r.pdftoppmErr = errors.New("exit status 1")

	var progress []float64
	_, err := e.RecognizePage(context.Background(), []byte("%PDF-1.4"), 1, func(v float64) {
		progress = append(progress, v)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm")
	assert.Empty(t, progress)
}

func TestRecognizePageTesseractFailure(t *testing.T) {
	e, r := newStubEngine(t, common.OCRConfig{})
	r.tesseractErr = errors.New("exit status 1")

	_, err := e.RecognizePage(context.Background(), []byte("%PDF-1.4"), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestRecognizePageTessdataDir(t *testing.T) {
	e, r := newStubEngine(t, common.OCRConfig{TessdataDir: "/opt/tessdata"})

	_, err := e.RecognizePage(context.Background(), []byte("%PDF-1.4"), 1, nil)
	require.NoError(t, err)
	assert.Contains(t, r.tesseractArgs, "--tessdata-dir")
	assert.Contains(t, r.tesseractArgs, "/opt/tessdata")
}
