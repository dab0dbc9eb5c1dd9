package ocr

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/imgprep"
)

type stubEngine struct {
	text  string
	err   error
	calls []RecognizeOpts
}

func (s *stubEngine) Recognize(_ context.Context, _ string, opts RecognizeOpts) (string, error) {
	s.calls = append(s.calls, opts)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

type stubRunner struct {
	err error
}

func (s stubRunner) Run(context.Context, string, ...string) ([]byte, []byte, error) {
	return nil, nil, s.err
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := imaging.New(1600, 1200, image.White.C)
	path := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func newTestOrchestrator(t *testing.T, engine Engine) *Orchestrator {
	t.Helper()
	o := NewOrchestrator(Config{ArtifactCacheDir: t.TempDir()}, engine, nil)
	return o
}

func TestExtractImageSuccess(t *testing.T) {
	eng := &stubEngine{text: "AUTOZONE STORE #1234\n123 MAIN ST DUNCANVILLE TX\nSALES TAX 1.23\nTOTAL 16.18\nVISA 16.18"}
	o := newTestOrchestrator(t, eng)

	res := o.Extract(context.Background(), writeTestImage(t))

	assert.NotEqual(t, constants.OCRStatusFailed, res.Status)
	assert.Contains(t, res.Text, "AUTOZONE")
	assert.Contains(t, res.Text, markerVendorPass)
	assert.Contains(t, res.Text, markerTotalsMixedPass)
	// base text already has money and labels; rescue passes must stay off
	assert.NotContains(t, res.Text, markerTotalsDigitPass)
	assert.NotContains(t, res.Text, markerNumericPass)
	assert.NotContains(t, res.Text, markerSoftTextPass)
	assert.Equal(t, 1, res.Pages)
	assert.Greater(t, res.Confidence, 0.0)
}

func TestExtractImageNumericRescue(t *testing.T) {
	// totals keyword present but no amounts: the digits-only passes kick in
	eng := &stubEngine{text: "SOME STORE NAME HERE\nITEM ONE\nITEM TWO\nTOTAL DUE\nTHANK YOU FOR SHOPPING"}
	o := newTestOrchestrator(t, eng)

	res := o.Extract(context.Background(), writeTestImage(t))

	assert.Contains(t, res.Text, markerNumericPass)
	sawWhitelist := false
	for _, c := range eng.calls {
		if c.Whitelist == digitsWhitelist {
			sawWhitelist = true
		}
	}
	assert.True(t, sawWhitelist, "expected at least one digits-whitelist attempt")
}

func TestExtractImageEngineFailure(t *testing.T) {
	eng := &stubEngine{err: errors.New("tesseract exploded")}
	o := newTestOrchestrator(t, eng)

	res := o.Extract(context.Background(), writeTestImage(t))

	assert.Equal(t, constants.OCRStatusFailed, res.Status)
	assert.Empty(t, res.Text)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	o := newTestOrchestrator(t, &stubEngine{})

	res := o.Extract(context.Background(), "/tmp/notes.docx")

	assert.Equal(t, constants.OCRStatusFailed, res.Status)
	assert.Equal(t, "unsupported_extension", res.SourceTag)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractUnreadableImage(t *testing.T) {
	o := newTestOrchestrator(t, &stubEngine{})

	res := o.Extract(context.Background(), filepath.Join(t.TempDir(), "missing.png"))

	assert.Equal(t, constants.OCRStatusFailed, res.Status)
	assert.Equal(t, "image_load_failed", res.SourceTag)
}

func TestExtractPDFTextLayer(t *testing.T) {
	o := newTestOrchestrator(t, &stubEngine{})
	o.pdfText = func(string) (string, error) {
		return "INVOICE #42\nACME SUPPLIES\nDATE: 01/15/2026\nSUBTOTAL 100.00\nTAX 8.25\nTOTAL 108.25", nil
	}

	res := o.Extract(context.Background(), "/tmp/invoice.pdf")

	assert.Equal(t, constants.OCRStatusSuccess, res.Status)
	assert.Equal(t, "pdf_text", res.SourceTag)
	assert.InDelta(t, 95.0, res.Confidence, 0.001)
	assert.Contains(t, res.Text, "ACME SUPPLIES")
}

func TestExtractPDFShortTextLayerFallsThrough(t *testing.T) {
	o := newTestOrchestrator(t, &stubEngine{})
	o.pdfText = func(string) (string, error) { return "stamp", nil }
	o.runner = stubRunner{err: errors.New("pdftoppm not installed")}

	res := o.Extract(context.Background(), "/tmp/scan.pdf")

	assert.Equal(t, constants.OCRStatusFailed, res.Status)
	assert.Equal(t, "pdf_raster_failed", res.SourceTag)
}

func TestBestByQualityEarlyExit(t *testing.T) {
	eng := &stubEngine{text: "SALES TAX 1.23\nTOTAL 16.18"}
	o := newTestOrchestrator(t, eng)
	o.cfg.Thresholds.EarlyExitScore = 0.01 // first attempt always wins

	variants := []imgprep.Variant{
		{Name: "a", Image: imaging.New(400, 300, image.White.C)},
		{Name: "b", Image: imaging.New(400, 300, image.White.C)},
	}
	text, score, src := o.bestByQuality(context.Background(), variants, []int{6, 11}, "", "t")

	assert.Len(t, eng.calls, 1, "early exit should stop after the first attempt")
	assert.Contains(t, text, "TOTAL")
	assert.Greater(t, score, 0.0)
	assert.Equal(t, "t_a_psm6", src)
}
