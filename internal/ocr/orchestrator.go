package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/ledgerline/receiptcore/constants"
	"github.com/ledgerline/receiptcore/internal/imgprep"
)

// Section-marker headers inserted into the merged blob. The sectioner keys
// off the "----- ... PASS" shape, so these are load-bearing literals.
const (
	markerVendorPass      = "----- VENDOR PASS (TOP STRIP) -----"
	markerTotalsMixedPass = "----- TOTALS PASS (RIGHT STRIP MIXED) -----"
	markerTotalsDigitPass = "----- TOTALS PASS (RIGHT STRIP DIGITS) -----"
	markerNumericPass     = "----- NUMERIC PASS (FULL) -----"
	markerSoftTextPass    = "----- SOFT TEXT PASS (FULL) -----"
	markerPageBreak       = "----- PAGE BREAK -----"
)

const digitsWhitelist = "0123456789.$:/- "

// Thresholds holds the empirically tuned orchestrator constants. They are
// exported so callers can recalibrate without code changes; zero values fall
// back to the defaults in NewOrchestrator.
type Thresholds struct {
	EarlyExitScore float64 // stop attempts once one scores this high

	VendorConfCap   float64
	RightMixedBump  float64
	RightMixedCap   float64
	RightDigitsBump float64
	RightDigitsCap  float64
	NumericBump     float64
	NumericCap      float64
	SoftTextCap     float64

	PDFTextMinChars   int
	PDFTextConfidence float64
}

// Config holds orchestrator behavior knobs.
type Config struct {
	Pdftoppm         string // binary name or absolute path; if empty -> "pdftoppm"
	DPI              int    // rasterization DPI for scanned PDFs, default 300
	MaxPDFPages      int    // 0 = no limit
	ArtifactCacheDir string

	Thresholds Thresholds
}

// Result is the single OCR product for one document. Immutable once
// returned; the parser only ever reads it.
type Result struct {
	Text       string
	Status     constants.OCRStatus
	SourceTag  string
	Confidence float64 // 0..100
	Pages      int
	Duration   time.Duration
	Warnings   []string
}

// Orchestrator runs a small, bounded set of OCR attempts over image
// variants and region crops, merges the keepers into one annotated blob,
// and scores the whole thing. It never returns an error: every internal
// failure degrades that pass's contribution only.
type Orchestrator struct {
	cfg     Config
	engine  Engine
	runner  Runner
	logger  *slog.Logger
	pdfText func(path string) (string, error) // embedded text layer; stubbed in tests
}

func NewOrchestrator(cfg Config, engine Engine, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.ArtifactCacheDir == "" {
		cfg.ArtifactCacheDir = "./tmp"
	}
	t := &cfg.Thresholds
	if t.EarlyExitScore <= 0 {
		t.EarlyExitScore = 0.86
	}
	if t.VendorConfCap <= 0 {
		t.VendorConfCap = 92
	}
	if t.RightMixedBump <= 0 {
		t.RightMixedBump = 4
	}
	if t.RightMixedCap <= 0 {
		t.RightMixedCap = 94
	}
	if t.RightDigitsBump <= 0 {
		t.RightDigitsBump = 6
	}
	if t.RightDigitsCap <= 0 {
		t.RightDigitsCap = 94
	}
	if t.NumericBump <= 0 {
		t.NumericBump = 8
	}
	if t.NumericCap <= 0 {
		t.NumericCap = 94
	}
	if t.SoftTextCap <= 0 {
		t.SoftTextCap = 90
	}
	if t.PDFTextMinChars <= 0 {
		t.PDFTextMinChars = 40
	}
	if t.PDFTextConfidence <= 0 {
		t.PDFTextConfidence = 95
	}
	return &Orchestrator{
		cfg:     cfg,
		engine:  engine,
		runner:  newExecRunner(logger),
		logger:  logger,
		pdfText: extractEmbeddedText,
	}
}

// Extract picks a strategy based on file extension and always produces a
// Result; unsupported or unreadable inputs come back as Failed.
func (o *Orchestrator) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	o.logger.Debug("starting ocr extraction", "path", path, "ext", ext)

	var res Result
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res = o.extractPDF(ctx, path)
	case constants.IMAGE:
		res = o.extractImage(ctx, path)
	default:
		o.logger.Error("unsupported ocr extension", "extension", ext)
		res = Result{
			Status:    constants.OCRStatusFailed,
			SourceTag: "unsupported_extension",
			Warnings:  []string{fmt.Sprintf("unsupported extension: %q", ext)},
		}
	}
	res.Duration = time.Since(start)
	return res
}

func (o *Orchestrator) extractImage(ctx context.Context, path string) Result {
	img, err := imaging.Open(path)
	if err != nil {
		o.logger.Error("image load failed", "path", path, "error", err)
		return Result{Status: constants.OCRStatusFailed, SourceTag: "image_load_failed", Warnings: []string{err.Error()}}
	}

	text, conf, src, warns := o.imagePipeline(ctx, img, "img")
	cleaned := CleanupText(text)
	if cleaned == "" {
		return Result{Status: constants.OCRStatusFailed, SourceTag: src + "|empty", Warnings: warns}
	}
	return Result{
		Text:       cleaned,
		Status:     constants.StatusFromConfidence(conf),
		SourceTag:  src,
		Confidence: conf,
		Pages:      1,
		Warnings:   warns,
	}
}

// imagePipeline is the multi-pass core: an always-on full-page pass and
// vendor/totals strip passes, plus two conditional rescue passes. Each kept
// pass's text lands behind its section marker.
func (o *Orchestrator) imagePipeline(ctx context.Context, img image.Image, tag string) (string, float64, string, []string) {
	var srcParts []string
	var warns []string

	img = imgprep.ResizeSane(img)
	variants := imgprep.FullPageVariants(img)

	// Base pass: 3 variants x 2 PSMs, mixed characters.
	baseText, baseScore, baseSrc := o.bestByQuality(ctx, variants, []int{6, 11}, "", tag+"_base")
	srcParts = append(srcParts, "base:"+baseSrc)

	merged := CleanupText(baseText)
	conf := scoreToConf(baseScore, 0, 100)

	// Vendor top strip: cheap, always on.
	vendorVariant := []imgprep.Variant{{Name: "vendor", Image: imgprep.VendorTopStrip(img)}}
	vText, vScore, vSrc := o.bestByQuality(ctx, vendorVariant, []int{7, 6}, "", tag+"_vendor_top")
	if clean := CleanupText(vText); clean != "" {
		merged += "\n\n" + markerVendorPass + "\n" + clean
		conf = maxFloat(conf, scoreToConf(vScore, 0, o.cfg.Thresholds.VendorConfCap))
		srcParts = append(srcParts, "vendor:"+vSrc)
	}

	// Totals right strip: mixed characters first, labels matter.
	rightVariant := []imgprep.Variant{{Name: "right_mixed", Image: imgprep.TotalsRightStrip(img)}}
	rmText, rmScore, rmSrc := o.bestByQuality(ctx, rightVariant, []int{6, 11}, "", tag+"_right_mixed")
	rmClean := CleanupText(rmText)
	if rmClean != "" {
		merged += "\n\n" + markerTotalsMixedPass + "\n" + rmClean
		conf = maxFloat(conf, scoreToConf(rmScore, o.cfg.Thresholds.RightMixedBump, o.cfg.Thresholds.RightMixedCap))
		srcParts = append(srcParts, "right_mixed:"+rmSrc)
	}

	// Digits-only right strip: only if the mixed attempt gave neither a
	// money-shaped token nor a total/tax keyword.
	if rmClean == "" || (!hasMoneyTokens(rmClean) && !hasTotalishKeywords(rmClean)) {
		digitVariant := []imgprep.Variant{{Name: "right_digits", Image: imgprep.TotalsRightStrip(img)}}
		rdText, rdScore, rdSrc := o.bestByQuality(ctx, digitVariant, []int{6, 7}, digitsWhitelist, tag+"_right_digits")
		if clean := CleanupText(rdText); clean != "" {
			merged += "\n\n" + markerTotalsDigitPass + "\n" + clean
			conf = maxFloat(conf, scoreToConf(rdScore, o.cfg.Thresholds.RightDigitsBump, o.cfg.Thresholds.RightDigitsCap))
			srcParts = append(srcParts, "right_digits:"+rdSrc)
		}
	}

	// Numeric full page: only when the base text mentions totals but OCR
	// dropped the digits.
	if looksLikeTotalsMissing(baseText) {
		dText, dScore, dSrc := o.bestByQuality(ctx, variants, []int{6, 11}, digitsWhitelist, tag+"_digits")
		if clean := CleanupText(dText); clean != "" {
			merged += "\n\n" + markerNumericPass + "\n" + clean
			conf = maxFloat(conf, scoreToConf(dScore, o.cfg.Thresholds.NumericBump, o.cfg.Thresholds.NumericCap))
			srcParts = append(srcParts, "digits:"+dSrc)
		}
	}

	// Soft-text full page: only when the vendor banner looks mangled.
	if looksLikeVendorMangled(baseText) {
		softVariant := []imgprep.Variant{{Name: "soft_full", Image: imgprep.SoftText(img)}}
		sText, sScore, sSrc := o.bestByQuality(ctx, softVariant, []int{6}, "", tag+"_soft_full")
		if clean := CleanupText(sText); clean != "" {
			merged += "\n\n" + markerSoftTextPass + "\n" + clean
			conf = maxFloat(conf, scoreToConf(sScore, 0, o.cfg.Thresholds.SoftTextCap))
			srcParts = append(srcParts, "soft:"+sSrc)
		}
	}

	src := tag + "_ocr"
	if len(srcParts) > 0 {
		src = joinParts(srcParts)
	}
	return merged, clampFloat(conf, 0, 100), src, warns
}

// bestByQuality runs a small set of attempts (variant x PSM) and chooses by
// the cheap quality score. Engine failures downgrade that attempt only.
func (o *Orchestrator) bestByQuality(ctx context.Context, variants []imgprep.Variant, psms []int, whitelist, tag string) (string, float64, string) {
	bestText := ""
	bestScore := -1.0
	bestSrc := tag + "_none"

	tmpDir, err := os.MkdirTemp(o.cfg.ArtifactCacheDir, "rc-pass-*")
	if err != nil {
		// fall back to the system temp dir before giving up on the pass
		tmpDir, err = os.MkdirTemp("", "rc-pass-*")
		if err != nil {
			o.logger.Error("tempdir for ocr attempts failed", "error", err)
			return "", 0, bestSrc
		}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			o.logger.Warn("failed to remove pass tempdir", "dir", tmpDir, "error", rmErr)
		}
	}()

	for vi, v := range variants {
		imgPath := filepath.Join(tmpDir, fmt.Sprintf("%s-%d.png", v.Name, vi))
		if err := imaging.Save(v.Image, imgPath); err != nil {
			o.logger.Warn("saving ocr variant failed", "variant", v.Name, "error", err)
			continue
		}

		for _, psm := range psms {
			text, err := o.engine.Recognize(ctx, imgPath, RecognizeOpts{PSM: psm, Whitelist: whitelist})
			if err != nil {
				o.logger.Warn("ocr attempt failed", "tag", tag, "variant", v.Name, "psm", psm, "error", err)
				continue
			}
			score := qualityScore(text)
			src := fmt.Sprintf("%s_%s_psm%d", tag, v.Name, psm)
			if whitelist != "" {
				src += "_wl"
			}

			if score > bestScore {
				bestText = text
				bestScore = score
				bestSrc = src
			}

			// clearly good enough; stop wasting engine calls
			if bestScore >= o.cfg.Thresholds.EarlyExitScore {
				return bestText, bestScore, bestSrc
			}
		}
	}

	if bestScore < 0 {
		bestScore = 0
	}
	return bestText, bestScore, bestSrc
}

func joinParts(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += "+" + p
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
