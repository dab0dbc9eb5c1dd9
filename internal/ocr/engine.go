package ocr

import (
	"context"
	"fmt"
	"log/slog"
)

// RecognizeOpts controls a single engine invocation. PSM follows tesseract's
// page segmentation modes; Whitelist restricts the character set (empty means
// unrestricted).
type RecognizeOpts struct {
	PSM       int
	Whitelist string
}

// Engine is the external OCR collaborator. It is assumed synchronous and
// potentially slow; implementations must honor ctx cancellation.
type Engine interface {
	Recognize(ctx context.Context, imagePath string, opts RecognizeOpts) (string, error)
}

// EngineConfig configures the tesseract-backed engine.
type EngineConfig struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Language    string // default "eng"
	TessdataDir string
}

// TesseractEngine shells out to the tesseract binary through a Runner.
type TesseractEngine struct {
	cfg    EngineConfig
	runner Runner
	logger *slog.Logger
}

func NewTesseractEngine(cfg EngineConfig, logger *slog.Logger) *TesseractEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	return &TesseractEngine{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// Recognize runs: tesseract <file> stdout -l <lang> --oem 1 --psm <n> [...]
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string, opts RecognizeOpts) (string, error) {
	args := []string{imagePath, "stdout", "-l", e.cfg.Language, "--oem", "1"}
	if opts.PSM > 0 {
		args = append(args, "--psm", fmt.Sprintf("%d", opts.PSM))
	}
	args = append(args, "-c", "preserve_interword_spaces=1")
	if opts.Whitelist != "" {
		args = append(args, "-c", "tessedit_char_whitelist="+opts.Whitelist)
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (stderr: %s)", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
