package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 3*time.Minute, cfg.Batch.DocTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("OCR_DPI", "150")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("BATCH_DOC_TIMEOUT", "90s")
	t.Setenv("OCR_LANG", "deu")

	cfg := LoadConfig()
	assert.Equal(t, 150, cfg.OCR.DPI)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 90*time.Second, cfg.Batch.DocTimeout)
	assert.Equal(t, "deu", cfg.OCR.Language)
}

func TestLoadConfigIgnoresMalformedEnv(t *testing.T) {
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("BATCH_DOC_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.Equal(t, 3*time.Minute, cfg.Batch.DocTimeout)
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.DPI = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}
