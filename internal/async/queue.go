// Package async runs extractions on a bounded worker pool, so batch
// ingestion keeps up without fork-bombing tesseract.
package async

import (
	"context"
	"time"

	"github.com/ledgerline/receiptcore/internal/pipeline"
)

// Job is one document to extract. Extend as needed later (retry, trace, priority).
type Job struct {
	Path        string
	Business    pipeline.BusinessContext
	SubmittedAt time.Time
	TraceID     string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
