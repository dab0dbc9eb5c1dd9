package async

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/receiptcore/internal/pipeline"
	"github.com/ledgerline/receiptcore/internal/record"
)

type recordCollector struct {
	mu   sync.Mutex
	recs []record.ExtractionRecord
}

func (c *recordCollector) sink(rec record.ExtractionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recs = append(c.recs, rec)
}

func (c *recordCollector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.recs)
}

func TestExtractorQueueDrainsAllJobs(t *testing.T) {
	e := pipeline.NewExtractor(nil, nil, nil, nil, nil)
	var col recordCollector
	q := NewExtractorQueue(e, col.sink, nil, WithWorkers(2), WithQueueSize(16))

	// unsupported extensions keep the test hermetic; the queue mechanics
	// are identical either way
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(context.Background(), Job{
			Path:        fmt.Sprintf("doc-%d.docx", i),
			SubmittedAt: time.Now(),
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	require.Equal(t, 5, col.len())
	for _, rec := range col.recs {
		assert.True(t, rec.NeedsReview)
		assert.Contains(t, rec.Flags, "OCR_FAILED")
	}
}

func TestExtractorQueueEnqueueAfterShutdown(t *testing.T) {
	e := pipeline.NewExtractor(nil, nil, nil, nil, nil)
	q := NewExtractorQueue(e, nil, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)
	q.Shutdown(ctx) // second shutdown is a no-op

	assert.NotPanics(t, func() {
		_ = q.Enqueue(context.Background(), Job{Path: "late.pdf"})
	})
}
