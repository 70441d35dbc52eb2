package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/pilot-cli/internal/core/domain"
	"github.com/custodia-labs/pilot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/pilot-cli/internal/logger"
)

// ingestAndWait submits doc and polls the task until it leaves the pending
// states. Polls are paced at interval; the wait is bounded by timeout.
func ingestAndWait(
	ctx context.Context,
	search driven.SearchClient,
	index string,
	doc domain.IngestDocument,
	interval, timeout time.Duration,
) error {
	task, err := search.Ingest(ctx, index, doc)
	if err != nil {
		return fmt.Errorf("ingest: %w", err)
	}
	logger.Debug("ingest task %s submitted to index %s", task.TaskID, index)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	limiter := rate.NewLimiter(rate.Every(interval), 1)

	for {
		if err := limiter.Wait(ctx); err != nil {
			// The limiter also fails early when the next poll would pass the deadline.
			if errors.Is(ctx.Err(), context.Canceled) {
				return fmt.Errorf("wait for ingest task %s: %w", task.TaskID, ctx.Err())
			}
			return fmt.Errorf("%w: task %s still pending after %s", domain.ErrIngestFailed, task.TaskID, timeout)
		}

		status, err := search.GetTask(ctx, task.TaskID)
		if err != nil {
			return fmt.Errorf("get ingest task %s: %w", task.TaskID, err)
		}
		if status.Pending() {
			continue
		}
		if status.State != domain.TaskSuccess {
			return fmt.Errorf("%w: task %s ended in state %s", domain.ErrIngestFailed, task.TaskID, status.State)
		}
		return nil
	}
}
