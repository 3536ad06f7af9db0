package usecase

import (
	"context"
	"sync"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/pkg/logger"
	"reservation-service/pkg/metrics"
)

// DefaultBatchSize bounds how many reservation requests are in flight at once
const DefaultBatchSize = 5

// BatchProcessor accepts bulk reservation submissions. Items run through
// validation and persistence concurrently within a fixed-size batch; a failed
// item is captured in its result slot and never aborts its siblings.
type BatchProcessor struct {
	orchestrator *BookingOrchestrator
	batchSize    int
	metrics      *metrics.Metrics
	logger       logger.Logger
}

// NewBatchProcessor creates a new batch processor. A batchSize below 1 falls
// back to the default.
func NewBatchProcessor(orchestrator *BookingOrchestrator, batchSize int, metrics *metrics.Metrics, logger logger.Logger) *BatchProcessor {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &BatchProcessor{
		orchestrator: orchestrator,
		batchSize:    batchSize,
		metrics:      metrics,
		logger:       logger,
	}
}

// CreateMany processes the requests in submission order, batch by batch. All
// items of a batch are fired concurrently and awaited before the next batch
// starts, so at most batchSize requests are validated or persisted at once.
// Results keep the original order across batches.
func (p *BatchProcessor) CreateMany(ctx context.Context, inputs []entity.ReservationInput) *entity.BatchSummary {
	start := time.Now()
	results := make([]entity.BatchResult, len(inputs))

	p.logger.Info("Processing reservation batch", "total", len(inputs), "batchSize", p.batchSize)

	for from := 0; from < len(inputs); from += p.batchSize {
		to := from + p.batchSize
		if to > len(inputs) {
			to = len(inputs)
		}

		var wg sync.WaitGroup
		for i := from; i < to; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				input := inputs[i]
				reservation, err := p.orchestrator.ValidateAndPersist(ctx, &input)
				if err != nil {
					p.logger.Error("Batch item rejected", "index", i, "roomId", input.RoomID, "error", err)
					results[i] = entity.BatchResult{Err: err.Error(), Data: &input}
					return
				}
				results[i] = entity.BatchResult{Reservation: reservation}
			}(i)
		}
		wg.Wait()
	}

	summary := &entity.BatchSummary{
		Total:     len(inputs),
		ElapsedMs: time.Since(start).Milliseconds(),
		Results:   results,
	}
	for _, result := range results {
		if result.Failed() {
			summary.Failed++
		} else {
			summary.Successful++
		}
	}

	p.metrics.BatchItems.Add(float64(len(inputs)))
	p.logger.Info("Reservation batch processed",
		"total", summary.Total,
		"successful", summary.Successful,
		"failed", summary.Failed,
		"elapsedMs", summary.ElapsedMs)

	return summary
}
