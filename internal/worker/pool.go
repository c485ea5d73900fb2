package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kingdomOfIT/momentum/internal/domain"
	"github.com/kingdomOfIT/momentum/internal/metrics"
)

// Pool manages a fixed-size pool of goroutines that process tasks.
type Pool struct {
	size      int
	tasks     <-chan *domain.TaskMessage
	processUC *ProcessTaskUsecase
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewPool creates a new fixed-size worker pool.
func NewPool(size int, tasks <-chan *domain.TaskMessage, processUC *ProcessTaskUsecase, logger *zap.Logger) *Pool {
	return &Pool{
		size:      size,
		tasks:     tasks,
		processUC: processUC,
		logger:    logger,
	}
}

// Start launches all worker goroutines. Call Stop to wait for them to finish.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting worker pool", zap.Int("pool_size", p.size))

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Stop waits for all workers to finish their current tasks and exit.
func (p *Pool) Stop() {
	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker panic recovered",
				zap.Int("worker_id", id),
				zap.Any("panic", r),
			)
		}
	}()

	p.logger.Debug("Worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Worker shutting down", zap.Int("worker_id", id))
			return
		case msg, ok := <-p.tasks:
			if !ok {
				p.logger.Debug("Task channel closed", zap.Int("worker_id", id))
				return
			}

			task := msg.Task

			p.logger.Info("Worker processing task",
				zap.Int("worker_id", id),
				zap.String("task_id", task.TaskID.String()),
				zap.String("document_id", task.DocumentID.String()),
			)

			metrics.WorkersActive.Inc()
			startTime := time.Now()

			isDuplicate, err := p.processUC.Execute(ctx, task)
			elapsed := time.Since(startTime).Seconds()

			metrics.WorkersActive.Dec()

			if err != nil {
				p.logger.Error("Task processing failed",
					zap.Int("worker_id", id),
					zap.String("task_id", task.TaskID.String()),
					zap.Error(err),
				)

				// Nack without requeue — failed tasks go to the DLQ. The
				// failed status is already recorded, so the next poll for
				// the document resubmits; requeuing a deterministic failure
				// would loop forever.
				if nackErr := msg.Nack(false); nackErr != nil {
					p.logger.Error("Failed to NACK message",
						zap.String("task_id", task.TaskID.String()),
						zap.Error(nackErr),
					)
				}

				metrics.TasksTotal.WithLabelValues("failed").Inc()
				metrics.TaskDuration.Observe(elapsed)
				continue
			}

			if isDuplicate {
				p.logger.Debug("Duplicate task skipped",
					zap.Int("worker_id", id),
					zap.String("task_id", task.TaskID.String()),
				)
				// Duplicate → still ACK so the message is removed from the queue.
				if ackErr := msg.Ack(); ackErr != nil {
					p.logger.Error("Failed to ACK duplicate message",
						zap.String("task_id", task.TaskID.String()),
						zap.Error(ackErr),
					)
				}
				metrics.TasksTotal.WithLabelValues("duplicate").Inc()
				continue
			}

			// Successful processing — ACK the message.
			if ackErr := msg.Ack(); ackErr != nil {
				p.logger.Error("Failed to ACK message after processing",
					zap.String("task_id", task.TaskID.String()),
					zap.Error(ackErr),
				)
			}

			metrics.TasksTotal.WithLabelValues("succeeded").Inc()
			metrics.TaskDuration.Observe(elapsed)
		}
	}
}
