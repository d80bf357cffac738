package worker

import (
	"context"
	"time"

	"todoConsole/internal/logger"
	"todoConsole/internal/models/task"
	"todoConsole/internal/service"

	"go.uber.org/zap"
)

const DefaultInterval = 5 * time.Minute

type TaskSource interface {
	FilterTasks(f service.Filter) []*task.Task
	Today() task.Date
}

// OverdueWorker периодически пишет в лог сводку по просроченным задачам.
// Задачи не изменяются: просроченность вычисляется от текущей даты.
type OverdueWorker struct {
	source   TaskSource
	interval time.Duration
}

func NewOverdueWorker(source TaskSource, interval *time.Duration) *OverdueWorker {
	intervalToSet := DefaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &OverdueWorker{
		source:   source,
		interval: intervalToSet,
	}
}

func (w *OverdueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка задач на просроченность", zap.Time("started_at", time.Now()))
			w.Check()
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

// Check возвращает id просроченных незавершённых задач.
func (w *OverdueWorker) Check() []int {
	start := time.Now()

	pending := false
	overdue := w.source.FilterTasks(service.Filter{Status: &pending, DueDate: service.DueOverdue})

	ids := make([]int, 0, len(overdue))
	for _, t := range overdue {
		ids = append(ids, t.ID)
	}

	logger.Info(
		"Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.String("today", w.source.Today().String()),
		zap.Ints("overdue_ids", ids),
		zap.Int("overdue", len(ids)),
	)
	return ids
}
