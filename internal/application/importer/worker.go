package importer

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/importjob"
)

// Worker 定时扫描未完成的导入任务（Pending/Processing）并逐个处理
// 覆盖入队失败、进程重启后遗留的任务
type Worker struct {
	imports   importjob.Repository
	processor *Processor
	interval  time.Duration
	batch     int
}

func NewWorker(imports importjob.Repository, processor *Processor, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		imports:   imports,
		processor: processor,
		interval:  interval,
		batch:     20,
	}
}

// Run 阻塞直到ctx取消
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("import worker started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.poll(ctx)

		select {
		case <-ctx.Done():
			slog.Info("import worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// poll 串行处理，单个任务失败不影响后续任务
func (w *Worker) poll(ctx context.Context) {
	pending, err := w.imports.ListUnfinished(ctx, w.batch)
	if err != nil {
		if ctx.Err() == nil {
			slog.ErrorContext(ctx, "list unfinished imports failed", "err", err)
		}
		return
	}

	for _, h := range pending {
		if ctx.Err() != nil {
			return
		}
		if err := w.processor.Process(ctx, h.ID); err != nil && ctx.Err() == nil {
			slog.ErrorContext(ctx, "process import failed", "import_id", h.ID, "err", err)
		}
	}
}
