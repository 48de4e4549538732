package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
	"github.com/xiebiao/libraryhub/internal/infrastructure/storage"
	"github.com/xiebiao/libraryhub/pkg/metrics"
	"github.com/xiebiao/libraryhub/pkg/tracing"
)

const tracerName = "libraryhub/importer"

// errLockLost 锁过期后被其他进程取得
var errLockLost = errors.New("import lock lost")

// Processor 处理一个导入任务
//
// 从CurrentPosition开始按ChunkSize分块处理，每块处理完立即保存进度，
// 进程重启后从上次位置继续。同一任务由Redis锁保证只有一个进程在处理。
type Processor struct {
	imports   importjob.Repository
	store     BlobStore
	lookup    BatchLookup
	records   RecordImporter
	lock      Locker
	notifier  FinishNotifier
	users     UserFinder
	auditRepo audit.Repository
	now       func() time.Time
}

func NewProcessor(
	imports importjob.Repository,
	store BlobStore,
	lookup BatchLookup,
	records RecordImporter,
	lock Locker,
	notifier FinishNotifier,
	users UserFinder,
	auditRepo audit.Repository,
) *Processor {
	return &Processor{
		imports:   imports,
		store:     store,
		lookup:    lookup,
		records:   records,
		lock:      lock,
		notifier:  notifier,
		users:     users,
		auditRepo: auditRepo,
		now:       time.Now,
	}
}

// HandleJob Redis Stream消费入口
func (p *Processor) HandleJob(ctx context.Context, job queue.Job) error {
	return p.Process(ctx, job.ImportID)
}

// Process 处理导入任务
// 已结束的任务和被其他进程持有锁的任务直接返回nil。
// ctx取消时在分块之间停止并返回ctx.Err()，已处理的进度保留。
func (p *Processor) Process(ctx context.Context, importID uint) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ProcessImport")
	defer span.End()

	token, ok, err := p.lock.TryLock(ctx, importID)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	if !ok {
		slog.InfoContext(ctx, "import locked by another worker", "import_id", importID)
		return nil
	}
	defer func() {
		if err := p.lock.Unlock(context.WithoutCancel(ctx), importID, token); err != nil {
			slog.WarnContext(ctx, "release import lock failed", "import_id", importID, "err", err)
		}
	}()

	// 持有锁之后再读取，拿到最新进度
	h, err := p.imports.FindByID(ctx, importID)
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}
	if h.IsTerminal() {
		return nil
	}
	if h.ChunkSize <= 0 {
		h.ChunkSize = importjob.DefaultChunkSize
	}

	metrics.ImportsInProgress.Inc()
	defer metrics.ImportsInProgress.Dec()

	h.Start(p.now())
	if err := p.imports.Update(ctx, h); err != nil {
		tracing.RecordError(span, err)
		return err
	}

	isbns, err := p.loadISBNs(ctx, h)
	if err != nil {
		var unrecoverable *unrecoverableError
		if errors.As(err, &unrecoverable) {
			return p.fail(ctx, h, unrecoverable.Error())
		}
		tracing.RecordError(span, err)
		return err
	}

	for pos := h.CurrentPosition; pos < len(isbns); pos += h.ChunkSize {
		if err := ctx.Err(); err != nil {
			slog.InfoContext(ctx, "import paused", "import_id", h.ID, "position", pos)
			return err
		}
		held, err := p.lock.Refresh(ctx, importID, token)
		if err != nil {
			return err
		}
		if !held {
			return errLockLost
		}

		end := pos + h.ChunkSize
		if end > len(isbns) {
			end = len(isbns)
		}

		// 已开始的分块不受取消影响
		chunkCtx := context.WithoutCancel(ctx)
		succeeded, failed := p.processChunk(chunkCtx, h.LibraryID, isbns[pos:end])
		h.RecordChunk(end, succeeded, failed)
		if err := p.imports.Update(chunkCtx, h); err != nil {
			tracing.RecordError(span, err)
			return err
		}

		slog.DebugContext(ctx, "import chunk done",
			"import_id", h.ID,
			"position", end,
			"total", len(isbns),
			"succeeded", succeeded,
			"failed", len(failed),
		)
	}

	return p.complete(ctx, h)
}

// processChunk 查询失败时整块计为失败
func (p *Processor) processChunk(ctx context.Context, libraryID uint, chunk []string) (int, []string) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ProcessChunk")
	defer span.End()

	start := time.Now()
	defer func() {
		metrics.ImportChunkDuration.Observe(time.Since(start).Seconds())
	}()

	records, err := p.lookup.LookupBatch(ctx, chunk)
	if err != nil {
		tracing.RecordError(span, err)
		slog.WarnContext(ctx, "isbn lookup failed, chunk marked failed",
			"library_id", libraryID,
			"size", len(chunk),
			"err", err,
		)
		metrics.ImportIsbnsTotal.WithLabelValues("failed").Add(float64(len(chunk)))
		failed := make([]string, len(chunk))
		copy(failed, chunk)
		return 0, failed
	}

	found := make(map[string]int, len(records))
	for i, r := range records {
		found[r.ISBN] = i
	}

	succeeded := 0
	failed := make([]string, 0)
	for _, isbn := range chunk {
		i, ok := found[isbn]
		if !ok {
			failed = append(failed, isbn)
			continue
		}
		if _, _, err := p.records.ImportRecord(ctx, libraryID, records[i]); err != nil {
			slog.WarnContext(ctx, "import record failed", "library_id", libraryID, "isbn", isbn, "err", err)
			failed = append(failed, isbn)
			continue
		}
		succeeded++
	}

	metrics.ImportIsbnsTotal.WithLabelValues("success").Add(float64(succeeded))
	metrics.ImportIsbnsTotal.WithLabelValues("failed").Add(float64(len(failed)))
	return succeeded, failed
}

type unrecoverableError struct {
	msg string
}

func (e *unrecoverableError) Error() string { return e.msg }

// loadISBNs 文件不存在或无法解析属于不可恢复错误，其他存储错误可以重试
func (p *Processor) loadISBNs(ctx context.Context, h *importjob.ImportHistory) ([]string, error) {
	rc, err := p.store.Get(ctx, h.BlobKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, &unrecoverableError{msg: "导入文件不存在"}
		}
		return nil, fmt.Errorf("load import file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	parsed, err := ParseISBNs(data)
	if err != nil {
		return nil, &unrecoverableError{msg: "无法解析CSV文件: " + err.Error()}
	}
	if len(parsed.ISBNs) == 0 {
		return nil, &unrecoverableError{msg: importjob.ErrEmptyImport.Message}
	}
	return parsed.ISBNs, nil
}

func (p *Processor) complete(ctx context.Context, h *importjob.ImportHistory) error {
	h.Complete(p.now())
	if err := p.imports.Update(ctx, h); err != nil {
		return err
	}
	metrics.ImportsFinishedTotal.WithLabelValues(string(importjob.StatusCompleted)).Inc()
	slog.InfoContext(ctx, "import completed",
		"import_id", h.ID,
		"library_id", h.LibraryID,
		"succeeded", h.SuccessCount,
		"failed", h.FailedCount,
	)

	p.finished(ctx, h, audit.LogImportCompleted)
	return nil
}

func (p *Processor) fail(ctx context.Context, h *importjob.ImportHistory, message string) error {
	h.Fail(message, p.now())
	if err := p.imports.Update(ctx, h); err != nil {
		return err
	}
	metrics.ImportsFinishedTotal.WithLabelValues(string(importjob.StatusFailed)).Inc()
	slog.WarnContext(ctx, "import failed", "import_id", h.ID, "library_id", h.LibraryID, "reason", message)

	p.finished(ctx, h, audit.LogImportFailed)
	return nil
}

// finished 通知与审计失败只记录日志
func (p *Processor) finished(ctx context.Context, h *importjob.ImportHistory, action string) {
	entry := audit.NewLog(h.LibraryID, h.UserID, action, "import", h.ID, map[string]any{
		"file_name": h.FileName,
		"succeeded": h.SuccessCount,
		"failed":    h.FailedCount,
		"error":     h.ErrorMessage,
	})
	if err := p.auditRepo.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "append audit log failed", "action", action, "err", err)
	}

	u, err := p.users.FindByID(ctx, h.UserID)
	if err != nil {
		slog.WarnContext(ctx, "import owner not found, skip email", "import_id", h.ID, "user_id", h.UserID, "err", err)
		return
	}
	if err := p.notifier.NotifyImportFinished(ctx, u.Email, h); err != nil {
		slog.WarnContext(ctx, "queue import email failed", "import_id", h.ID, "err", err)
	}
}
