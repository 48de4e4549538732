package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

const sampleCSV = "isbn,title\n" +
	"978-0-306-40615-7,Experiments\n" +
	"0-13-110362-8,C\n" +
	"not-an-isbn,Broken\n" +
	"\n" +
	"9781491950296,Go\n"

func TestParseISBNs(t *testing.T) {
	res, err := ParseISBNs([]byte("\xEF\xBB\xBF" + sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"9780306406157", "9780131103627", "9781491950296"}, res.ISBNs)
	// 表头与非法ISBN
	assert.Equal(t, 2, res.Invalid)
}

func TestParseISBNs_KeepsDuplicates(t *testing.T) {
	res, err := ParseISBNs([]byte("9780306406157\n9780306406157\n"))
	require.NoError(t, err)
	assert.Len(t, res.ISBNs, 2)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "books.csv", sanitizeFileName("C:\\Users\\me\\books.csv"))
	assert.Equal(t, "books.csv", sanitizeFileName("../../books.csv"))
	assert.Equal(t, "upload.csv", sanitizeFileName("  "))
}

type uploadFixture struct {
	imports *memoryImports
	store   *memoryStore
	queue   *fakeQueue
	limits  *fakeLimits
	audit   *memoryAudit
	uc      *UploadUseCase
}

func newUploadFixture(maxFileSize int64) *uploadFixture {
	f := &uploadFixture{
		imports: newMemoryImports(),
		store:   newMemoryStore(),
		queue:   &fakeQueue{},
		limits:  &fakeLimits{},
		audit:   &memoryAudit{},
	}
	f.uc = NewUploadUseCase(f.imports, f.store, f.queue, f.limits, f.audit, 2, maxFileSize)
	return f
}

func TestUpload_Success(t *testing.T) {
	f := newUploadFixture(0)

	resp, err := f.uc.Execute(context.Background(), UploadRequest{
		LibraryID: 7,
		UserID:    3,
		FileName:  "books.csv",
		Content:   strings.NewReader(sampleCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, 2, resp.InvalidRows)
	assert.Equal(t, 3, resp.Import.TotalIsbns)
	assert.Equal(t, 2, resp.Import.TotalChunks)
	assert.Equal(t, string(importjob.StatusPending), resp.Import.Status)
	assert.Equal(t, 3, f.limits.incoming)
	assert.Equal(t, []uint{resp.Import.ID}, f.queue.enqueued)
	assert.Equal(t, []string{audit.LogImportCreated}, f.audit.actions())

	stored := f.imports.get(resp.Import.ID)
	assert.True(t, strings.HasPrefix(stored.BlobKey, "imports/7/"))
	assert.Contains(t, f.store.objects, stored.BlobKey)
}

func TestUpload_EnqueueFailureStillCreates(t *testing.T) {
	f := newUploadFixture(0)
	f.queue.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), UploadRequest{
		LibraryID: 7, UserID: 3, FileName: "books.csv", Content: strings.NewReader(sampleCSV),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.JobID)
	assert.Equal(t, importjob.StatusPending, f.imports.get(resp.Import.ID).Status)
}

func TestUpload_Rejections(t *testing.T) {
	t.Run("no valid isbn", func(t *testing.T) {
		f := newUploadFixture(0)
		_, err := f.uc.Execute(context.Background(), UploadRequest{
			LibraryID: 1, Content: strings.NewReader("isbn\nfoo\n"),
		})
		assert.ErrorIs(t, err, importjob.ErrEmptyImport)
		assert.Empty(t, f.store.objects)
	})

	t.Run("too large", func(t *testing.T) {
		f := newUploadFixture(10)
		_, err := f.uc.Execute(context.Background(), UploadRequest{
			LibraryID: 1, Content: strings.NewReader(sampleCSV),
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidFile))
	})

	t.Run("over limit", func(t *testing.T) {
		f := newUploadFixture(0)
		f.limits.err = apperrors.New(apperrors.ErrCodeSubscriptionLimit, "额度不足")
		_, err := f.uc.Execute(context.Background(), UploadRequest{
			LibraryID: 1, Content: strings.NewReader(sampleCSV),
		})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSubscriptionLimit))
		assert.Empty(t, f.store.objects)
		assert.Empty(t, f.queue.enqueued)
	})
}

type processorFixture struct {
	imports  *memoryImports
	store    *memoryStore
	lookup   *fakeLookup
	records  *fakeRecords
	lock     *fakeLock
	notifier *fakeNotifier
	audit    *memoryAudit
	p        *Processor
}

func newProcessorFixture() *processorFixture {
	f := &processorFixture{
		imports: newMemoryImports(),
		store:   newMemoryStore(),
		lookup: &fakeLookup{known: map[string]string{
			"9780306406157": "Experiments",
			"9781491950296": "Go",
		}},
		records:  &fakeRecords{},
		lock:     &fakeLock{},
		notifier: &fakeNotifier{},
		audit:    &memoryAudit{},
	}
	f.p = NewProcessor(f.imports, f.store, f.lookup, f.records, f.lock, f.notifier, fakeUsers{}, f.audit)
	return f
}

// seed 三个ISBN，每块两个
func (f *processorFixture) seed(t *testing.T) *importjob.ImportHistory {
	t.Helper()
	key := "imports/1/a.csv"
	f.store.objects[key] = []byte(sampleCSV)
	h := importjob.NewImportHistory(1, 3, "books.csv", key, 3, 2)
	require.NoError(t, f.imports.Create(context.Background(), h))
	return h
}

func TestProcessor_Process(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)

	require.NoError(t, f.p.Process(context.Background(), h.ID))

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusCompleted, got.Status)
	assert.Equal(t, 3, got.CurrentPosition)
	assert.Equal(t, 2, got.SuccessCount)
	assert.Equal(t, 1, got.FailedCount)
	assert.Equal(t, []string{"9780131103627"}, got.FailedIsbns)
	assert.Equal(t, 2, got.ProcessedChunks)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)

	assert.Len(t, f.lookup.calls, 2)
	assert.Equal(t, []string{"9780306406157", "9781491950296"}, f.records.imported)
	assert.Equal(t, []string{"librarian@example.com:completed"}, f.notifier.sent)
	assert.Equal(t, []string{audit.LogImportCompleted}, f.audit.actions())
	assert.Equal(t, 1, f.lock.unlocked)
}

func TestProcessor_ResumesFromPosition(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)

	// 模拟第一块已处理后进程中断
	h.Start(time.Now())
	h.RecordChunk(2, 1, []string{"9780131103627"})
	require.NoError(t, f.imports.Update(context.Background(), h))

	require.NoError(t, f.p.Process(context.Background(), h.ID))

	require.Len(t, f.lookup.calls, 1)
	assert.Equal(t, []string{"9781491950296"}, f.lookup.calls[0])

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusCompleted, got.Status)
	assert.Equal(t, 2, got.SuccessCount)
	assert.Equal(t, 1, got.FailedCount)
}

func TestProcessor_InvalidChunkSizeUsesDefault(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)
	h.ChunkSize = 0
	require.NoError(t, f.imports.Update(context.Background(), h))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.p.Process(ctx, h.ID))

	require.Len(t, f.lookup.calls, 1)
	assert.Len(t, f.lookup.calls[0], 3)

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusCompleted, got.Status)
	assert.Equal(t, importjob.DefaultChunkSize, got.ChunkSize)
	assert.Equal(t, 3, got.CurrentPosition)
}

func TestProcessor_LookupErrorFailsChunk(t *testing.T) {
	f := newProcessorFixture()
	f.lookup.err = errors.New("provider unavailable")
	h := f.seed(t)

	require.NoError(t, f.p.Process(context.Background(), h.ID))

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusCompleted, got.Status)
	assert.Equal(t, 0, got.SuccessCount)
	assert.Equal(t, 3, got.FailedCount)
	assert.Empty(t, f.records.imported)
}

func TestProcessor_RecordErrorCountsAsFailed(t *testing.T) {
	f := newProcessorFixture()
	f.records.failISBN = "9781491950296"
	h := f.seed(t)

	require.NoError(t, f.p.Process(context.Background(), h.ID))

	got := f.imports.get(h.ID)
	assert.Equal(t, 1, got.SuccessCount)
	assert.Equal(t, []string{"9780131103627", "9781491950296"}, got.FailedIsbns)
}

func TestProcessor_MissingFileFails(t *testing.T) {
	f := newProcessorFixture()
	h := importjob.NewImportHistory(1, 3, "books.csv", "imports/1/gone.csv", 3, 2)
	require.NoError(t, f.imports.Create(context.Background(), h))

	require.NoError(t, f.p.Process(context.Background(), h.ID))

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusFailed, got.Status)
	assert.Equal(t, "导入文件不存在", got.ErrorMessage)
	assert.Equal(t, []string{"librarian@example.com:failed"}, f.notifier.sent)
	assert.Equal(t, []string{audit.LogImportFailed}, f.audit.actions())
}

func TestProcessor_StorageErrorRetries(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)
	f.store.getErr = errors.New("connection reset")

	err := f.p.Process(context.Background(), h.ID)
	require.Error(t, err)

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusProcessing, got.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestProcessor_SkipsLockedAndTerminal(t *testing.T) {
	t.Run("locked", func(t *testing.T) {
		f := newProcessorFixture()
		f.lock.held = true
		h := f.seed(t)

		require.NoError(t, f.p.Process(context.Background(), h.ID))
		assert.Equal(t, importjob.StatusPending, f.imports.get(h.ID).Status)
		assert.Empty(t, f.lookup.calls)
	})

	t.Run("terminal", func(t *testing.T) {
		f := newProcessorFixture()
		h := f.seed(t)
		h.Complete(time.Now())
		require.NoError(t, f.imports.Update(context.Background(), h))

		require.NoError(t, f.p.Process(context.Background(), h.ID))
		assert.Empty(t, f.lookup.calls)
		assert.Empty(t, f.notifier.sent)
	})
}

func TestProcessor_StopsOnCancel(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.p.Process(ctx, h.ID)
	assert.ErrorIs(t, err, context.Canceled)

	got := f.imports.get(h.ID)
	assert.Equal(t, importjob.StatusProcessing, got.Status)
	assert.Equal(t, 0, got.CurrentPosition)
}

func TestProcessor_LockLost(t *testing.T) {
	f := newProcessorFixture()
	f.lock.lost = true
	h := f.seed(t)

	err := f.p.Process(context.Background(), h.ID)
	assert.ErrorIs(t, err, errLockLost)
	assert.Empty(t, f.lookup.calls)
}

func TestWorker_ProcessesUnfinished(t *testing.T) {
	f := newProcessorFixture()
	first := f.seed(t)
	second := f.seed(t)

	w := NewWorker(f.imports, f.p, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return f.imports.get(first.ID).IsTerminal() && f.imports.get(second.ID).IsTerminal()
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestQueryUseCase(t *testing.T) {
	f := newProcessorFixture()
	h := f.seed(t)
	q := NewQueryUseCase(f.imports)

	info, err := q.Get(context.Background(), 1, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "books.csv", info.FileName)
	assert.Empty(t, info.StartedAt)

	_, err = q.Get(context.Background(), 2, h.ID)
	assert.ErrorIs(t, err, importjob.ErrImportNotFound)

	list, total, err := q.List(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, list, 1)
}
