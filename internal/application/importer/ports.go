// Package importer 批量ISBN导入：上传CSV、分块查询书目并入库、断点续传
package importer

import (
	"context"
	"io"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/user"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
)

// BlobStore 原始CSV存储，由storage.MinioStore实现
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// JobEnqueuer 导入任务入队，由queue.RedisJobQueue实现
type JobEnqueuer interface {
	Enqueue(ctx context.Context, importID uint) (queue.Job, error)
}

// LimitValidator 导入前的额度校验，由subscription.Service实现
type LimitValidator interface {
	ValidateBookImportLimits(ctx context.Context, libraryID uint, incoming int) error
}

// BatchLookup 批量查询书目，由isbn.Client实现
// 未返回的ISBN视为查询失败
type BatchLookup interface {
	LookupBatch(ctx context.Context, isbns []string) ([]book.Metadata, error)
}

// RecordImporter 书目入库，由book.Service实现
type RecordImporter interface {
	ImportRecord(ctx context.Context, libraryID uint, meta book.Metadata) (*book.Book, bool, error)
}

// Locker 导入任务的分布式锁，由redis.ImportLock实现
type Locker interface {
	TryLock(ctx context.Context, importID uint) (string, bool, error)
	Refresh(ctx context.Context, importID uint, token string) (bool, error)
	Unlock(ctx context.Context, importID uint, token string) error
}

// FinishNotifier 导入结束通知，由notification.Notifier实现
type FinishNotifier interface {
	NotifyImportFinished(ctx context.Context, to string, h *importjob.ImportHistory) error
}

// UserFinder 查询导入发起人的邮箱
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*user.User, error)
}
