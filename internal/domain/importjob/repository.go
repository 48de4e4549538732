package importjob

import (
	"context"
)

// Repository 导入任务仓储
type Repository interface {
	Create(ctx context.Context, history *ImportHistory) error

	// FindByID 不存在时返回ErrImportNotFound
	FindByID(ctx context.Context, id uint) (*ImportHistory, error)

	// Update 按Version做乐观锁更新，成功后Version+1
	// 版本不匹配时返回ErrVersionConflict
	Update(ctx context.Context, history *ImportHistory) error

	ListByLibrary(ctx context.Context, libraryID uint, page, pageSize int) ([]*ImportHistory, int64, error)

	// ListUnfinished 查询Pending与Processing的任务，按创建时间升序
	ListUnfinished(ctx context.Context, limit int) ([]*ImportHistory, error)
}
