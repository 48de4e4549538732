package audit

import (
	"context"
)

// ReaderActionRepository 借还记录仓储
type ReaderActionRepository interface {
	Append(ctx context.Context, action *ReaderAction) error
	List(ctx context.Context, query ReaderActionQuery) ([]*ReaderAction, int64, error)
}

// ReaderActionQuery 借还记录查询条件，ReaderID为0表示不过滤
type ReaderActionQuery struct {
	LibraryID uint
	ReaderID  uint
	Page      int
	PageSize  int
}

// Repository 审计日志仓储
type Repository interface {
	Append(ctx context.Context, log *Log) error
	List(ctx context.Context, libraryID uint, page, pageSize int) ([]*Log, int64, error)
}
