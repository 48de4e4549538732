package reader

import (
	"context"
)

// Repository 读者仓储接口
type Repository interface {
	Create(ctx context.Context, reader *Reader) error
	Update(ctx context.Context, reader *Reader) error

	// FindByID 不存在时返回ErrReaderNotFound
	FindByID(ctx context.Context, id uint) (*Reader, error)
	FindByEAN(ctx context.Context, ean string) (*Reader, error)
	FindByEmail(ctx context.Context, email string) (*Reader, error)

	// List 分页查询图书馆的读者
	List(ctx context.Context, params ListParams) ([]*Reader, int64, error)

	AttachToLibrary(ctx context.Context, readerID, libraryID uint) error
	DetachFromLibrary(ctx context.Context, readerID, libraryID uint) error
	IsMember(ctx context.Context, libraryID, readerID uint) (bool, error)
	CountByLibrary(ctx context.Context, libraryID uint) (int64, error)
}

// ListParams 读者列表查询参数
type ListParams struct {
	LibraryID uint
	Page      int
	PageSize  int
	Keyword   string // 匹配姓名、邮箱、条码
}
