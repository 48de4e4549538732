package book

import (
	"context"
)

// Repository 图书仓储接口
type Repository interface {
	// Create 创建图书，同时保存Authors/Categories关联和Instances
	Create(ctx context.Context, book *Book) error

	// FindByID 加载作者、分类与副本，不存在时返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 在图书馆内按ISBN查找，不存在时返回ErrBookNotFound
	FindByISBN(ctx context.Context, libraryID uint, isbn string) (*Book, error)

	// Update 更新书目字段及作者、分类关联
	Update(ctx context.Context, book *Book) error

	UpdateAgeGroup(ctx context.Context, id uint, group AgeGroup) error

	// Delete 软删除图书及其副本
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	CountByLibrary(ctx context.Context, libraryID uint) (int64, error)

	// FindOrCreateAuthor 按图书馆内的精确名称查找，不存在则创建
	FindOrCreateAuthor(ctx context.Context, libraryID uint, name string) (*Author, error)
	FindOrCreateCategory(ctx context.Context, libraryID uint, name string) (*Category, error)
}

// InstanceRepository 馆藏副本仓储接口
type InstanceRepository interface {
	Create(ctx context.Context, instance *BookInstance) error

	// FindByID 不存在时返回ErrInstanceNotFound
	FindByID(ctx context.Context, id uint) (*BookInstance, error)

	// Update 单行更新，不加锁（后写覆盖）
	Update(ctx context.Context, instance *BookInstance) error

	ListByBook(ctx context.Context, bookID uint) ([]*BookInstance, error)

	// ListBorrowedByReader 读者在图书馆的在借副本，按应还日期升序
	ListBorrowedByReader(ctx context.Context, libraryID, readerID uint) ([]*BookInstance, error)
}

// ListParams 图书列表查询参数
type ListParams struct {
	LibraryID     uint
	Page          int
	PageSize      int
	Keyword       string // 匹配书名、副标题、ISBN
	Author        string
	Category      string
	AgeGroup      AgeGroup
	AvailableOnly bool
	SortBy        string // title_asc, created_at_desc, published_year_desc
}
