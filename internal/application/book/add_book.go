package book

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// MetadataLookup 按ISBN查询书目，由isbn.Client实现
type MetadataLookup interface {
	Lookup(ctx context.Context, isbn string) (*book.Metadata, error)
}

// AddBookUseCase 图书录入用例
// 只填ISBN时先从外部服务补全书目，手工填写的字段优先
type AddBookUseCase struct {
	bookService book.Service
	lookup      MetadataLookup
}

// NewAddBookUseCase 创建录入用例
func NewAddBookUseCase(bookService book.Service, lookup MetadataLookup) *AddBookUseCase {
	return &AddBookUseCase{
		bookService: bookService,
		lookup:      lookup,
	}
}

// AddBookRequest 录入请求DTO
type AddBookRequest struct {
	LibraryID     uint
	ISBN          string
	Title         string
	Subtitle      string
	Authors       []string
	Categories    []string
	Publisher     string
	PublishedYear int
	Language      string
	PageCount     int
	Description   string
	CoverURL      string
	Copies        int
}

// Execute 执行录入
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*BookDetail, error) {
	meta := book.Metadata{
		ISBN:          req.ISBN,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
		Language:      req.Language,
		PageCount:     req.PageCount,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		Authors:       req.Authors,
		Categories:    req.Categories,
	}

	// 1. 没有书名时查询外部服务
	if strings.TrimSpace(meta.Title) == "" && uc.lookup != nil {
		isbn, err := book.NormalizeISBN(meta.ISBN)
		if err != nil {
			return nil, err
		}
		found, err := uc.lookup.Lookup(ctx, isbn)
		if err != nil {
			// 查询失败时交给领域服务报书名为空
			slog.WarnContext(ctx, "isbn lookup failed", "isbn", isbn, "err", err)
		} else {
			meta = mergeMetadata(meta, *found)
		}
	}

	// 2. 调用领域服务（额度、ISBN重复校验）
	b, err := uc.bookService.AddBook(ctx, req.LibraryID, meta, req.Copies)
	if err != nil {
		return nil, err
	}
	return ToBookDetail(b), nil
}

// mergeMetadata 手工字段为空时使用查询结果
func mergeMetadata(manual, found book.Metadata) book.Metadata {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	merged := found
	merged.ISBN = manual.ISBN
	merged.Title = pick(manual.Title, found.Title)
	merged.Subtitle = pick(manual.Subtitle, found.Subtitle)
	merged.Publisher = pick(manual.Publisher, found.Publisher)
	merged.Language = pick(manual.Language, found.Language)
	merged.Description = pick(manual.Description, found.Description)
	merged.CoverURL = pick(manual.CoverURL, found.CoverURL)
	if manual.PublishedYear > 0 {
		merged.PublishedYear = manual.PublishedYear
	}
	if manual.PageCount > 0 {
		merged.PageCount = manual.PageCount
	}
	if len(book.CleanNames(manual.Authors)) > 0 {
		merged.Authors = manual.Authors
	}
	if len(book.CleanNames(manual.Categories)) > 0 {
		merged.Categories = manual.Categories
	}
	return merged
}

