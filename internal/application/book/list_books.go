package book

import (
	"context"

	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 列表不返回description，减少数据传输量
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	LibraryID     uint
	Page          int    // 页码(从1开始)
	PageSize      int    // 每页数量
	Keyword       string // 搜索书名、副标题、ISBN
	Author        string
	Category      string
	AgeGroup      string
	AvailableOnly bool
	SortBy        string // title_asc, published_year_desc, created_at_desc
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookListItem `json:"list"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Execute 执行列表查询用例
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	// 1. 参数默认值与范围限制
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	params := book.ListParams{
		LibraryID:     req.LibraryID,
		Page:          req.Page,
		PageSize:      req.PageSize,
		Keyword:       req.Keyword,
		Author:        req.Author,
		Category:      req.Category,
		AvailableOnly: req.AvailableOnly,
		SortBy:        req.SortBy,
	}
	// 无法识别的年龄段忽略，不报错
	if group, ok := book.ParseAgeGroup(req.AgeGroup); ok {
		params.AgeGroup = group
	}

	// 2. 查询
	books, total, err := uc.bookService.ListBooks(ctx, params)
	if err != nil {
		return nil, err
	}

	// 3. 转换为DTO
	list := make([]BookListItem, len(books))
	for i, b := range books {
		list[i] = toListItem(b)
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	return &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}, nil
}
