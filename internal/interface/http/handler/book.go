package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/libraryhub/internal/application/book"
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// BookHandler 图书与副本
type BookHandler struct {
	addBook        *appbook.AddBookUseCase
	listBooks      *appbook.ListBooksUseCase
	semanticSearch *appbook.SemanticSearchUseCase
	bookService    book.Service
}

func NewBookHandler(
	addBook *appbook.AddBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	semanticSearch *appbook.SemanticSearchUseCase,
	bookService book.Service,
) *BookHandler {
	return &BookHandler{
		addBook:        addBook,
		listBooks:      listBooks,
		semanticSearch: semanticSearch,
		bookService:    bookService,
	}
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页查询馆藏，支持关键词、作者、分类、年龄段筛选
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request query dto.ListBooksRequest false "查询条件"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/libraries/{libraryID}/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		LibraryID:     middleware.GetLibraryID(c),
		Page:          req.Page,
		PageSize:      req.PageSize,
		Keyword:       req.Keyword,
		Author:        req.Author,
		Category:      req.Category,
		AgeGroup:      req.AgeGroup,
		AvailableOnly: req.AvailableOnly,
		SortBy:        req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddBook 录入图书
// @Summary      录入图书
// @Description  只填ISBN时自动补全书目；同ISBN已存在时只新增副本
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.AddBookRequest true "图书信息"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/libraries/{libraryID}/books [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	var req dto.AddBookRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.addBook.Execute(c.Request.Context(), appbook.AddBookRequest{
		LibraryID:     middleware.GetLibraryID(c),
		ISBN:          req.ISBN,
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Authors:       req.Authors,
		Categories:    req.Categories,
		Publisher:     req.Publisher,
		PublishedYear: req.PublishedYear,
		Language:      req.Language,
		PageCount:     req.PageCount,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		Copies:        req.Copies,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SemanticSearch 自然语言检索
// @Summary      自然语言检索
// @Description  AI服务不可用时退化为关键词检索
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.SemanticSearchRequest true "检索语句"
// @Success      200 {object} response.Response{data=appbook.SemanticSearchResponse}
// @Router       /api/v1/libraries/{libraryID}/books/semantic-search [post]
func (h *BookHandler) SemanticSearch(c *gin.Context) {
	var req dto.SemanticSearchRequest
	if !bindJSON(c, &req) {
		return
	}
	h.search(c, middleware.GetLibraryID(c), req)
}

func (h *BookHandler) search(c *gin.Context, libraryID uint, req dto.SemanticSearchRequest) {
	result, err := h.semanticSearch.Execute(c.Request.Context(), appbook.SemanticSearchRequest{
		LibraryID: libraryID,
		Query:     req.Query,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情（含副本）
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        bookID path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/libraries/{libraryID}/books/{bookID} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, ok := uintParam(c, "bookID")
	if !ok {
		return
	}
	b, err := h.bookService.GetBook(c.Request.Context(), middleware.GetLibraryID(c), bookID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, appbook.ToBookDetail(b))
}

// UpdateBook 修改书目
// @Summary      修改书目
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        bookID path int true "图书ID"
// @Param        request body dto.UpdateBookRequest true "书目"
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Router       /api/v1/libraries/{libraryID}/books/{bookID} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, ok := uintParam(c, "bookID")
	if !ok {
		return
	}
	var req dto.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.bookService.UpdateBook(c.Request.Context(), middleware.GetLibraryID(c), bookID, book.Metadata{
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
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, appbook.ToBookDetail(b))
}

// DeleteBook 删除图书，有副本借出时拒绝
// @Summary      删除图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        bookID path int true "图书ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID}/books/{bookID} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	bookID, ok := uintParam(c, "bookID")
	if !ok {
		return
	}
	if err := h.bookService.DeleteBook(c.Request.Context(), middleware.GetLibraryID(c), bookID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddInstance 新增副本
// @Summary      新增副本
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        bookID path int true "图书ID"
// @Param        request body dto.AddInstanceRequest false "备注"
// @Success      200 {object} response.Response{data=appbook.InstanceInfo}
// @Router       /api/v1/libraries/{libraryID}/books/{bookID}/instances [post]
func (h *BookHandler) AddInstance(c *gin.Context) {
	bookID, ok := uintParam(c, "bookID")
	if !ok {
		return
	}
	var req dto.AddInstanceRequest
	// 请求体可为空
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	inst, err := h.bookService.AddInstance(c.Request.Context(), middleware.GetLibraryID(c), bookID, req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, appbook.ToInstanceInfo(inst))
}

// SetInstanceStatus 修改副本状态
// @Summary      修改副本状态
// @Description  只能设为available、reserved、lost_damaged，借出/归还走借还接口
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        instanceID path int true "副本ID"
// @Param        request body dto.SetInstanceStatusRequest true "状态"
// @Success      200 {object} response.Response{data=appbook.InstanceInfo}
// @Router       /api/v1/libraries/{libraryID}/instances/{instanceID}/status [put]
func (h *BookHandler) SetInstanceStatus(c *gin.Context) {
	instanceID, ok := uintParam(c, "instanceID")
	if !ok {
		return
	}
	var req dto.SetInstanceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	status, ok := book.ParseInstanceStatus(req.Status)
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的副本状态")
		return
	}

	inst, err := h.bookService.SetInstanceStatus(c.Request.Context(), middleware.GetLibraryID(c), instanceID, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, appbook.ToInstanceInfo(inst))
}
