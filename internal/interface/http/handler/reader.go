package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/libraryhub/internal/application/kiosk"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// ReaderHandler 读者管理
type ReaderHandler struct {
	readerService reader.Service
}

func NewReaderHandler(readerService reader.Service) *ReaderHandler {
	return &ReaderHandler{readerService: readerService}
}

// Register 登记读者，邮箱已存在时直接加入本馆
// @Summary      登记读者
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.RegisterReaderRequest true "读者信息"
// @Success      200 {object} response.Response{data=kiosk.ReaderInfo}
// @Router       /api/v1/libraries/{libraryID}/readers [post]
func (h *ReaderHandler) Register(c *gin.Context) {
	var req dto.RegisterReaderRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.readerService.RegisterReader(c.Request.Context(), middleware.GetLibraryID(c), req.FirstName, req.LastName, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kiosk.ToReaderInfo(r))
}

// List 本馆读者列表
// @Summary      读者列表
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request query dto.ListReadersRequest false "查询条件"
// @Success      200 {object} response.Response{data=response.PageData{list=[]kiosk.ReaderInfo}}
// @Router       /api/v1/libraries/{libraryID}/readers [get]
func (h *ReaderHandler) List(c *gin.Context) {
	var req dto.ListReadersRequest
	if !bindQuery(c, &req) {
		return
	}
	page := dto.PageQuery{Page: req.Page, PageSize: req.PageSize}
	page.Normalize()

	readers, total, err := h.readerService.ListReaders(c.Request.Context(), reader.ListParams{
		LibraryID: middleware.GetLibraryID(c),
		Page:      page.Page,
		PageSize:  page.PageSize,
		Keyword:   req.Keyword,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*kiosk.ReaderInfo, 0, len(readers))
	for _, r := range readers {
		list = append(list, kiosk.ToReaderInfo(r))
	}
	response.SuccessWithPage(c, list, total, page.Page, page.PageSize)
}

// Get 读者详情
// @Summary      读者详情
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        readerID path int true "读者ID"
// @Success      200 {object} response.Response{data=kiosk.ReaderInfo}
// @Router       /api/v1/libraries/{libraryID}/readers/{readerID} [get]
func (h *ReaderHandler) Get(c *gin.Context) {
	readerID, ok := uintParam(c, "readerID")
	if !ok {
		return
	}
	r, err := h.readerService.GetReader(c.Request.Context(), middleware.GetLibraryID(c), readerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kiosk.ToReaderInfo(r))
}

// Update 修改读者信息
// @Summary      修改读者信息
// @Tags         读者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        readerID path int true "读者ID"
// @Param        request body dto.RegisterReaderRequest true "读者信息"
// @Success      200 {object} response.Response{data=kiosk.ReaderInfo}
// @Router       /api/v1/libraries/{libraryID}/readers/{readerID} [put]
func (h *ReaderHandler) Update(c *gin.Context) {
	readerID, ok := uintParam(c, "readerID")
	if !ok {
		return
	}
	var req dto.RegisterReaderRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.readerService.UpdateReader(c.Request.Context(), middleware.GetLibraryID(c), readerID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kiosk.ToReaderInfo(r))
}

// Attach 已有读者加入本馆
// @Summary      读者加入本馆
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        readerID path int true "读者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID}/readers/{readerID}/membership [post]
func (h *ReaderHandler) Attach(c *gin.Context) {
	readerID, ok := uintParam(c, "readerID")
	if !ok {
		return
	}
	if err := h.readerService.AttachToLibrary(c.Request.Context(), middleware.GetLibraryID(c), readerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Detach 读者退出本馆
// @Summary      读者退出本馆
// @Tags         读者
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        readerID path int true "读者ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID}/readers/{readerID}/membership [delete]
func (h *ReaderHandler) Detach(c *gin.Context) {
	readerID, ok := uintParam(c, "readerID")
	if !ok {
		return
	}
	if err := h.readerService.DetachFromLibrary(c.Request.Context(), middleware.GetLibraryID(c), readerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
