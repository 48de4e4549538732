package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/libraryhub/internal/application/importer"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// ImportHandler 批量导入
type ImportHandler struct {
	upload *importer.UploadUseCase
	query  *importer.QueryUseCase
}

func NewImportHandler(upload *importer.UploadUseCase, query *importer.QueryUseCase) *ImportHandler {
	return &ImportHandler{upload: upload, query: query}
}

// Upload 上传ISBN CSV文件
// @Summary      上传导入文件
// @Description  CSV每行一个ISBN，可带表头；任务异步处理
// @Tags         导入
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        file formData file true "CSV文件"
// @Success      200 {object} response.Response{data=importer.UploadResponse}
// @Router       /api/v1/libraries/{libraryID}/imports [post]
func (h *ImportHandler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "缺少上传文件")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidFile, "读取上传文件失败")
		return
	}
	defer f.Close()

	result, err := h.upload.Execute(c.Request.Context(), importer.UploadRequest{
		LibraryID: middleware.GetLibraryID(c),
		UserID:    middleware.MustGetUserID(c),
		FileName:  fh.Filename,
		Content:   f,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// List 导入历史
// @Summary      导入历史
// @Tags         导入
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]importer.ImportInfo}}
// @Router       /api/v1/libraries/{libraryID}/imports [get]
func (h *ImportHandler) List(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	q.Normalize()

	list, total, err := h.query.List(c.Request.Context(), middleware.GetLibraryID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPage(c, list, total, q.Page, q.PageSize)
}

// Get 导入进度
// @Summary      导入进度
// @Tags         导入
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        importID path int true "导入任务ID"
// @Success      200 {object} response.Response{data=importer.ImportInfo}
// @Router       /api/v1/libraries/{libraryID}/imports/{importID} [get]
func (h *ImportHandler) Get(c *gin.Context) {
	importID, ok := uintParam(c, "importID")
	if !ok {
		return
	}
	info, err := h.query.Get(c.Request.Context(), middleware.GetLibraryID(c), importID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}
