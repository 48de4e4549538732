package handler

import (
	"github.com/gin-gonic/gin"

	applibrary "github.com/xiebiao/libraryhub/internal/application/library"
	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// LibraryHandler 图书馆、管理员、自助机与审计日志
type LibraryHandler struct {
	createLibrary  *applibrary.CreateLibraryUseCase
	addAdmin       *applibrary.AddAdministratorUseCase
	libraryService library.Service
	auditRepo      audit.Repository
	actionRepo     audit.ReaderActionRepository
}

func NewLibraryHandler(
	createLibrary *applibrary.CreateLibraryUseCase,
	addAdmin *applibrary.AddAdministratorUseCase,
	libraryService library.Service,
	auditRepo audit.Repository,
	actionRepo audit.ReaderActionRepository,
) *LibraryHandler {
	return &LibraryHandler{
		createLibrary:  createLibrary,
		addAdmin:       addAdmin,
		libraryService: libraryService,
		auditRepo:      auditRepo,
		actionRepo:     actionRepo,
	}
}

// Create 创建图书馆
// @Summary      创建图书馆
// @Description  创建者自动成为管理员，图书馆获得Free订阅
// @Tags         图书馆
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateLibraryRequest true "图书馆信息"
// @Success      200 {object} response.Response{data=applibrary.LibraryInfo}
// @Router       /api/v1/libraries [post]
func (h *LibraryHandler) Create(c *gin.Context) {
	var req dto.CreateLibraryRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.createLibrary.Execute(c.Request.Context(), applibrary.CreateLibraryRequest{
		OwnerID:      middleware.MustGetUserID(c),
		Name:         req.Name,
		Alias:        req.Alias,
		CheckoutDays: req.CheckoutDays,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListMine 当前馆员管理的图书馆
// @Summary      我的图书馆
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]applibrary.LibraryInfo}
// @Router       /api/v1/libraries [get]
func (h *LibraryHandler) ListMine(c *gin.Context) {
	libs, err := h.libraryService.ListForUser(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]*applibrary.LibraryInfo, 0, len(libs))
	for _, lib := range libs {
		list = append(list, applibrary.ToLibraryInfo(lib))
	}
	response.Success(c, list)
}

// Get 图书馆详情
// @Summary      图书馆详情
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Success      200 {object} response.Response{data=applibrary.LibraryInfo}
// @Router       /api/v1/libraries/{libraryID} [get]
func (h *LibraryHandler) Get(c *gin.Context) {
	lib, err := h.libraryService.GetLibrary(c.Request.Context(), middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, applibrary.ToLibraryInfo(lib))
}

// Update 修改名称与借期
// @Summary      修改图书馆设置
// @Tags         图书馆
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.UpdateLibraryRequest true "设置"
// @Success      200 {object} response.Response{data=applibrary.LibraryInfo}
// @Router       /api/v1/libraries/{libraryID} [put]
func (h *LibraryHandler) Update(c *gin.Context) {
	var req dto.UpdateLibraryRequest
	if !bindJSON(c, &req) {
		return
	}

	lib, err := h.libraryService.UpdateSettings(c.Request.Context(), middleware.GetLibraryID(c), req.Name, req.CheckoutDays)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, applibrary.ToLibraryInfo(lib))
}

// Delete 删除图书馆（软删除，别名保留）
// @Summary      删除图书馆
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID} [delete]
func (h *LibraryHandler) Delete(c *gin.Context) {
	if err := h.libraryService.DeleteLibrary(c.Request.Context(), middleware.GetLibraryID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListAdministrators 管理员列表
// @Summary      管理员列表
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Success      200 {object} response.Response{data=dto.AdministratorsResponse}
// @Router       /api/v1/libraries/{libraryID}/administrators [get]
func (h *LibraryHandler) ListAdministrators(c *gin.Context) {
	ids, err := h.libraryService.ListAdministrators(c.Request.Context(), middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.AdministratorsResponse{UserIDs: ids})
}

// AddAdministrator 按邮箱添加管理员
// @Summary      添加管理员
// @Tags         图书馆
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.AddAdministratorRequest true "馆员邮箱"
// @Success      200 {object} response.Response{data=applibrary.AdministratorInfo}
// @Router       /api/v1/libraries/{libraryID}/administrators [post]
func (h *LibraryHandler) AddAdministrator(c *gin.Context) {
	var req dto.AddAdministratorRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.addAdmin.Execute(c.Request.Context(), middleware.GetLibraryID(c), middleware.MustGetUserID(c), req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RemoveAdministrator 移除管理员，至少保留一位
// @Summary      移除管理员
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        userID path int true "馆员ID"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID}/administrators/{userID} [delete]
func (h *LibraryHandler) RemoveAdministrator(c *gin.Context) {
	userID, ok := uintParam(c, "userID")
	if !ok {
		return
	}
	if err := h.libraryService.RemoveAdministrator(c.Request.Context(), middleware.GetLibraryID(c), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateKiosk 创建自助机，密钥只返回一次
// @Summary      创建自助机
// @Tags         自助机
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.CreateKioskRequest true "自助机名称"
// @Success      200 {object} response.Response{data=dto.KioskResponse}
// @Router       /api/v1/libraries/{libraryID}/kiosks [post]
func (h *LibraryHandler) CreateKiosk(c *gin.Context) {
	var req dto.CreateKioskRequest
	if !bindJSON(c, &req) {
		return
	}

	kiosk, secret, err := h.libraryService.CreateKiosk(c.Request.Context(), middleware.GetLibraryID(c), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	resp := toKioskResponse(kiosk)
	resp.Secret = secret
	response.Success(c, resp)
}

// ListKiosks 自助机列表
// @Summary      自助机列表
// @Tags         自助机
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Success      200 {object} response.Response{data=[]dto.KioskResponse}
// @Router       /api/v1/libraries/{libraryID}/kiosks [get]
func (h *LibraryHandler) ListKiosks(c *gin.Context) {
	kiosks, err := h.libraryService.ListKiosks(c.Request.Context(), middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	list := make([]*dto.KioskResponse, 0, len(kiosks))
	for _, k := range kiosks {
		list = append(list, toKioskResponse(k))
	}
	response.Success(c, list)
}

// SetKioskEnabled 启用/停用自助机
// @Summary      启用/停用自助机
// @Tags         自助机
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        kioskID path int true "自助机ID"
// @Param        request body dto.SetKioskEnabledRequest true "状态"
// @Success      200 {object} response.Response
// @Router       /api/v1/libraries/{libraryID}/kiosks/{kioskID}/enabled [put]
func (h *LibraryHandler) SetKioskEnabled(c *gin.Context) {
	kioskID, ok := uintParam(c, "kioskID")
	if !ok {
		return
	}
	var req dto.SetKioskEnabledRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.libraryService.SetKioskEnabled(c.Request.Context(), middleware.GetLibraryID(c), kioskID, *req.Enabled); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AuditLogs 管理操作审计日志
// @Summary      审计日志
// @Tags         图书馆
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.AuditLogResponse}}
// @Router       /api/v1/libraries/{libraryID}/audit-logs [get]
func (h *LibraryHandler) AuditLogs(c *gin.Context) {
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	q.Normalize()

	logs, total, err := h.auditRepo.List(c.Request.Context(), middleware.GetLibraryID(c), q.Page, q.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		list = append(list, dto.AuditLogResponse{
			ID:         l.ID,
			UserID:     l.UserID,
			Action:     l.Action,
			EntityType: l.EntityType,
			EntityID:   l.EntityID,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(timeLayout),
		})
	}
	response.SuccessWithPage(c, list, total, q.Page, q.PageSize)
}

// ReaderActions 借还记录，reader_id为空时返回全馆记录
// @Summary      借还记录
// @Tags         借还
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        reader_id query int false "读者ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Success      200 {object} response.Response{data=response.PageData{list=[]dto.ReaderActionResponse}}
// @Router       /api/v1/libraries/{libraryID}/reader-actions [get]
func (h *LibraryHandler) ReaderActions(c *gin.Context) {
	var q struct {
		dto.PageQuery
		ReaderID uint `form:"reader_id"`
	}
	if !bindQuery(c, &q) {
		return
	}
	q.Normalize()

	actions, total, err := h.actionRepo.List(c.Request.Context(), audit.ReaderActionQuery{
		LibraryID: middleware.GetLibraryID(c),
		ReaderID:  q.ReaderID,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.ReaderActionResponse, 0, len(actions))
	for _, a := range actions {
		list = append(list, dto.ReaderActionResponse{
			ID:             a.ID,
			ReaderID:       a.ReaderID,
			BookInstanceID: a.BookInstanceID,
			BookID:         a.BookID,
			BookTitle:      a.BookTitle,
			Action:         string(a.Action),
			OccurredAt:     a.OccurredAt.Format(timeLayout),
		})
	}
	response.SuccessWithPage(c, list, total, q.Page, q.PageSize)
}

func toKioskResponse(k *library.Kiosk) *dto.KioskResponse {
	return &dto.KioskResponse{
		ID:        k.ID,
		LibraryID: k.LibraryID,
		Name:      k.Name,
		Enabled:   k.Enabled,
		CreatedAt: k.CreatedAt.Format(timeLayout),
	}
}
