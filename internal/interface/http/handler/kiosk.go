package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/libraryhub/internal/application/book"
	"github.com/xiebiao/libraryhub/internal/application/kiosk"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// KioskHandler 自助机与读者移动端
type KioskHandler struct {
	kioskService *kiosk.Service
	listBooks    *appbook.ListBooksUseCase
}

func NewKioskHandler(kioskService *kiosk.Service, listBooks *appbook.ListBooksUseCase) *KioskHandler {
	return &KioskHandler{
		kioskService: kioskService,
		listBooks:    listBooks,
	}
}

// Login 自助机登录，签发读者令牌
// @Summary      自助机登录
// @Description  自助机凭证 + 读者条码，返回绑定图书馆的读者令牌
// @Tags         自助机
// @Accept       json
// @Produce      json
// @Param        request body dto.KioskLoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=kiosk.LoginResponse}
// @Router       /api/v1/kiosk/login [post]
func (h *KioskHandler) Login(c *gin.Context) {
	var req dto.KioskLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.kioskService.Login(c.Request.Context(), kiosk.LoginRequest{
		KioskID: req.KioskID,
		Secret:  req.Secret,
		EAN:     req.EAN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// KioskCheckout 馆内自助机借书
// @Summary      自助机借书
// @Tags         自助机
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.KioskCirculationRequest true "读者条码与副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/libraries/{libraryID}/kiosk/checkout [post]
func (h *KioskHandler) KioskCheckout(c *gin.Context) {
	var req dto.KioskCirculationRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.kioskService.Checkout(c.Request.Context(), middleware.GetLibraryID(c), req.EAN, req.InstanceIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// KioskReturn 馆内自助机还书
// @Summary      自助机还书
// @Tags         自助机
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.KioskCirculationRequest true "读者条码与副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/libraries/{libraryID}/kiosk/return [post]
func (h *KioskHandler) KioskReturn(c *gin.Context) {
	var req dto.KioskCirculationRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.kioskService.RequestReturn(c.Request.Context(), middleware.GetLibraryID(c), req.EAN, req.InstanceIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Books 读者浏览馆藏
// @Summary      读者浏览馆藏
// @Tags         移动端
// @Produce      json
// @Security     BearerAuth
// @Param        request query dto.ListBooksRequest false "查询条件"
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /api/v1/mobile/books [get]
func (h *KioskHandler) Books(c *gin.Context) {
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

// Checkout 读者借书
// @Summary      读者借书
// @Tags         移动端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReaderCirculationRequest true "副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/mobile/checkouts [post]
func (h *KioskHandler) Checkout(c *gin.Context) {
	var req dto.ReaderCirculationRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.kioskService.CheckoutForReader(c.Request.Context(), middleware.GetLibraryID(c), middleware.MustGetUserID(c), req.InstanceIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// RequestReturn 读者还书，只能归还自己借出的副本
// @Summary      读者还书
// @Tags         移动端
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ReaderCirculationRequest true "副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/mobile/return-requests [post]
func (h *KioskHandler) RequestReturn(c *gin.Context) {
	var req dto.ReaderCirculationRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.kioskService.RequestReturnForReader(c.Request.Context(), middleware.GetLibraryID(c), middleware.MustGetUserID(c), req.InstanceIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Loans 读者在借副本
// @Summary      我的在借
// @Tags         移动端
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]kiosk.LoanInfo}
// @Router       /api/v1/mobile/loans [get]
func (h *KioskHandler) Loans(c *gin.Context) {
	loans, err := h.kioskService.MyLoans(c.Request.Context(), middleware.GetLibraryID(c), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, loans)
}
