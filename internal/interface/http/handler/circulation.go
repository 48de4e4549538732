package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xiebiao/libraryhub/internal/application/kiosk"
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// CirculationHandler 馆员借还
type CirculationHandler struct {
	circulation *book.CirculationService
}

func NewCirculationHandler(circulation *book.CirculationService) *CirculationHandler {
	return &CirculationHandler{circulation: circulation}
}

// Checkout 为读者借书
// @Summary      借书
// @Description  不可借的副本记入skipped，其余照常借出
// @Tags         借还
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.CheckoutRequest true "读者与副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/libraries/{libraryID}/checkouts [post]
func (h *CirculationHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.circulation.CheckoutBooks(c.Request.Context(), req.ReaderID, req.InstanceIDs, middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kiosk.ToCirculationInfo(result))
}

// Return 还书
// @Summary      还书
// @Tags         借还
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.ReturnRequest true "副本"
// @Success      200 {object} response.Response{data=kiosk.CirculationInfo}
// @Router       /api/v1/libraries/{libraryID}/returns [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	var req dto.ReturnRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.circulation.ReturnBooks(c.Request.Context(), req.InstanceIDs, middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, kiosk.ToCirculationInfo(result))
}
