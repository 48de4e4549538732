package handler

import (
	"github.com/gin-gonic/gin"

	appsub "github.com/xiebiao/libraryhub/internal/application/subscription"
	"github.com/xiebiao/libraryhub/internal/domain/subscription"
	"github.com/xiebiao/libraryhub/internal/interface/http/dto"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// SubscriptionHandler 订阅与额度
type SubscriptionHandler struct {
	getUsage      *appsub.GetUsageUseCase
	changeTier    *appsub.ChangeTierUseCase
	startCheckout *appsub.StartCheckoutUseCase
}

func NewSubscriptionHandler(
	getUsage *appsub.GetUsageUseCase,
	changeTier *appsub.ChangeTierUseCase,
	startCheckout *appsub.StartCheckoutUseCase,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getUsage:      getUsage,
		changeTier:    changeTier,
		startCheckout: startCheckout,
	}
}

// Usage 当前等级与剩余额度
// @Summary      订阅额度
// @Tags         订阅
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Success      200 {object} response.Response{data=appsub.UsageInfo}
// @Router       /api/v1/libraries/{libraryID}/subscription [get]
func (h *SubscriptionHandler) Usage(c *gin.Context) {
	result, err := h.getUsage.Execute(c.Request.Context(), middleware.GetLibraryID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ChangeTier 切换订阅等级
// @Summary      切换订阅等级
// @Tags         订阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.ChangeTierRequest true "等级"
// @Success      200 {object} response.Response{data=appsub.SubscriptionInfo}
// @Router       /api/v1/libraries/{libraryID}/subscription/tier [put]
func (h *SubscriptionHandler) ChangeTier(c *gin.Context) {
	var req dto.ChangeTierRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.changeTier.Execute(c.Request.Context(), middleware.GetLibraryID(c), middleware.MustGetUserID(c), subscription.Tier(req.Tier))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Checkout 创建付费订阅支付会话
// @Summary      付费订阅结账
// @Tags         订阅
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        libraryID path int true "图书馆ID"
// @Param        request body dto.StartCheckoutRequest true "等级"
// @Success      200 {object} response.Response{data=appsub.StartCheckoutResponse}
// @Router       /api/v1/libraries/{libraryID}/subscription/checkout [post]
func (h *SubscriptionHandler) Checkout(c *gin.Context) {
	var req dto.StartCheckoutRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.startCheckout.Execute(c.Request.Context(), appsub.StartCheckoutRequest{
		LibraryID: middleware.GetLibraryID(c),
		UserID:    middleware.MustGetUserID(c),
		Email:     middleware.GetEmail(c),
		Tier:      subscription.Tier(req.Tier),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
