package dto

// ChangeTierRequest 切换订阅等级
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=free basic premium unlimited" example:"basic"`
}

// StartCheckoutRequest 付费订阅结账
type StartCheckoutRequest struct {
	Tier string `json:"tier" binding:"required,oneof=basic premium unlimited" example:"premium"`
}
