package dto

// RegisterRequest HTTP层注册请求
// 说明：HTTP层的DTO，包含参数验证tag
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"librarian@example.com"`
	Password string `json:"password" binding:"required,min=8,max=20" example:"Passw0rd!"`
	Nickname string `json:"nickname" binding:"required,min=2,max=50" example:"馆员小王"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"librarian@example.com"`
	Password string `json:"password" binding:"required" example:"Passw0rd!"`
}

// RefreshRequest 刷新Access Token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserResponse 用户响应（不包含密码）
type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Email    string `json:"email" example:"librarian@example.com"`
	Nickname string `json:"nickname" example:"馆员小王"`
}
