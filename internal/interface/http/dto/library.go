package dto

// CreateLibraryRequest 创建图书馆
type CreateLibraryRequest struct {
	Name         string `json:"name" binding:"required,max=100" example:"朝阳社区图书馆"`
	Alias        string `json:"alias" binding:"required,min=2,max=63" example:"chaoyang"`
	CheckoutDays int    `json:"checkout_days" binding:"omitempty,min=1,max=365" example:"14"`
}

// UpdateLibraryRequest 修改图书馆设置
type UpdateLibraryRequest struct {
	Name         string `json:"name" binding:"omitempty,max=100" example:"朝阳社区图书馆"`
	CheckoutDays int    `json:"checkout_days" binding:"omitempty,min=1,max=365" example:"21"`
}

// AddAdministratorRequest 按邮箱添加管理员
type AddAdministratorRequest struct {
	Email string `json:"email" binding:"required,email" example:"colleague@example.com"`
}

// CreateKioskRequest 创建自助机
type CreateKioskRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"一楼大厅"`
}

// SetKioskEnabledRequest 启用/停用自助机
type SetKioskEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// KioskResponse 自助机信息，Secret只在创建时返回
type KioskResponse struct {
	ID        uint   `json:"id" example:"1"`
	LibraryID uint   `json:"library_id" example:"1"`
	Name      string `json:"name" example:"一楼大厅"`
	Enabled   bool   `json:"enabled" example:"true"`
	Secret    string `json:"secret,omitempty"`
	CreatedAt string `json:"created_at" example:"2024-01-15 10:30:00"`
}

// AdministratorsResponse 管理员用户ID列表
type AdministratorsResponse struct {
	UserIDs []uint `json:"user_ids"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// Normalize 默认第1页、每页20条
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}
}

// AuditLogResponse 审计日志
type AuditLogResponse struct {
	ID         uint           `json:"id"`
	UserID     uint           `json:"user_id"`
	Action     string         `json:"action" example:"import.completed"`
	EntityType string         `json:"entity_type" example:"import"`
	EntityID   uint           `json:"entity_id"`
	Details    map[string]any `json:"details"`
	CreatedAt  string         `json:"created_at" example:"2024-01-15 10:30:00"`
}

// ReaderActionResponse 借还记录
type ReaderActionResponse struct {
	ID             uint   `json:"id"`
	ReaderID       uint   `json:"reader_id"`
	BookInstanceID uint   `json:"book_instance_id"`
	BookID         uint   `json:"book_id"`
	BookTitle      string `json:"book_title"`
	Action         string `json:"action" example:"checkout"`
	OccurredAt     string `json:"occurred_at" example:"2024-01-15 10:30:00"`
}
