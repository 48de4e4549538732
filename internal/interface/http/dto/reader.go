package dto

// RegisterReaderRequest 登记读者
type RegisterReaderRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100" example:"小明"`
	LastName  string `json:"last_name" binding:"required,max=100" example:"李"`
	Email     string `json:"email" binding:"required,email" example:"reader@example.com"`
}

// ListReadersRequest 读者列表
type ListReadersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}

// CheckoutRequest 馆员为读者借书
type CheckoutRequest struct {
	ReaderID    uint   `json:"reader_id" binding:"required" example:"5"`
	InstanceIDs []uint `json:"instance_ids" binding:"required,min=1,max=50" example:"100,101"`
}

// ReturnRequest 馆员还书
type ReturnRequest struct {
	InstanceIDs []uint `json:"instance_ids" binding:"required,min=1,max=50" example:"100,101"`
}
