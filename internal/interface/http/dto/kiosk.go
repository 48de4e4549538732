package dto

// KioskLoginRequest 自助机登录：自助机凭证 + 读者条码
type KioskLoginRequest struct {
	KioskID uint   `json:"kiosk_id" binding:"required" example:"1"`
	Secret  string `json:"secret" binding:"required"`
	EAN     string `json:"ean" binding:"required,len=13,numeric" example:"2000000000053"`
}

// ReaderCirculationRequest 读者自助借还
type ReaderCirculationRequest struct {
	InstanceIDs []uint `json:"instance_ids" binding:"required,min=1,max=20" example:"100"`
}

// KioskCirculationRequest 馆内自助机借还，按条码识别读者
type KioskCirculationRequest struct {
	EAN         string `json:"ean" binding:"required,len=13,numeric" example:"2000000000053"`
	InstanceIDs []uint `json:"instance_ids" binding:"required,min=1,max=20" example:"100"`
}
