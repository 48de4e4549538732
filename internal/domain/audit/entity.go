package audit

import (
	"time"
)

// ActionType 读者借还动作
type ActionType string

const (
	ActionCheckout ActionType = "checkout"
	ActionReturn   ActionType = "return"
)

// ReaderAction 借还记录（只追加）
// BookTitle冗余保存，图书删除后记录仍可读
type ReaderAction struct {
	ID             uint
	LibraryID      uint
	ReaderID       uint
	BookInstanceID uint
	BookID         uint
	BookTitle      string
	Action         ActionType
	OccurredAt     time.Time
}

// 管理操作类型
const (
	LogLibraryCreated      = "library.created"
	LogAdministratorAdded  = "library.administrator_added"
	LogImportCreated       = "import.created"
	LogImportCompleted     = "import.completed"
	LogImportFailed        = "import.failed"
	LogSubscriptionChanged = "subscription.tier_changed"
	LogCheckoutStarted     = "subscription.checkout_started"
)

// Log 管理操作审计日志（只追加）
type Log struct {
	ID         uint
	LibraryID  uint
	UserID     uint
	Action     string
	EntityType string
	EntityID   uint
	Details    map[string]any
	CreatedAt  time.Time
}

// NewLog 创建审计日志
func NewLog(libraryID, userID uint, action, entityType string, entityID uint, details map[string]any) *Log {
	return &Log{
		LibraryID:  libraryID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
}
