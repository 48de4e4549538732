package library

import (
	"regexp"
	"strings"
	"time"
)

// DefaultCheckoutDurationDays 默认借期（天）
const DefaultCheckoutDurationDays = 14

// MaxCheckoutDurationDays 借期上限（天）
const MaxCheckoutDurationDays = 365

var aliasPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

// Library 图书馆实体（租户根）
// 图书、读者、自助机、订阅都挂在图书馆下，Alias全局唯一
type Library struct {
	ID                   uint
	Name                 string
	Alias                string // 全局唯一别名（URL友好）
	CheckoutDurationDays int    // 借期（天）
	OwnerID              uint   // 创建者用户ID
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewLibrary 创建图书馆
// checkoutDays<=0时使用默认借期
func NewLibrary(name, alias string, ownerID uint, checkoutDays int) *Library {
	if checkoutDays <= 0 {
		checkoutDays = DefaultCheckoutDurationDays
	}
	now := time.Now()
	return &Library{
		Name:                 strings.TrimSpace(name),
		Alias:                NormalizeAlias(alias),
		CheckoutDurationDays: checkoutDays,
		OwnerID:              ownerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

// DueDate 计算应还日期 = 借出时间 + 借期天数
func (l *Library) DueDate(checkedOutAt time.Time) time.Time {
	return checkedOutAt.Add(time.Duration(l.CheckoutDurationDays) * 24 * time.Hour)
}

// UpdateSettings 更新名称与借期，空名称/0借期表示不修改
func (l *Library) UpdateSettings(name string, checkoutDays int) error {
	if checkoutDays < 0 || checkoutDays > MaxCheckoutDurationDays {
		return ErrInvalidCheckoutDuration
	}
	if name = strings.TrimSpace(name); name != "" {
		l.Name = name
	}
	if checkoutDays > 0 {
		l.CheckoutDurationDays = checkoutDays
	}
	l.UpdatedAt = time.Now()
	return nil
}

// NormalizeAlias 别名统一为小写并去除首尾空白
func NormalizeAlias(alias string) string {
	return strings.ToLower(strings.TrimSpace(alias))
}

// IsValidAlias 别名只允许小写字母、数字和连字符，2-63位
func IsValidAlias(alias string) bool {
	return aliasPattern.MatchString(alias)
}

// Kiosk 自助借还机
// Secret只保存bcrypt哈希，明文只在创建时返回一次
type Kiosk struct {
	ID         uint
	LibraryID  uint
	Name       string
	SecretHash string
	Enabled    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
