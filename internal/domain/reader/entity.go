package reader

import (
	"strings"
	"time"
)

// Reader 读者实体
// 一个读者可以属于多个图书馆，EAN条形码用于自助机扫码
type Reader struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	EAN       string // EAN-13条码
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReader 创建读者
func NewReader(firstName, lastName, email string) *Reader {
	now := time.Now()
	return &Reader{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName 姓名
func (r *Reader) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// UpdateProfile 更新读者资料，空值表示不修改
func (r *Reader) UpdateProfile(firstName, lastName, email string) {
	if v := strings.TrimSpace(firstName); v != "" {
		r.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		r.LastName = v
	}
	if v := strings.TrimSpace(email); v != "" {
		r.Email = strings.ToLower(v)
	}
	r.UpdatedAt = time.Now()
}
