package book

import (
	"time"
)

// InstanceStatus 馆藏副本状态
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "available"
	StatusBorrowed    InstanceStatus = "borrowed"
	StatusReserved    InstanceStatus = "reserved"
	StatusLostDamaged InstanceStatus = "lost_damaged"
)

// ParseInstanceStatus 解析副本状态
func ParseInstanceStatus(s string) (InstanceStatus, bool) {
	switch InstanceStatus(s) {
	case StatusAvailable, StatusBorrowed, StatusReserved, StatusLostDamaged:
		return InstanceStatus(s), true
	}
	return "", false
}

// BookInstance 馆藏副本（一本实体书）
//
// ReaderID、CheckedOutDate、DueDate只在Borrowed状态下同时有值，其他状态同时为空。
type BookInstance struct {
	ID             uint
	BookID         uint
	LibraryID      uint
	Status         InstanceStatus
	ReaderID       *uint
	CheckedOutDate *time.Time
	DueDate        *time.Time
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewInstance 创建可借副本
func NewInstance(bookID, libraryID uint) *BookInstance {
	now := time.Now()
	return &BookInstance{
		BookID:    bookID,
		LibraryID: libraryID,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Checkout 借出：Available → Borrowed
func (i *BookInstance) Checkout(readerID uint, at, due time.Time) error {
	if i.Status != StatusAvailable {
		return ErrInstanceNotAvailable
	}
	i.Status = StatusBorrowed
	i.ReaderID = &readerID
	i.CheckedOutDate = &at
	i.DueDate = &due
	i.UpdatedAt = at
	return nil
}

// Return 归还：Borrowed → Available，返回归还前的读者ID
func (i *BookInstance) Return(at time.Time) (uint, error) {
	if i.Status != StatusBorrowed || i.ReaderID == nil {
		return 0, ErrInstanceNotBorrowed
	}
	previous := *i.ReaderID
	i.Status = StatusAvailable
	i.ReaderID = nil
	i.CheckedOutDate = nil
	i.DueDate = nil
	i.UpdatedAt = at
	return previous, nil
}

// SetStatus 管理员调整状态（预留、遗失/损坏、恢复可借）
// 借出中的副本必须先归还，Borrowed只能通过Checkout进入
func (i *BookInstance) SetStatus(status InstanceStatus) error {
	if _, ok := ParseInstanceStatus(string(status)); !ok || status == StatusBorrowed {
		return ErrInvalidInstanceStatus
	}
	if i.Status == StatusBorrowed {
		return ErrInstanceBorrowed
	}
	i.Status = status
	i.UpdatedAt = time.Now()
	return nil
}

// IsBorrowedBy 是否由该读者借出
func (i *BookInstance) IsBorrowedBy(readerID uint) bool {
	return i.Status == StatusBorrowed && i.ReaderID != nil && *i.ReaderID == readerID
}

// IsOverdue 是否逾期
func (i *BookInstance) IsOverdue(now time.Time) bool {
	return i.Status == StatusBorrowed && i.DueDate != nil && now.After(*i.DueDate)
}
