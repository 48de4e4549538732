package book

import (
	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// BookListItem 列表项DTO（不含description）
type BookListItem struct {
	ID            uint     `json:"id"`
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       []string `json:"authors"`
	Categories    []string `json:"categories"`
	Publisher     string   `json:"publisher"`
	PublishedYear int      `json:"published_year,omitempty"`
	AgeGroup      string   `json:"age_group,omitempty"`
	CoverURL      string   `json:"cover_url"`
	Copies        int      `json:"copies"`
	Available     int      `json:"available"`
	CreatedAt     string   `json:"created_at"`
}

// BookDetail 图书详情DTO
type BookDetail struct {
	BookListItem
	Language    string         `json:"language,omitempty"`
	PageCount   int            `json:"page_count,omitempty"`
	Description string         `json:"description"`
	Instances   []InstanceInfo `json:"instances"`
}

// InstanceInfo 副本DTO
type InstanceInfo struct {
	ID             uint   `json:"id"`
	Status         string `json:"status"`
	ReaderID       *uint  `json:"reader_id,omitempty"`
	CheckedOutDate string `json:"checked_out_date,omitempty"`
	DueDate        string `json:"due_date,omitempty"`
	Note           string `json:"note,omitempty"`
}

const timeLayout = "2006-01-02 15:04:05"

func toListItem(b *book.Book) BookListItem {
	return BookListItem{
		ID:            b.ID,
		ISBN:          b.ISBN,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Authors:       b.AuthorNames(),
		Categories:    b.CategoryNames(),
		Publisher:     b.Publisher,
		PublishedYear: b.PublishedYear,
		AgeGroup:      string(b.AgeGroup),
		CoverURL:      b.CoverURL,
		Copies:        len(b.Instances),
		Available:     b.AvailableCount(),
		CreatedAt:     b.CreatedAt.Format(timeLayout),
	}
}

// ToBookDetail 领域实体 → 详情DTO
func ToBookDetail(b *book.Book) *BookDetail {
	detail := &BookDetail{
		BookListItem: toListItem(b),
		Language:     b.Language,
		PageCount:    b.PageCount,
		Description:  b.Description,
		Instances:    make([]InstanceInfo, 0, len(b.Instances)),
	}
	for i := range b.Instances {
		detail.Instances = append(detail.Instances, ToInstanceInfo(&b.Instances[i]))
	}
	return detail
}

// ToInstanceInfo 副本实体 → DTO
func ToInstanceInfo(inst *book.BookInstance) InstanceInfo {
	info := InstanceInfo{
		ID:       inst.ID,
		Status:   string(inst.Status),
		ReaderID: inst.ReaderID,
		Note:     inst.Note,
	}
	if inst.CheckedOutDate != nil {
		info.CheckedOutDate = inst.CheckedOutDate.Format(timeLayout)
	}
	if inst.DueDate != nil {
		info.DueDate = inst.DueDate.Format(timeLayout)
	}
	return info
}
