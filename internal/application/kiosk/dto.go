package kiosk

import (
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
)

// ReaderInfo 读者信息DTO
type ReaderInfo struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	EAN       string `json:"ean"`
}

func ToReaderInfo(r *reader.Reader) *ReaderInfo {
	return &ReaderInfo{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		EAN:       r.EAN,
	}
}

// LoanInfo 借还明细，归还时DueDate为空
type LoanInfo struct {
	InstanceID uint   `json:"instance_id"`
	BookID     uint   `json:"book_id"`
	Title      string `json:"title"`
	DueDate    string `json:"due_date,omitempty"`
}

// CirculationInfo 批量借还结果
type CirculationInfo struct {
	Processed []LoanInfo `json:"processed"`
	Skipped   []uint     `json:"skipped"`
}

// ToCirculationInfo 管理端借还接口共用
func ToCirculationInfo(result *book.CirculationResult) *CirculationInfo {
	skipped := result.Skipped
	if skipped == nil {
		skipped = []uint{}
	}
	return &CirculationInfo{
		Processed: toLoanInfos(result.Processed),
		Skipped:   skipped,
	}
}

func toLoanInfos(loans []book.Loan) []LoanInfo {
	infos := make([]LoanInfo, 0, len(loans))
	for _, l := range loans {
		info := LoanInfo{
			InstanceID: l.InstanceID,
			BookID:     l.BookID,
			Title:      l.Title,
		}
		if !l.DueDate.IsZero() {
			info.DueDate = l.DueDate.Format("2006-01-02")
		}
		infos = append(infos, info)
	}
	return infos
}
