package importer

import (
	"context"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/importjob"
)

// ImportInfo 导入任务DTO
type ImportInfo struct {
	ID              uint     `json:"id"`
	LibraryID       uint     `json:"library_id"`
	FileName        string   `json:"file_name"`
	Status          string   `json:"status"`
	TotalIsbns      int      `json:"total_isbns"`
	CurrentPosition int      `json:"current_position"`
	SuccessCount    int      `json:"success_count"`
	FailedCount     int      `json:"failed_count"`
	FailedIsbns     []string `json:"failed_isbns"`
	ProcessedChunks int      `json:"processed_chunks"`
	TotalChunks     int      `json:"total_chunks"`
	Progress        float64  `json:"progress"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	StartedAt       string   `json:"started_at,omitempty"`
	CompletedAt     string   `json:"completed_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// ToImportInfo 领域实体 → DTO
func ToImportInfo(h *importjob.ImportHistory) *ImportInfo {
	return &ImportInfo{
		ID:              h.ID,
		LibraryID:       h.LibraryID,
		FileName:        h.FileName,
		Status:          string(h.Status),
		TotalIsbns:      h.TotalIsbns,
		CurrentPosition: h.CurrentPosition,
		SuccessCount:    h.SuccessCount,
		FailedCount:     h.FailedCount,
		FailedIsbns:     h.FailedIsbns,
		ProcessedChunks: h.ProcessedChunks,
		TotalChunks:     h.TotalChunks,
		Progress:        h.Progress(),
		ErrorMessage:    h.ErrorMessage,
		StartedAt:       formatTime(h.StartedAt),
		CompletedAt:     formatTime(h.CompletedAt),
		CreatedAt:       h.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// QueryUseCase 导入任务查询
type QueryUseCase struct {
	imports importjob.Repository
}

func NewQueryUseCase(imports importjob.Repository) *QueryUseCase {
	return &QueryUseCase{imports: imports}
}

// Get 其他图书馆的任务视为不存在
func (uc *QueryUseCase) Get(ctx context.Context, libraryID, importID uint) (*ImportInfo, error) {
	h, err := uc.imports.FindByID(ctx, importID)
	if err != nil {
		return nil, err
	}
	if h.LibraryID != libraryID {
		return nil, importjob.ErrImportNotFound
	}
	return ToImportInfo(h), nil
}

func (uc *QueryUseCase) List(ctx context.Context, libraryID uint, page, pageSize int) ([]*ImportInfo, int64, error) {
	list, total, err := uc.imports.ListByLibrary(ctx, libraryID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	infos := make([]*ImportInfo, 0, len(list))
	for _, h := range list {
		infos = append(infos, ToImportInfo(h))
	}
	return infos, total, nil
}
