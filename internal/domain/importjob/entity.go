package importjob

import (
	"time"
)

const (
	// DefaultChunkSize 每次批量查询的ISBN数量
	DefaultChunkSize = 10
	// MaxFailedIsbns 失败ISBN列表最多保留的条数
	MaxFailedIsbns = 100
)

// Status 导入任务状态
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ImportHistory 一次批量ISBN导入
//
// 每处理完一个分块就持久化进度，进程中断后从CurrentPosition继续。
// Version用于乐观锁，由仓储在每次Update时递增。
type ImportHistory struct {
	ID              uint
	LibraryID       uint
	UserID          uint
	FileName        string
	BlobKey         string
	Status          Status
	TotalIsbns      int
	CurrentPosition int
	SuccessCount    int
	FailedCount     int
	FailedIsbns     []string
	ProcessedChunks int
	TotalChunks     int
	ChunkSize       int
	ErrorMessage    string
	StartedAt       *time.Time
	CompletedAt     *time.Time
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewImportHistory 创建待处理的导入任务
func NewImportHistory(libraryID, userID uint, fileName, blobKey string, totalIsbns, chunkSize int) *ImportHistory {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	now := time.Now()
	return &ImportHistory{
		LibraryID:   libraryID,
		UserID:      userID,
		FileName:    fileName,
		BlobKey:     blobKey,
		Status:      StatusPending,
		TotalIsbns:  totalIsbns,
		ChunkSize:   chunkSize,
		TotalChunks: TotalChunksFor(totalIsbns, chunkSize),
		FailedIsbns: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TotalChunksFor 向上取整
func TotalChunksFor(total, chunkSize int) int {
	if total <= 0 || chunkSize <= 0 {
		return 0
	}
	return (total + chunkSize - 1) / chunkSize
}

// IsTerminal 已完成或已失败
func (h *ImportHistory) IsTerminal() bool {
	return h.Status == StatusCompleted || h.Status == StatusFailed
}

// Start 进入处理中，StartedAt只在第一次设置
func (h *ImportHistory) Start(now time.Time) {
	h.Status = StatusProcessing
	if h.StartedAt == nil {
		h.StartedAt = &now
	}
	h.UpdatedAt = now
}

// RecordChunk 记录一个分块的处理结果
// nextPosition是下一个待处理ISBN的下标
func (h *ImportHistory) RecordChunk(nextPosition, succeeded int, failed []string) {
	h.CurrentPosition = nextPosition
	h.SuccessCount += succeeded
	h.FailedCount += len(failed)
	for _, isbn := range failed {
		if len(h.FailedIsbns) >= MaxFailedIsbns {
			break
		}
		h.FailedIsbns = append(h.FailedIsbns, isbn)
	}
	h.ProcessedChunks++
	h.UpdatedAt = time.Now()
}

// Complete 导入完成
func (h *ImportHistory) Complete(now time.Time) {
	h.Status = StatusCompleted
	h.CompletedAt = &now
	h.UpdatedAt = now
}

// Fail 不可恢复的失败（文件丢失、解析失败）
func (h *ImportHistory) Fail(message string, now time.Time) {
	h.Status = StatusFailed
	h.ErrorMessage = message
	h.CompletedAt = &now
	h.UpdatedAt = now
}

// Progress 处理进度百分比
func (h *ImportHistory) Progress() float64 {
	if h.TotalIsbns == 0 {
		if h.Status == StatusCompleted {
			return 100
		}
		return 0
	}
	return float64(h.CurrentPosition) * 100 / float64(h.TotalIsbns)
}
