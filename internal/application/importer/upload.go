package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// UploadUseCase 上传ISBN文件并创建导入任务
//
// 1. 解析CSV，统计有效ISBN
// 2. 校验订阅额度
// 3. 原始文件写入对象存储
// 4. 创建Pending任务并入队
// 5. 写审计日志
type UploadUseCase struct {
	imports     importjob.Repository
	store       BlobStore
	queue       JobEnqueuer
	limits      LimitValidator
	auditRepo   audit.Repository
	chunkSize   int
	maxFileSize int64
}

// NewUploadUseCase maxFileSize<=0表示不限制
func NewUploadUseCase(
	imports importjob.Repository,
	store BlobStore,
	queue JobEnqueuer,
	limits LimitValidator,
	auditRepo audit.Repository,
	chunkSize int,
	maxFileSize int64,
) *UploadUseCase {
	return &UploadUseCase{
		imports:     imports,
		store:       store,
		queue:       queue,
		limits:      limits,
		auditRepo:   auditRepo,
		chunkSize:   chunkSize,
		maxFileSize: maxFileSize,
	}
}

// UploadRequest 上传请求
type UploadRequest struct {
	LibraryID uint
	UserID    uint
	FileName  string
	Content   io.Reader
}

// UploadResponse 上传结果，InvalidRows为被忽略的行数
type UploadResponse struct {
	Import      *ImportInfo `json:"import"`
	InvalidRows int         `json:"invalid_rows"`
	JobID       string      `json:"job_id,omitempty"`
}

func (uc *UploadUseCase) Execute(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	// 1. 读取并解析
	data, err := uc.readAll(req.Content)
	if err != nil {
		return nil, err
	}
	parsed, err := ParseISBNs(data)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeInvalidFile, err, importjob.ErrInvalidFile.Message)
	}
	if len(parsed.ISBNs) == 0 {
		return nil, importjob.ErrEmptyImport
	}

	// 2. 额度校验（导入过程中不再逐条检查）
	if err := uc.limits.ValidateBookImportLimits(ctx, req.LibraryID, len(parsed.ISBNs)); err != nil {
		return nil, err
	}

	// 3. 保存原始文件
	fileName := sanitizeFileName(req.FileName)
	key := fmt.Sprintf("imports/%d/%s.csv", req.LibraryID, uuid.NewString())
	if err := uc.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), "text/csv"); err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeStorageError, err, "保存导入文件失败")
	}

	// 4. 创建任务并入队
	h := importjob.NewImportHistory(req.LibraryID, req.UserID, fileName, key, len(parsed.ISBNs), uc.chunkSize)
	if err := uc.imports.Create(ctx, h); err != nil {
		return nil, err
	}

	resp := &UploadResponse{InvalidRows: parsed.Invalid}
	if job, err := uc.queue.Enqueue(ctx, h.ID); err != nil {
		// 入队失败时由后台轮询兜底
		slog.WarnContext(ctx, "enqueue import failed", "import_id", h.ID, "err", err)
	} else {
		resp.JobID = job.ID
	}

	// 5. 审计日志
	entry := audit.NewLog(req.LibraryID, req.UserID, audit.LogImportCreated, "import", h.ID, map[string]any{
		"file_name":    fileName,
		"total_isbns":  h.TotalIsbns,
		"invalid_rows": parsed.Invalid,
	})
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "append audit log failed", "action", entry.Action, "err", err)
	}

	slog.InfoContext(ctx, "import created",
		"import_id", h.ID,
		"library_id", req.LibraryID,
		"total_isbns", h.TotalIsbns,
		"invalid_rows", parsed.Invalid,
	)
	resp.Import = ToImportInfo(h)
	return resp, nil
}

func (uc *UploadUseCase) readAll(r io.Reader) ([]byte, error) {
	if uc.maxFileSize > 0 {
		r = io.LimitReader(r, uc.maxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.ErrCodeInvalidFile, err, "读取上传文件失败")
	}
	if uc.maxFileSize > 0 && int64(len(data)) > uc.maxFileSize {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFile, fmt.Sprintf("文件不能超过%d字节", uc.maxFileSize))
	}
	return data, nil
}

// sanitizeFileName 只保留文件名部分
func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload.csv"
	}
	return name
}
