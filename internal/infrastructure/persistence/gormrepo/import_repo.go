package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// importRepository 导入任务仓储
type importRepository struct {
	baseRepo
}

func NewImportRepository(db *gorm.DB) importjob.Repository {
	return &importRepository{baseRepo{db: db}}
}

func (r *importRepository) Create(ctx context.Context, h *importjob.ImportHistory) error {
	model, err := toImportModel(h)
	if err != nil {
		return err
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建导入任务失败")
	}

	h.ID = model.ID
	h.CreatedAt = model.CreatedAt
	h.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *importRepository) FindByID(ctx context.Context, id uint) (*importjob.ImportHistory, error) {
	var model ImportHistoryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, importjob.ErrImportNotFound
		}
		return nil, apperrors.Wrap(err, "查询导入任务失败")
	}
	return toImportEntity(&model)
}

// Update 乐观锁更新
// UPDATE import_histories SET ..., version = version + 1 WHERE id = ? AND version = ?
func (r *importRepository) Update(ctx context.Context, h *importjob.ImportHistory) error {
	model, err := toImportModel(h)
	if err != nil {
		return err
	}

	now := time.Now()
	result := r.getDB(ctx).Model(&ImportHistoryModel{}).
		Where("id = ? AND version = ?", h.ID, h.Version).
		Updates(map[string]any{
			"status":           model.Status,
			"total_isbns":      model.TotalIsbns,
			"current_position": model.CurrentPosition,
			"success_count":    model.SuccessCount,
			"failed_count":     model.FailedCount,
			"failed_isbns":     model.FailedIsbns,
			"processed_chunks": model.ProcessedChunks,
			"total_chunks":     model.TotalChunks,
			"error_message":    model.ErrorMessage,
			"started_at":       model.StartedAt,
			"completed_at":     model.CompletedAt,
			"version":          h.Version + 1,
			"updated_at":       now,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新导入任务失败")
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.getDB(ctx).Model(&ImportHistoryModel{}).Where("id = ?", h.ID).Count(&count).Error; err != nil {
			return apperrors.Wrap(err, "查询导入任务失败")
		}
		if count == 0 {
			return importjob.ErrImportNotFound
		}
		return importjob.ErrVersionConflict
	}

	h.Version++
	h.UpdatedAt = now
	return nil
}

func (r *importRepository) ListByLibrary(ctx context.Context, libraryID uint, page, pageSize int) ([]*importjob.ImportHistory, int64, error) {
	var models []ImportHistoryModel
	var total int64

	query := r.getDB(ctx).Model(&ImportHistoryModel{}).Where("library_id = ?", libraryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询导入任务总数失败")
	}

	limit, offset := pagination(page, pageSize)
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询导入任务失败")
	}

	histories, err := toImportEntities(models)
	if err != nil {
		return nil, 0, err
	}
	return histories, total, nil
}

func (r *importRepository) ListUnfinished(ctx context.Context, limit int) ([]*importjob.ImportHistory, error) {
	var models []ImportHistoryModel
	err := r.getDB(ctx).
		Where("status IN ?", []string{string(importjob.StatusPending), string(importjob.StatusProcessing)}).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询未完成的导入任务失败")
	}
	return toImportEntities(models)
}

func toImportModel(h *importjob.ImportHistory) (*ImportHistoryModel, error) {
	failed := h.FailedIsbns
	if failed == nil {
		failed = []string{}
	}
	raw, err := json.Marshal(failed)
	if err != nil {
		return nil, apperrors.Wrap(err, "序列化失败ISBN列表失败")
	}

	return &ImportHistoryModel{
		ID:              h.ID,
		LibraryID:       h.LibraryID,
		UserID:          h.UserID,
		FileName:        h.FileName,
		BlobKey:         h.BlobKey,
		Status:          string(h.Status),
		TotalIsbns:      h.TotalIsbns,
		CurrentPosition: h.CurrentPosition,
		SuccessCount:    h.SuccessCount,
		FailedCount:     h.FailedCount,
		FailedIsbns:     datatypes.JSON(raw),
		ProcessedChunks: h.ProcessedChunks,
		TotalChunks:     h.TotalChunks,
		ChunkSize:       h.ChunkSize,
		ErrorMessage:    h.ErrorMessage,
		StartedAt:       h.StartedAt,
		CompletedAt:     h.CompletedAt,
		Version:         h.Version,
	}, nil
}

func toImportEntity(model *ImportHistoryModel) (*importjob.ImportHistory, error) {
	var failed []string
	if len(model.FailedIsbns) > 0 {
		if err := json.Unmarshal(model.FailedIsbns, &failed); err != nil {
			return nil, apperrors.Wrap(err, "解析失败ISBN列表失败")
		}
	}

	return &importjob.ImportHistory{
		ID:              model.ID,
		LibraryID:       model.LibraryID,
		UserID:          model.UserID,
		FileName:        model.FileName,
		BlobKey:         model.BlobKey,
		Status:          importjob.Status(model.Status),
		TotalIsbns:      model.TotalIsbns,
		CurrentPosition: model.CurrentPosition,
		SuccessCount:    model.SuccessCount,
		FailedCount:     model.FailedCount,
		FailedIsbns:     failed,
		ProcessedChunks: model.ProcessedChunks,
		TotalChunks:     model.TotalChunks,
		ChunkSize:       model.ChunkSize,
		ErrorMessage:    model.ErrorMessage,
		StartedAt:       model.StartedAt,
		CompletedAt:     model.CompletedAt,
		Version:         model.Version,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}, nil
}

func toImportEntities(models []ImportHistoryModel) ([]*importjob.ImportHistory, error) {
	histories := make([]*importjob.ImportHistory, len(models))
	for i := range models {
		h, err := toImportEntity(&models[i])
		if err != nil {
			return nil, err
		}
		histories[i] = h
	}
	return histories, nil
}
