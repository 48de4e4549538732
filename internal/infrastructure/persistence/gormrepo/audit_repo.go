package gormrepo

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// auditRepository 审计日志仓储，只追加
type auditRepository struct {
	baseRepo
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{baseRepo{db: db}}
}

func (r *auditRepository) Append(ctx context.Context, l *audit.Log) error {
	var details datatypes.JSON
	if len(l.Details) > 0 {
		raw, err := json.Marshal(l.Details)
		if err != nil {
			return apperrors.Wrap(err, "序列化审计详情失败")
		}
		details = raw
	}

	model := &AuditLogModel{
		LibraryID:  l.LibraryID,
		UserID:     l.UserID,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Details:    details,
		CreatedAt:  l.CreatedAt,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入审计日志失败")
	}

	l.ID = model.ID
	l.CreatedAt = model.CreatedAt
	return nil
}

func (r *auditRepository) List(ctx context.Context, libraryID uint, page, pageSize int) ([]*audit.Log, int64, error) {
	var models []AuditLogModel
	var total int64

	query := r.getDB(ctx).Model(&AuditLogModel{}).Where("library_id = ?", libraryID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志总数失败")
	}

	limit, offset := pagination(page, pageSize)
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询审计日志失败")
	}

	logs := make([]*audit.Log, len(models))
	for i, m := range models {
		var details map[string]any
		if len(m.Details) > 0 {
			if err := json.Unmarshal(m.Details, &details); err != nil {
				return nil, 0, apperrors.Wrap(err, "解析审计详情失败")
			}
		}
		logs[i] = &audit.Log{
			ID:         m.ID,
			LibraryID:  m.LibraryID,
			UserID:     m.UserID,
			Action:     m.Action,
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Details:    details,
			CreatedAt:  m.CreatedAt,
		}
	}
	return logs, total, nil
}

// readerActionRepository 借还流水仓储
type readerActionRepository struct {
	baseRepo
}

func NewReaderActionRepository(db *gorm.DB) audit.ReaderActionRepository {
	return &readerActionRepository{baseRepo{db: db}}
}

func (r *readerActionRepository) Append(ctx context.Context, a *audit.ReaderAction) error {
	model := &ReaderActionModel{
		LibraryID:      a.LibraryID,
		ReaderID:       a.ReaderID,
		BookInstanceID: a.BookInstanceID,
		BookID:         a.BookID,
		BookTitle:      a.BookTitle,
		Action:         string(a.Action),
		OccurredAt:     a.OccurredAt,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "写入借还记录失败")
	}

	a.ID = model.ID
	return nil
}

func (r *readerActionRepository) List(ctx context.Context, q audit.ReaderActionQuery) ([]*audit.ReaderAction, int64, error) {
	var models []ReaderActionModel
	var total int64

	query := r.getDB(ctx).Model(&ReaderActionModel{}).Where("library_id = ?", q.LibraryID)
	if q.ReaderID != 0 {
		query = query.Where("reader_id = ?", q.ReaderID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借还记录总数失败")
	}

	limit, offset := pagination(q.Page, q.PageSize)
	if err := query.Order("occurred_at DESC, id DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借还记录失败")
	}

	actions := make([]*audit.ReaderAction, len(models))
	for i, m := range models {
		actions[i] = &audit.ReaderAction{
			ID:             m.ID,
			LibraryID:      m.LibraryID,
			ReaderID:       m.ReaderID,
			BookInstanceID: m.BookInstanceID,
			BookID:         m.BookID,
			BookTitle:      m.BookTitle,
			Action:         audit.ActionType(m.Action),
			OccurredAt:     m.OccurredAt,
		}
	}
	return actions, total, nil
}
