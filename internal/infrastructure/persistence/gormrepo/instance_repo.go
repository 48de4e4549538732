package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// instanceRepository 馆藏副本仓储
type instanceRepository struct {
	baseRepo
}

func NewInstanceRepository(db *gorm.DB) book.InstanceRepository {
	return &instanceRepository{baseRepo{db: db}}
}

func (r *instanceRepository) Create(ctx context.Context, inst *book.BookInstance) error {
	model := toInstanceModel(inst)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建副本失败")
	}

	inst.ID = model.ID
	inst.CreatedAt = model.CreatedAt
	inst.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *instanceRepository) FindByID(ctx context.Context, id uint) (*book.BookInstance, error) {
	var model BookInstanceModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrInstanceNotFound
		}
		return nil, apperrors.Wrap(err, "查询副本失败")
	}
	return toInstanceEntity(&model), nil
}

// Update 写入状态和借阅字段，nil指针写为NULL
func (r *instanceRepository) Update(ctx context.Context, inst *book.BookInstance) error {
	err := r.getDB(ctx).Model(&BookInstanceModel{ID: inst.ID}).Updates(map[string]any{
		"status":           string(inst.Status),
		"reader_id":        inst.ReaderID,
		"checked_out_date": inst.CheckedOutDate,
		"due_date":         inst.DueDate,
		"note":             inst.Note,
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新副本失败")
	}
	return nil
}

func (r *instanceRepository) ListByBook(ctx context.Context, bookID uint) ([]*book.BookInstance, error) {
	var models []BookInstanceModel
	if err := r.getDB(ctx).Where("book_id = ?", bookID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询副本失败")
	}
	return toInstanceEntities(models), nil
}

func (r *instanceRepository) ListBorrowedByReader(ctx context.Context, libraryID, readerID uint) ([]*book.BookInstance, error) {
	var models []BookInstanceModel
	err := r.getDB(ctx).
		Where("library_id = ? AND reader_id = ? AND status = ?", libraryID, readerID, string(book.StatusBorrowed)).
		Order("due_date ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询在借副本失败")
	}
	return toInstanceEntities(models), nil
}

func toInstanceModel(inst *book.BookInstance) *BookInstanceModel {
	return &BookInstanceModel{
		ID:             inst.ID,
		BookID:         inst.BookID,
		LibraryID:      inst.LibraryID,
		Status:         string(inst.Status),
		ReaderID:       inst.ReaderID,
		CheckedOutDate: inst.CheckedOutDate,
		DueDate:        inst.DueDate,
		Note:           inst.Note,
	}
}

func toInstanceEntity(model *BookInstanceModel) *book.BookInstance {
	return &book.BookInstance{
		ID:             model.ID,
		BookID:         model.BookID,
		LibraryID:      model.LibraryID,
		Status:         book.InstanceStatus(model.Status),
		ReaderID:       model.ReaderID,
		CheckedOutDate: model.CheckedOutDate,
		DueDate:        model.DueDate,
		Note:           model.Note,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toInstanceEntities(models []BookInstanceModel) []*book.BookInstance {
	instances := make([]*book.BookInstance, len(models))
	for i := range models {
		instances[i] = toInstanceEntity(&models[i])
	}
	return instances
}
