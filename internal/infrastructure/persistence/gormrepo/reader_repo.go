package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/reader"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// readerRepository 读者及图书馆登记关系仓储
type readerRepository struct {
	baseRepo
}

func NewReaderRepository(db *gorm.DB) reader.Repository {
	return &readerRepository{baseRepo{db: db}}
}

func (r *readerRepository) Create(ctx context.Context, rd *reader.Reader) error {
	model := &ReaderModel{
		FirstName: rd.FirstName,
		LastName:  rd.LastName,
		Email:     rd.Email,
		EAN:       rd.EAN,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return reader.ErrReaderDuplicate
		}
		return apperrors.Wrap(err, "创建读者失败")
	}

	rd.ID = model.ID
	rd.CreatedAt = model.CreatedAt
	rd.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *readerRepository) Update(ctx context.Context, rd *reader.Reader) error {
	err := r.getDB(ctx).Model(&ReaderModel{ID: rd.ID}).Updates(map[string]any{
		"first_name": rd.FirstName,
		"last_name":  rd.LastName,
		"email":      rd.Email,
		"ean":        rd.EAN,
	}).Error
	if err != nil {
		if isDuplicateError(err) {
			return reader.ErrReaderDuplicate
		}
		return apperrors.Wrap(err, "更新读者失败")
	}
	return nil
}

func (r *readerRepository) FindByID(ctx context.Context, id uint) (*reader.Reader, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *readerRepository) FindByEAN(ctx context.Context, ean string) (*reader.Reader, error) {
	return r.findOne(ctx, "ean = ?", ean)
}

func (r *readerRepository) FindByEmail(ctx context.Context, email string) (*reader.Reader, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *readerRepository) findOne(ctx context.Context, query string, arg any) (*reader.Reader, error) {
	var model ReaderModel
	if err := r.getDB(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reader.ErrReaderNotFound
		}
		return nil, apperrors.Wrap(err, "查询读者失败")
	}
	return toReaderEntity(&model), nil
}

// List 只返回在该图书馆登记的读者，按姓名排序
func (r *readerRepository) List(ctx context.Context, params reader.ListParams) ([]*reader.Reader, int64, error) {
	var models []ReaderModel
	var total int64

	query := r.getDB(ctx).Model(&ReaderModel{}).
		Joins("JOIN library_readers lr ON lr.reader_id = readers.id").
		Where("lr.library_id = ?", params.LibraryID)

	if params.Keyword != "" {
		keyword := likePattern(params.Keyword)
		query = query.Where(
			"readers.first_name LIKE ? OR readers.last_name LIKE ? OR readers.email LIKE ? OR readers.ean LIKE ?",
			keyword, keyword, keyword, keyword,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者总数失败")
	}

	limit, offset := pagination(params.Page, params.PageSize)
	err := query.Order("readers.last_name ASC, readers.first_name ASC, readers.id ASC").
		Limit(limit).Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询读者列表失败")
	}

	readers := make([]*reader.Reader, len(models))
	for i := range models {
		readers[i] = toReaderEntity(&models[i])
	}
	return readers, total, nil
}

func (r *readerRepository) AttachToLibrary(ctx context.Context, readerID, libraryID uint) error {
	model := &LibraryReaderModel{LibraryID: libraryID, ReaderID: readerID}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return reader.ErrReaderDuplicate
		}
		return apperrors.Wrap(err, "登记读者失败")
	}
	return nil
}

func (r *readerRepository) DetachFromLibrary(ctx context.Context, readerID, libraryID uint) error {
	result := r.getDB(ctx).
		Where("library_id = ? AND reader_id = ?", libraryID, readerID).
		Delete(&LibraryReaderModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "注销读者失败")
	}
	if result.RowsAffected == 0 {
		return reader.ErrReaderNotFound
	}
	return nil
}

func (r *readerRepository) IsMember(ctx context.Context, libraryID, readerID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&LibraryReaderModel{}).
		Where("library_id = ? AND reader_id = ?", libraryID, readerID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询读者登记失败")
	}
	return count > 0, nil
}

func (r *readerRepository) CountByLibrary(ctx context.Context, libraryID uint) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&LibraryReaderModel{}).Where("library_id = ?", libraryID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计读者数量失败")
	}
	return count, nil
}

func toReaderEntity(model *ReaderModel) *reader.Reader {
	return &reader.Reader{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Email:     model.Email,
		EAN:       model.EAN,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
