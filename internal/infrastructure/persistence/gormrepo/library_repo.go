package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/library"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// libraryRepository 图书馆及管理员关系仓储
type libraryRepository struct {
	baseRepo
}

func NewLibraryRepository(db *gorm.DB) library.Repository {
	return &libraryRepository{baseRepo{db: db}}
}

func (r *libraryRepository) Create(ctx context.Context, lib *library.Library) error {
	model := toLibraryModel(lib)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return library.ErrAliasDuplicate
		}
		return apperrors.Wrap(err, "创建图书馆失败")
	}

	lib.ID = model.ID
	lib.CreatedAt = model.CreatedAt
	lib.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *libraryRepository) FindByID(ctx context.Context, id uint) (*library.Library, error) {
	var model LibraryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, library.ErrLibraryNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书馆失败")
	}
	return toLibraryEntity(&model), nil
}

// FindByAlias 软删除的图书馆也会占用别名，这里用Unscoped保持与UNIQUE索引一致
func (r *libraryRepository) FindByAlias(ctx context.Context, alias string) (*library.Library, error) {
	var model LibraryModel
	if err := r.getDB(ctx).Unscoped().Where("alias = ?", alias).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, library.ErrLibraryNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书馆失败")
	}
	return toLibraryEntity(&model), nil
}

func (r *libraryRepository) Update(ctx context.Context, lib *library.Library) error {
	result := r.getDB(ctx).Model(&LibraryModel{ID: lib.ID}).Updates(map[string]any{
		"name":                   lib.Name,
		"checkout_duration_days": lib.CheckoutDurationDays,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书馆失败")
	}
	return nil
}

func (r *libraryRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&LibraryModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书馆失败")
	}
	if result.RowsAffected == 0 {
		return library.ErrLibraryNotFound
	}
	return nil
}

func (r *libraryRepository) ListByAdministrator(ctx context.Context, userID uint) ([]*library.Library, error) {
	var models []LibraryModel
	err := r.getDB(ctx).
		Joins("JOIN library_administrators la ON la.library_id = libraries.id").
		Where("la.user_id = ?", userID).
		Order("libraries.name ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书馆列表失败")
	}

	libs := make([]*library.Library, len(models))
	for i := range models {
		libs[i] = toLibraryEntity(&models[i])
	}
	return libs, nil
}

func (r *libraryRepository) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	if err := r.getDB(ctx).Model(&LibraryModel{}).Where("owner_id = ?", ownerID).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书馆失败")
	}
	return ids, nil
}

func (r *libraryRepository) AddAdministrator(ctx context.Context, libraryID, userID uint) error {
	model := &LibraryAdministratorModel{LibraryID: libraryID, UserID: userID}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return library.ErrDuplicateAdministrator
		}
		return apperrors.Wrap(err, "添加管理员失败")
	}
	return nil
}

func (r *libraryRepository) RemoveAdministrator(ctx context.Context, libraryID, userID uint) error {
	result := r.getDB(ctx).
		Where("library_id = ? AND user_id = ?", libraryID, userID).
		Delete(&LibraryAdministratorModel{})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "移除管理员失败")
	}
	if result.RowsAffected == 0 {
		return library.ErrNotAdministrator
	}
	return nil
}

func (r *libraryRepository) IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&LibraryAdministratorModel{}).
		Where("library_id = ? AND user_id = ?", libraryID, userID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询管理员失败")
	}
	return count > 0, nil
}

func (r *libraryRepository) ListAdministrators(ctx context.Context, libraryID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&LibraryAdministratorModel{}).
		Where("library_id = ?", libraryID).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询管理员失败")
	}
	return ids, nil
}

func toLibraryModel(lib *library.Library) *LibraryModel {
	return &LibraryModel{
		ID:                   lib.ID,
		Name:                 lib.Name,
		Alias:                lib.Alias,
		CheckoutDurationDays: lib.CheckoutDurationDays,
		OwnerID:              lib.OwnerID,
	}
}

func toLibraryEntity(model *LibraryModel) *library.Library {
	return &library.Library{
		ID:                   model.ID,
		Name:                 model.Name,
		Alias:                model.Alias,
		CheckoutDurationDays: model.CheckoutDurationDays,
		OwnerID:              model.OwnerID,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	}
}

// kioskRepository 自助机仓储
type kioskRepository struct {
	baseRepo
}

func NewKioskRepository(db *gorm.DB) library.KioskRepository {
	return &kioskRepository{baseRepo{db: db}}
}

func (r *kioskRepository) Create(ctx context.Context, k *library.Kiosk) error {
	model := &KioskModel{
		LibraryID:  k.LibraryID,
		Name:       k.Name,
		SecretHash: k.SecretHash,
		Enabled:    k.Enabled,
	}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建自助机失败")
	}

	k.ID = model.ID
	k.CreatedAt = model.CreatedAt
	k.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *kioskRepository) FindByID(ctx context.Context, id uint) (*library.Kiosk, error) {
	var model KioskModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, library.ErrKioskNotFound
		}
		return nil, apperrors.Wrap(err, "查询自助机失败")
	}
	return toKioskEntity(&model), nil
}

// Update 用map更新，Enabled=false也会写入
func (r *kioskRepository) Update(ctx context.Context, k *library.Kiosk) error {
	result := r.getDB(ctx).Model(&KioskModel{ID: k.ID}).Updates(map[string]any{
		"name":        k.Name,
		"secret_hash": k.SecretHash,
		"enabled":     k.Enabled,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新自助机失败")
	}
	return nil
}

func (r *kioskRepository) ListByLibrary(ctx context.Context, libraryID uint) ([]*library.Kiosk, error) {
	var models []KioskModel
	if err := r.getDB(ctx).Where("library_id = ?", libraryID).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询自助机失败")
	}

	kiosks := make([]*library.Kiosk, len(models))
	for i := range models {
		kiosks[i] = toKioskEntity(&models[i])
	}
	return kiosks, nil
}

func toKioskEntity(model *KioskModel) *library.Kiosk {
	return &library.Kiosk{
		ID:         model.ID,
		LibraryID:  model.LibraryID,
		Name:       model.Name,
		SecretHash: model.SecretHash,
		Enabled:    model.Enabled,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
