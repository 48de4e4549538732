package library

import (
	"context"
)

// Repository 图书馆仓储接口
type Repository interface {
	// Create 创建图书馆，别名冲突时返回ErrAliasDuplicate
	Create(ctx context.Context, library *Library) error

	// FindByID 不存在时返回ErrLibraryNotFound
	FindByID(ctx context.Context, id uint) (*Library, error)

	// FindByAlias 不存在时返回ErrLibraryNotFound
	FindByAlias(ctx context.Context, alias string) (*Library, error)

	Update(ctx context.Context, library *Library) error

	// Delete 软删除
	Delete(ctx context.Context, id uint) error

	// ListByAdministrator 查询用户担任管理员的图书馆
	ListByAdministrator(ctx context.Context, userID uint) ([]*Library, error)

	// ListIDsByOwner 查询用户创建的图书馆ID
	ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)

	// AddAdministrator 已是管理员时返回ErrDuplicateAdministrator
	AddAdministrator(ctx context.Context, libraryID, userID uint) error

	RemoveAdministrator(ctx context.Context, libraryID, userID uint) error

	IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error)

	ListAdministrators(ctx context.Context, libraryID uint) ([]uint, error)
}

// KioskRepository 自助机仓储接口
type KioskRepository interface {
	Create(ctx context.Context, kiosk *Kiosk) error

	// FindByID 不存在时返回ErrKioskNotFound
	FindByID(ctx context.Context, id uint) (*Kiosk, error)

	Update(ctx context.Context, kiosk *Kiosk) error

	ListByLibrary(ctx context.Context, libraryID uint) ([]*Kiosk, error)
}
