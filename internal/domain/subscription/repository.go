package subscription

import (
	"context"
)

// Repository 订阅仓储接口
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error

	// FindByLibraryID 不存在时返回ErrSubscriptionNotFound
	FindByLibraryID(ctx context.Context, libraryID uint) (*Subscription, error)

	ListByLibraryIDs(ctx context.Context, libraryIDs []uint) ([]*Subscription, error)
}

// UsageCounter 统计图书馆当前用量
type UsageCounter interface {
	CountBooks(ctx context.Context, libraryID uint) (int64, error)
	CountReaders(ctx context.Context, libraryID uint) (int64, error)
}

// OwnershipReader 查询用户创建的图书馆
type OwnershipReader interface {
	ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
}
