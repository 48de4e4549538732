package subscription

import (
	"context"
	"errors"
	"time"
)

// Usage 图书馆当前用量与额度
type Usage struct {
	Subscription *Subscription
	Books        int64
	Readers      int64
}

// Service 订阅额度服务
//
// 检查与写入之间没有预留或加锁，并发导入可能同时通过检查后共同超出额度。
type Service interface {
	// CanAddBook MaxBooks为-1时总是true，否则当前图书数<MaxBooks
	CanAddBook(ctx context.Context, libraryID uint) (bool, error)
	CanAddReader(ctx context.Context, libraryID uint) (bool, error)

	// CanAddLibrary 按用户已创建图书馆的订阅中最大的MaxLibraries判断
	CanAddLibrary(ctx context.Context, userID uint) (bool, error)

	// ValidateBookImportLimits 导入数量超出剩余额度时返回*LimitExceededError
	ValidateBookImportLimits(ctx context.Context, libraryID uint, incoming int) error

	// GetForLibrary 没有订阅记录时返回未保存的Free订阅
	GetForLibrary(ctx context.Context, libraryID uint) (*Subscription, error)
	GetUsage(ctx context.Context, libraryID uint) (*Usage, error)

	// EnsureSubscription 没有订阅记录时创建Free订阅
	EnsureSubscription(ctx context.Context, libraryID uint) error

	ChangeTier(ctx context.Context, libraryID uint, tier Tier) (*Subscription, error)

	// RecordCheckout 记录支付平台的客户与结账会话
	RecordCheckout(ctx context.Context, libraryID uint, customerID, sessionID string) error
}

type service struct {
	repo      Repository
	usage     UsageCounter
	ownership OwnershipReader
}

// NewService 创建订阅服务
func NewService(repo Repository, usage UsageCounter, ownership OwnershipReader) Service {
	return &service{
		repo:      repo,
		usage:     usage,
		ownership: ownership,
	}
}

func (s *service) CanAddBook(ctx context.Context, libraryID uint) (bool, error) {
	sub, err := s.GetForLibrary(ctx, libraryID)
	if err != nil {
		return false, err
	}
	if sub.MaxBooks == Unlimited {
		return true, nil
	}
	count, err := s.usage.CountBooks(ctx, libraryID)
	if err != nil {
		return false, err
	}
	return Allows(sub.MaxBooks, count), nil
}

func (s *service) CanAddReader(ctx context.Context, libraryID uint) (bool, error) {
	sub, err := s.GetForLibrary(ctx, libraryID)
	if err != nil {
		return false, err
	}
	if sub.MaxReaders == Unlimited {
		return true, nil
	}
	count, err := s.usage.CountReaders(ctx, libraryID)
	if err != nil {
		return false, err
	}
	return Allows(sub.MaxReaders, count), nil
}

// CanAddLibrary 判断用户能否再创建图书馆
// 没有图书馆的用户总是可以创建第一个
func (s *service) CanAddLibrary(ctx context.Context, userID uint) (bool, error) {
	owned, err := s.ownership.ListIDsByOwner(ctx, userID)
	if err != nil {
		return false, err
	}
	if len(owned) == 0 {
		return true, nil
	}

	subs, err := s.repo.ListByLibraryIDs(ctx, owned)
	if err != nil {
		return false, err
	}

	// 没有订阅记录的图书馆按Free计算
	maxLibraries := plans[TierFree].MaxLibraries
	for _, sub := range subs {
		if sub.MaxLibraries == Unlimited {
			return true, nil
		}
		if sub.MaxLibraries > maxLibraries {
			maxLibraries = sub.MaxLibraries
		}
	}

	return Allows(maxLibraries, int64(len(owned))), nil
}

// ValidateBookImportLimits 校验批量导入数量
func (s *service) ValidateBookImportLimits(ctx context.Context, libraryID uint, incoming int) error {
	sub, err := s.GetForLibrary(ctx, libraryID)
	if err != nil {
		return err
	}
	if sub.MaxBooks == Unlimited {
		return nil
	}

	count, err := s.usage.CountBooks(ctx, libraryID)
	if err != nil {
		return err
	}

	available := Available(sub.MaxBooks, count)
	if int64(incoming) > available {
		return &LimitExceededError{
			Tier:      sub.Tier,
			Available: available,
			Requested: incoming,
		}
	}
	return nil
}

func (s *service) GetForLibrary(ctx context.Context, libraryID uint) (*Subscription, error) {
	sub, err := s.repo.FindByLibraryID(ctx, libraryID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		return NewFree(libraryID), nil
	}
	return sub, err
}

// GetUsage 查询用量
func (s *service) GetUsage(ctx context.Context, libraryID uint) (*Usage, error) {
	sub, err := s.GetForLibrary(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	books, err := s.usage.CountBooks(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	readers, err := s.usage.CountReaders(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	return &Usage{Subscription: sub, Books: books, Readers: readers}, nil
}

func (s *service) EnsureSubscription(ctx context.Context, libraryID uint) error {
	_, err := s.repo.FindByLibraryID(ctx, libraryID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrSubscriptionNotFound) {
		return err
	}
	return s.repo.Create(ctx, NewFree(libraryID))
}

// ChangeTier 切换等级并应用对应额度
func (s *service) ChangeTier(ctx context.Context, libraryID uint, tier Tier) (*Subscription, error) {
	plan, ok := PlanFor(tier)
	if !ok {
		return nil, ErrInvalidTier
	}

	sub, err := s.repo.FindByLibraryID(ctx, libraryID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		sub = NewFree(libraryID)
		sub.ApplyPlan(plan)
		if err := s.repo.Create(ctx, sub); err != nil {
			return nil, err
		}
		return sub, nil
	}
	if err != nil {
		return nil, err
	}

	sub.ApplyPlan(plan)
	sub.Status = StatusActive
	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// RecordCheckout 保存支付客户与会话
func (s *service) RecordCheckout(ctx context.Context, libraryID uint, customerID, sessionID string) error {
	sub, err := s.repo.FindByLibraryID(ctx, libraryID)
	if errors.Is(err, ErrSubscriptionNotFound) {
		sub = NewFree(libraryID)
		sub.PaymentCustomerID = customerID
		sub.CheckoutSessionID = sessionID
		return s.repo.Create(ctx, sub)
	}
	if err != nil {
		return err
	}

	sub.PaymentCustomerID = customerID
	sub.CheckoutSessionID = sessionID
	sub.UpdatedAt = time.Now()
	return s.repo.Update(ctx, sub)
}
