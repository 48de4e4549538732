package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

type memoryRepo struct {
	subs map[uint]*Subscription // libraryID -> subscription
}

func (r *memoryRepo) Create(ctx context.Context, s *Subscription) error {
	s.ID = uint(len(r.subs) + 1)
	r.subs[s.LibraryID] = s
	return nil
}

func (r *memoryRepo) Update(ctx context.Context, s *Subscription) error {
	r.subs[s.LibraryID] = s
	return nil
}

func (r *memoryRepo) FindByLibraryID(ctx context.Context, libraryID uint) (*Subscription, error) {
	if s, ok := r.subs[libraryID]; ok {
		return s, nil
	}
	return nil, ErrSubscriptionNotFound
}

func (r *memoryRepo) ListByLibraryIDs(ctx context.Context, ids []uint) ([]*Subscription, error) {
	var result []*Subscription
	for _, id := range ids {
		if s, ok := r.subs[id]; ok {
			result = append(result, s)
		}
	}
	return result, nil
}

type fixedUsage struct {
	books   int64
	readers int64
}

func (u fixedUsage) CountBooks(ctx context.Context, libraryID uint) (int64, error) {
	return u.books, nil
}

func (u fixedUsage) CountReaders(ctx context.Context, libraryID uint) (int64, error) {
	return u.readers, nil
}

type ownership map[uint][]uint

func (o ownership) ListIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	return o[ownerID], nil
}

func newTestService(usage fixedUsage, owned ownership, subs ...*Subscription) (Service, *memoryRepo) {
	repo := &memoryRepo{subs: make(map[uint]*Subscription)}
	for _, s := range subs {
		repo.subs[s.LibraryID] = s
	}
	return NewService(repo, usage, owned), repo
}

func TestService_CanAddBook(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		maxBooks int
		current  int64
		want     bool
	}{
		{"不限额度", Unlimited, 1_000_000, true},
		{"未达上限", 100, 99, true},
		{"达到上限", 100, 100, false},
		{"超出上限", 100, 150, false},
		{"零额度", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &Subscription{LibraryID: 1, Tier: TierBasic, MaxBooks: tt.maxBooks}
			svc, _ := newTestService(fixedUsage{books: tt.current}, nil, sub)

			ok, err := svc.CanAddBook(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestService_MissingSubscriptionUsesFree(t *testing.T) {
	ctx := context.Background()
	free, _ := PlanFor(TierFree)

	svc, _ := newTestService(fixedUsage{books: int64(free.MaxBooks), readers: int64(free.MaxReaders - 1)}, nil)

	ok, err := svc.CanAddBook(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanAddReader(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	sub, err := svc.GetForLibrary(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, TierFree, sub.Tier)
	assert.Zero(t, sub.ID)
}

func TestService_CanAddLibrary(t *testing.T) {
	ctx := context.Background()

	svc, _ := newTestService(fixedUsage{}, ownership{})
	ok, err := svc.CanAddLibrary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok, "第一个图书馆总是允许")

	svc, _ = newTestService(fixedUsage{}, ownership{1: {10}}, NewFree(10))
	ok, err = svc.CanAddLibrary(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "Free只允许1个")

	premium := NewFree(11)
	p, _ := PlanFor(TierPremium)
	premium.ApplyPlan(p)
	svc, _ = newTestService(fixedUsage{}, ownership{1: {10, 11}}, NewFree(10), premium)
	ok, err = svc.CanAddLibrary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok, "取最大的MaxLibraries")

	unlimited := NewFree(12)
	u, _ := PlanFor(TierUnlimited)
	unlimited.ApplyPlan(u)
	svc, _ = newTestService(fixedUsage{}, ownership{1: {10, 12, 13, 14, 15, 16}}, unlimited)
	ok, err = svc.CanAddLibrary(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_ValidateBookImportLimits(t *testing.T) {
	ctx := context.Background()
	sub := &Subscription{LibraryID: 1, Tier: TierBasic, MaxBooks: 1000}
	svc, _ := newTestService(fixedUsage{books: 990}, nil, sub)

	require.NoError(t, svc.ValidateBookImportLimits(ctx, 1, 10))

	err := svc.ValidateBookImportLimits(ctx, 1, 11)
	var limitErr *LimitExceededError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, TierBasic, limitErr.Tier)
	assert.Equal(t, int64(10), limitErr.Available)
	assert.Equal(t, 11, limitErr.Requested)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSubscriptionLimit))

	unlimited := &Subscription{LibraryID: 2, Tier: TierUnlimited, MaxBooks: Unlimited}
	svc, _ = newTestService(fixedUsage{books: 1 << 40}, nil, unlimited)
	assert.NoError(t, svc.ValidateBookImportLimits(ctx, 2, 1_000_000))
}

func TestService_EnsureAndChangeTier(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(fixedUsage{}, nil)

	require.NoError(t, svc.EnsureSubscription(ctx, 5))
	require.NoError(t, svc.EnsureSubscription(ctx, 5))
	assert.Len(t, repo.subs, 1)
	assert.Equal(t, TierFree, repo.subs[5].Tier)

	sub, err := svc.ChangeTier(ctx, 5, TierPremium)
	require.NoError(t, err)
	assert.Equal(t, 10000, sub.MaxBooks)
	assert.Equal(t, 5, sub.MaxLibraries)

	_, err = svc.ChangeTier(ctx, 5, Tier("gold"))
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestService_RecordCheckout(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(fixedUsage{}, nil)

	require.NoError(t, svc.RecordCheckout(ctx, 3, "cus_1", "cs_1"))
	assert.Equal(t, "cus_1", repo.subs[3].PaymentCustomerID)

	require.NoError(t, svc.RecordCheckout(ctx, 3, "cus_1", "cs_2"))
	assert.Equal(t, "cs_2", repo.subs[3].CheckoutSessionID)
}
