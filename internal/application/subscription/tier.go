package subscription

import (
	"context"
	"log/slog"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/subscription"
)

// SubscriptionInfo 订阅DTO，-1表示不限
type SubscriptionInfo struct {
	LibraryID        uint   `json:"library_id"`
	Tier             string `json:"tier"`
	Status           string `json:"status"`
	MaxBooks         int    `json:"max_books"`
	MaxReaders       int    `json:"max_readers"`
	MaxLibraries     int    `json:"max_libraries"`
	CurrentPeriodEnd string `json:"current_period_end,omitempty"`
}

func ToSubscriptionInfo(s *subscription.Subscription) *SubscriptionInfo {
	info := &SubscriptionInfo{
		LibraryID:    s.LibraryID,
		Tier:         string(s.Tier),
		Status:       string(s.Status),
		MaxBooks:     s.MaxBooks,
		MaxReaders:   s.MaxReaders,
		MaxLibraries: s.MaxLibraries,
	}
	if s.CurrentPeriodEnd != nil {
		info.CurrentPeriodEnd = s.CurrentPeriodEnd.Format("2006-01-02 15:04:05")
	}
	return info
}

// UsageInfo 当前用量
type UsageInfo struct {
	Subscription     *SubscriptionInfo `json:"subscription"`
	Books            int64             `json:"books"`
	Readers          int64             `json:"readers"`
	BooksAvailable   int64             `json:"books_available"`
	ReadersAvailable int64             `json:"readers_available"`
}

// GetUsageUseCase 查询订阅与用量
type GetUsageUseCase struct {
	subscriptions subscription.Service
}

func NewGetUsageUseCase(subscriptions subscription.Service) *GetUsageUseCase {
	return &GetUsageUseCase{subscriptions: subscriptions}
}

func (uc *GetUsageUseCase) Execute(ctx context.Context, libraryID uint) (*UsageInfo, error) {
	usage, err := uc.subscriptions.GetUsage(ctx, libraryID)
	if err != nil {
		return nil, err
	}
	sub := usage.Subscription
	return &UsageInfo{
		Subscription:     ToSubscriptionInfo(sub),
		Books:            usage.Books,
		Readers:          usage.Readers,
		BooksAvailable:   subscription.Available(sub.MaxBooks, usage.Books),
		ReadersAvailable: subscription.Available(sub.MaxReaders, usage.Readers),
	}, nil
}

// ChangeTierUseCase 切换订阅等级并写审计日志
type ChangeTierUseCase struct {
	subscriptions subscription.Service
	auditRepo     audit.Repository
}

func NewChangeTierUseCase(subscriptions subscription.Service, auditRepo audit.Repository) *ChangeTierUseCase {
	return &ChangeTierUseCase{subscriptions: subscriptions, auditRepo: auditRepo}
}

func (uc *ChangeTierUseCase) Execute(ctx context.Context, libraryID, operatorID uint, tier subscription.Tier) (*SubscriptionInfo, error) {
	before, err := uc.subscriptions.GetForLibrary(ctx, libraryID)
	if err != nil {
		return nil, err
	}

	sub, err := uc.subscriptions.ChangeTier(ctx, libraryID, tier)
	if err != nil {
		return nil, err
	}

	entry := audit.NewLog(libraryID, operatorID, audit.LogSubscriptionChanged, "subscription", sub.ID, map[string]any{
		"from": string(before.Tier),
		"to":   string(sub.Tier),
	})
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "append audit log failed", "action", entry.Action, "err", err)
	}

	slog.InfoContext(ctx, "subscription tier changed", "library_id", libraryID, "from", before.Tier, "to", sub.Tier)
	return ToSubscriptionInfo(sub), nil
}
