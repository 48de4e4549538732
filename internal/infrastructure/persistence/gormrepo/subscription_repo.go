package gormrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/domain/subscription"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// subscriptionRepository 订阅仓储
type subscriptionRepository struct {
	baseRepo
}

func NewSubscriptionRepository(db *gorm.DB) subscription.Repository {
	return &subscriptionRepository{baseRepo{db: db}}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *subscription.Subscription) error {
	model := toSubscriptionModel(sub)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建订阅失败")
	}

	sub.ID = model.ID
	sub.CreatedAt = model.CreatedAt
	sub.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *subscription.Subscription) error {
	err := r.getDB(ctx).Model(&SubscriptionModel{ID: sub.ID}).Updates(map[string]any{
		"tier":                string(sub.Tier),
		"status":              string(sub.Status),
		"max_books":           sub.MaxBooks,
		"max_readers":         sub.MaxReaders,
		"max_libraries":       sub.MaxLibraries,
		"payment_customer_id": sub.PaymentCustomerID,
		"checkout_session_id": sub.CheckoutSessionID,
		"current_period_end":  sub.CurrentPeriodEnd,
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新订阅失败")
	}
	return nil
}

func (r *subscriptionRepository) FindByLibraryID(ctx context.Context, libraryID uint) (*subscription.Subscription, error) {
	var model SubscriptionModel
	if err := r.getDB(ctx).Where("library_id = ?", libraryID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		return nil, apperrors.Wrap(err, "查询订阅失败")
	}
	return toSubscriptionEntity(&model), nil
}

func (r *subscriptionRepository) ListByLibraryIDs(ctx context.Context, libraryIDs []uint) ([]*subscription.Subscription, error) {
	if len(libraryIDs) == 0 {
		return nil, nil
	}

	var models []SubscriptionModel
	if err := r.getDB(ctx).Where("library_id IN ?", libraryIDs).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订阅失败")
	}

	subs := make([]*subscription.Subscription, len(models))
	for i := range models {
		subs[i] = toSubscriptionEntity(&models[i])
	}
	return subs, nil
}

func toSubscriptionModel(sub *subscription.Subscription) *SubscriptionModel {
	return &SubscriptionModel{
		ID:                sub.ID,
		LibraryID:         sub.LibraryID,
		Tier:              string(sub.Tier),
		Status:            string(sub.Status),
		MaxBooks:          sub.MaxBooks,
		MaxReaders:        sub.MaxReaders,
		MaxLibraries:      sub.MaxLibraries,
		PaymentCustomerID: sub.PaymentCustomerID,
		CheckoutSessionID: sub.CheckoutSessionID,
		CurrentPeriodEnd:  sub.CurrentPeriodEnd,
	}
}

func toSubscriptionEntity(model *SubscriptionModel) *subscription.Subscription {
	return &subscription.Subscription{
		ID:                model.ID,
		LibraryID:         model.LibraryID,
		Tier:              subscription.Tier(model.Tier),
		Status:            subscription.Status(model.Status),
		MaxBooks:          model.MaxBooks,
		MaxReaders:        model.MaxReaders,
		MaxLibraries:      model.MaxLibraries,
		PaymentCustomerID: model.PaymentCustomerID,
		CheckoutSessionID: model.CheckoutSessionID,
		CurrentPeriodEnd:  model.CurrentPeriodEnd,
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}

// usageCounter 订阅额度用量统计，图书按书目计数，读者按登记关系计数
type usageCounter struct {
	baseRepo
}

func NewUsageCounter(db *gorm.DB) subscription.UsageCounter {
	return &usageCounter{baseRepo{db: db}}
}

func (c *usageCounter) CountBooks(ctx context.Context, libraryID uint) (int64, error) {
	var count int64
	if err := c.getDB(ctx).Model(&BookModel{}).Where("library_id = ?", libraryID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书数量失败")
	}
	return count, nil
}

func (c *usageCounter) CountReaders(ctx context.Context, libraryID uint) (int64, error) {
	var count int64
	if err := c.getDB(ctx).Model(&LibraryReaderModel{}).Where("library_id = ?", libraryID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计读者数量失败")
	}
	return count, nil
}
