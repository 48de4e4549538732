// Package subscription 订阅查询、等级变更与支付结账
package subscription

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/subscription"
	"github.com/xiebiao/libraryhub/internal/infrastructure/payment"
	"github.com/xiebiao/libraryhub/pkg/saga"
)

const checkoutTimeout = 30 * time.Second

// PaymentGateway 支付平台，由payment.Client实现
type PaymentGateway interface {
	CreateCustomer(ctx context.Context, email string, libraryID uint) (string, error)
	DeleteCustomer(ctx context.Context, customerID string) error
	CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error)
}

// StartCheckoutUseCase 发起付费订阅结账
//
// Saga步骤：
// 1. 创建支付客户（补偿：删除客户）
// 2. 创建结账会话
// 3. 在订阅上记录客户与会话ID
// 任一步失败时已创建的客户会被删除。等级在支付完成后由人工或回调切换。
type StartCheckoutUseCase struct {
	subscriptions subscription.Service
	payments      PaymentGateway
	auditRepo     audit.Repository
}

func NewStartCheckoutUseCase(subscriptions subscription.Service, payments PaymentGateway, auditRepo audit.Repository) *StartCheckoutUseCase {
	return &StartCheckoutUseCase{
		subscriptions: subscriptions,
		payments:      payments,
		auditRepo:     auditRepo,
	}
}

// StartCheckoutRequest 结账请求
type StartCheckoutRequest struct {
	LibraryID uint
	UserID    uint
	Email     string
	Tier      subscription.Tier
}

// StartCheckoutResponse 客户端跳转到URL完成支付
type StartCheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

func (uc *StartCheckoutUseCase) Execute(ctx context.Context, req StartCheckoutRequest) (*StartCheckoutResponse, error) {
	plan, ok := subscription.PlanFor(req.Tier)
	if !ok {
		return nil, subscription.ErrInvalidTier
	}
	if plan.PriceID == "" {
		return nil, subscription.ErrFreeCheckout
	}

	var (
		customerID string
		session    *payment.CheckoutSession
	)

	s := saga.NewSaga("subscription_checkout", checkoutTimeout)
	s.AddStep("创建支付客户",
		func(ctx context.Context) error {
			id, err := uc.payments.CreateCustomer(ctx, req.Email, req.LibraryID)
			if err != nil {
				return err
			}
			customerID = id
			return nil
		},
		func(ctx context.Context) error {
			return uc.payments.DeleteCustomer(ctx, customerID)
		},
	)
	s.AddStep("创建结账会话",
		func(ctx context.Context) error {
			cs, err := uc.payments.CreateCheckoutSession(ctx, payment.CheckoutParams{
				CustomerID: customerID,
				PriceID:    plan.PriceID,
				LibraryID:  req.LibraryID,
			})
			if err != nil {
				return err
			}
			session = cs
			return nil
		},
		nil,
	)
	s.AddStep("记录结账信息",
		func(ctx context.Context) error {
			return uc.subscriptions.RecordCheckout(ctx, req.LibraryID, customerID, session.ID)
		},
		nil,
	)

	if err := s.Execute(ctx); err != nil {
		slog.ErrorContext(ctx, "subscription checkout failed", "library_id", req.LibraryID, "tier", req.Tier, "err", err)
		return nil, err
	}

	entry := audit.NewLog(req.LibraryID, req.UserID, audit.LogCheckoutStarted, "subscription", req.LibraryID, map[string]any{
		"tier":       string(req.Tier),
		"session_id": session.ID,
	})
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "append audit log failed", "action", entry.Action, "err", err)
	}

	return &StartCheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}
