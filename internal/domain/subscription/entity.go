package subscription

import (
	"time"
)

// Unlimited 额度不限
const Unlimited = -1

// Tier 订阅等级
type Tier string

const (
	TierFree      Tier = "free"
	TierBasic     Tier = "basic"
	TierPremium   Tier = "premium"
	TierUnlimited Tier = "unlimited"
)

// Status 订阅状态
type Status string

const (
	StatusActive   Status = "active"
	StatusTrialing Status = "trialing"
	StatusPastDue  Status = "past_due"
	StatusCanceled Status = "canceled"
)

// Plan 等级对应的额度
type Plan struct {
	Tier         Tier
	MaxBooks     int
	MaxReaders   int
	MaxLibraries int
	PriceID      string // 支付平台的价格ID，Free为空
}

var plans = map[Tier]Plan{
	TierFree:      {Tier: TierFree, MaxBooks: 100, MaxReaders: 50, MaxLibraries: 1},
	TierBasic:     {Tier: TierBasic, MaxBooks: 1000, MaxReaders: 500, MaxLibraries: 2, PriceID: "price_basic"},
	TierPremium:   {Tier: TierPremium, MaxBooks: 10000, MaxReaders: 5000, MaxLibraries: 5, PriceID: "price_premium"},
	TierUnlimited: {Tier: TierUnlimited, MaxBooks: Unlimited, MaxReaders: Unlimited, MaxLibraries: Unlimited, PriceID: "price_unlimited"},
}

// PlanFor 查询等级额度
func PlanFor(tier Tier) (Plan, bool) {
	p, ok := plans[tier]
	return p, ok
}

// Subscription 图书馆订阅，每个图书馆最多一条
type Subscription struct {
	ID                uint
	LibraryID         uint
	Tier              Tier
	Status            Status
	MaxBooks          int
	MaxReaders        int
	MaxLibraries      int
	PaymentCustomerID string
	CheckoutSessionID string
	CurrentPeriodEnd  *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewFree 创建Free订阅
func NewFree(libraryID uint) *Subscription {
	now := time.Now()
	s := &Subscription{
		LibraryID: libraryID,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.ApplyPlan(plans[TierFree])
	return s
}

// ApplyPlan 切换等级并覆盖额度
func (s *Subscription) ApplyPlan(p Plan) {
	s.Tier = p.Tier
	s.MaxBooks = p.MaxBooks
	s.MaxReaders = p.MaxReaders
	s.MaxLibraries = p.MaxLibraries
	s.UpdatedAt = time.Now()
}

// Allows 判断当前用量是否还能再加一个
func Allows(max int, current int64) bool {
	if max == Unlimited {
		return true
	}
	return current < int64(max)
}

// Available 剩余额度，不限时返回-1
func Available(max int, current int64) int64 {
	if max == Unlimited {
		return Unlimited
	}
	if left := int64(max) - current; left > 0 {
		return left
	}
	return 0
}
