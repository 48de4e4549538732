package subscription

import (
	"fmt"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

var (
	ErrSubscriptionNotFound = apperrors.New(apperrors.ErrCodeNotFound, "订阅不存在")
	ErrInvalidTier          = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的订阅等级")
	ErrFreeCheckout         = apperrors.New(apperrors.ErrCodeBusinessError, "免费版无需支付")
)

// LimitExceededError 批量导入超出订阅图书额度
// 携带当前等级和剩余额度，供调用方提示用户
type LimitExceededError struct {
	Tier      Tier
	Available int64
	Requested int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("订阅等级%s剩余图书额度%d，本次导入%d本", e.Tier, e.Available, e.Requested)
}

// Unwrap 转为AppError，HTTP层可统一处理
func (e *LimitExceededError) Unwrap() error {
	return apperrors.New(apperrors.ErrCodeSubscriptionLimit, e.Error())
}
