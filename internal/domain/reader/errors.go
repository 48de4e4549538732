package reader

import (
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// 读者领域错误定义
var (
	ErrReaderNotFound     = apperrors.New(apperrors.ErrCodeReaderNotFound, "读者不存在")
	ErrReaderDuplicate    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "读者已在该图书馆登记")
	ErrReaderLimitReached = apperrors.New(apperrors.ErrCodeSubscriptionLimit, "当前订阅的读者数量已达上限")
	ErrInvalidEmail       = apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	ErrInvalidName        = apperrors.New(apperrors.ErrCodeInvalidParams, "读者姓名不能为空")
	ErrInvalidEAN         = apperrors.New(apperrors.ErrCodeInvalidParams, "读者条码格式不正确")
)
