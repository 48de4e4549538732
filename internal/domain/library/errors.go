package library

import (
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// 图书馆领域错误定义
var (
	ErrLibraryNotFound         = apperrors.New(apperrors.ErrCodeLibraryNotFound, "图书馆不存在")
	ErrAliasDuplicate          = apperrors.New(apperrors.ErrCodeAliasDuplicate, "图书馆别名已被使用")
	ErrInvalidAlias            = apperrors.New(apperrors.ErrCodeInvalidParams, "别名只能包含小写字母、数字和连字符(2-63位)")
	ErrInvalidName             = apperrors.New(apperrors.ErrCodeInvalidParams, "图书馆名称不能为空")
	ErrInvalidCheckoutDuration = apperrors.New(apperrors.ErrCodeInvalidParams, "借期必须在1-365天之间")
	ErrLibraryLimitReached     = apperrors.New(apperrors.ErrCodeSubscriptionLimit, "当前订阅可创建的图书馆数量已达上限")

	ErrDuplicateAdministrator = apperrors.New(apperrors.ErrCodeDuplicateAdministrator, "该用户已是图书馆管理员")
	ErrNotAdministrator       = apperrors.New(apperrors.ErrCodeForbidden, "不是该图书馆的管理员")
	ErrLastAdministrator      = apperrors.New(apperrors.ErrCodeBusinessError, "不能移除最后一位管理员")

	ErrKioskNotFound      = apperrors.New(apperrors.ErrCodeKioskNotFound, "自助机不存在")
	ErrKioskDisabled      = apperrors.New(apperrors.ErrCodeForbidden, "自助机已停用")
	ErrInvalidKioskSecret = apperrors.New(apperrors.ErrCodeUnauthorized, "自助机密钥错误")
)
