package book

import (
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// 图书领域错误定义
var (
	ErrBookNotFound     = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")
	ErrISBNDuplicate    = apperrors.New(apperrors.ErrCodeISBNDuplicate, "该图书馆已有相同ISBN的图书")
	ErrInvalidISBN      = apperrors.New(apperrors.ErrCodeInvalidISBN, "ISBN格式不正确")
	ErrInvalidTitle     = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrInvalidAgeGroup  = apperrors.New(apperrors.ErrCodeInvalidParams, "未知的年龄段")
	ErrBookLimitReached = apperrors.New(apperrors.ErrCodeSubscriptionLimit, "当前订阅的图书数量已达上限")

	ErrInstanceNotFound      = apperrors.New(apperrors.ErrCodeInstanceNotFound, "馆藏副本不存在")
	ErrInstanceNotAvailable  = apperrors.New(apperrors.ErrCodeInvalidInstanceStatus, "副本当前不可借")
	ErrInstanceNotBorrowed   = apperrors.New(apperrors.ErrCodeInvalidInstanceStatus, "副本未借出")
	ErrInstanceBorrowed      = apperrors.New(apperrors.ErrCodeInvalidInstanceStatus, "副本借出中，请先归还")
	ErrInvalidInstanceStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "无效的副本状态")
)
