package importjob

import (
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

var (
	ErrImportNotFound  = apperrors.New(apperrors.ErrCodeImportNotFound, "导入任务不存在")
	ErrVersionConflict = apperrors.New(apperrors.ErrCodeImportConflict, "导入任务已被其他进程更新")
	ErrEmptyImport     = apperrors.New(apperrors.ErrCodeInvalidFile, "文件中没有有效的ISBN")
	ErrInvalidFile     = apperrors.New(apperrors.ErrCodeInvalidFile, "无法解析CSV文件")
)
