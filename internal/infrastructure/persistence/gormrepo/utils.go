package gormrepo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// baseRepo 所有仓储共用的事务感知DB
type baseRepo struct {
	db *gorm.DB
}

func (r baseRepo) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

// isDuplicateError 判断是否为唯一索引冲突
// MySQL 1062 Duplicate entry / PostgreSQL 23505 / SQLite UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// pagination 返回limit与offset
func pagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

func likePattern(keyword string) string {
	return "%" + strings.TrimSpace(keyword) + "%"
}
