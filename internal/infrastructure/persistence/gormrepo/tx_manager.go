package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager 事务管理器
// 通过context传递事务DB，fn内所有Repository操作在同一事务中执行
// 嵌套调用时GORM使用SavePoint
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction fn返回error时回滚，返回nil时提交
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := libraryRepo.Create(ctx, lib); err != nil {
//	        return err
//	    }
//	    return libraryRepo.AddAdministrator(ctx, lib.ID, ownerID)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbFromContext(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext 优先使用context中的事务DB
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
