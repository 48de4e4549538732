package library

import (
	"context"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/library"
)

// TxManager 事务管理，由gormrepo.TxManager实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CreateLibraryUseCase 创建图书馆用例
// 图书馆、管理员关系、Free订阅和审计日志在同一个事务中写入
type CreateLibraryUseCase struct {
	libraryService library.Service
	auditRepo      audit.Repository
	txManager      TxManager
}

// NewCreateLibraryUseCase 创建用例
func NewCreateLibraryUseCase(libraryService library.Service, auditRepo audit.Repository, txManager TxManager) *CreateLibraryUseCase {
	return &CreateLibraryUseCase{
		libraryService: libraryService,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// CreateLibraryRequest 创建请求DTO
type CreateLibraryRequest struct {
	OwnerID      uint
	Name         string
	Alias        string
	CheckoutDays int
}

// Execute 执行创建
func (uc *CreateLibraryUseCase) Execute(ctx context.Context, req CreateLibraryRequest) (*LibraryInfo, error) {
	var created *library.Library
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 领域服务：额度、别名、管理员、订阅
		lib, err := uc.libraryService.CreateLibrary(txCtx, req.OwnerID, req.Name, req.Alias, req.CheckoutDays)
		if err != nil {
			return err
		}

		// 2. 审计日志，写入失败整体回滚
		entry := audit.NewLog(lib.ID, req.OwnerID, audit.LogLibraryCreated, "library", lib.ID, map[string]any{
			"name":  lib.Name,
			"alias": lib.Alias,
		})
		if err := uc.auditRepo.Append(txCtx, entry); err != nil {
			return err
		}

		created = lib
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToLibraryInfo(created), nil
}

// LibraryInfo 图书馆DTO
type LibraryInfo struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	Alias                string `json:"alias"`
	CheckoutDurationDays int    `json:"checkout_duration_days"`
	OwnerID              uint   `json:"owner_id"`
	CreatedAt            string `json:"created_at"`
}

// ToLibraryInfo 领域实体 → DTO
func ToLibraryInfo(lib *library.Library) *LibraryInfo {
	return &LibraryInfo{
		ID:                   lib.ID,
		Name:                 lib.Name,
		Alias:                lib.Alias,
		CheckoutDurationDays: lib.CheckoutDurationDays,
		OwnerID:              lib.OwnerID,
		CreatedAt:            lib.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
