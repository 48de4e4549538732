package library

import (
	"context"
	"log/slog"
	"strings"

	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/user"
)

// UserFinder 按邮箱查找馆员账号
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// AddAdministratorUseCase 按邮箱把已注册的馆员加为管理员
type AddAdministratorUseCase struct {
	libraryService library.Service
	users          UserFinder
	auditRepo      audit.Repository
}

func NewAddAdministratorUseCase(libraryService library.Service, users UserFinder, auditRepo audit.Repository) *AddAdministratorUseCase {
	return &AddAdministratorUseCase{
		libraryService: libraryService,
		users:          users,
		auditRepo:      auditRepo,
	}
}

// Execute operatorID是执行操作的管理员
func (uc *AddAdministratorUseCase) Execute(ctx context.Context, libraryID, operatorID uint, email string) (*AdministratorInfo, error) {
	u, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if err := uc.libraryService.AddAdministrator(ctx, libraryID, u.ID); err != nil {
		return nil, err
	}

	entry := audit.NewLog(libraryID, operatorID, audit.LogAdministratorAdded, "user", u.ID, map[string]any{
		"email": u.Email,
	})
	if err := uc.auditRepo.Append(ctx, entry); err != nil {
		// 管理员已添加成功，审计失败只记录日志
		slog.ErrorContext(ctx, "append audit log failed", "action", entry.Action, "err", err)
	}

	return &AdministratorInfo{UserID: u.ID, Email: u.Email, Nickname: u.Nickname}, nil
}

// AdministratorInfo 管理员DTO
type AdministratorInfo struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
