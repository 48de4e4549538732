package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/libraryhub/internal/domain/library"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// AdministratorChecker 由library.Service实现
type AdministratorChecker interface {
	IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error)
}

// LibraryAccess 图书馆级权限：只有管理员能访问/libraries/:libraryID下的接口
type LibraryAccess struct {
	checker AdministratorChecker
}

func NewLibraryAccess(libraryService library.Service) *LibraryAccess {
	return &LibraryAccess{checker: libraryService}
}

// RequireAdministrator 必须放在RequireLibrarian之后
func (m *LibraryAccess) RequireAdministrator() gin.HandlerFunc {
	return func(c *gin.Context) {
		libraryID, err := strconv.ParseUint(c.Param("libraryID"), 10, 64)
		if err != nil || libraryID == 0 {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "图书馆ID格式错误")
			c.Abort()
			return
		}

		ok, err := m.checker.IsAdministrator(c.Request.Context(), uint(libraryID), GetUserID(c))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !ok {
			response.Error(c, library.ErrNotAdministrator)
			c.Abort()
			return
		}

		c.Set(ctxLibraryID, uint(libraryID))
		c.Next()
	}
}
