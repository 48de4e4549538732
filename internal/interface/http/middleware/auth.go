package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/libraryhub/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/jwt"
	"github.com/xiebiao/libraryhub/pkg/response"
)

// Context中的键
const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxNickname    = "nickname"
	ctxRole        = "role"
	ctxLibraryID   = "library_id"
	ctxAccessToken = "access_token"
)

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token与角色
// 4. 将身份信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireLibrarian 馆员接口
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireLibrarian())
func (m *AuthMiddleware) RequireLibrarian() gin.HandlerFunc {
	return m.require(jwt.RoleLibrarian)
}

// RequireReader 移动端/自助机接口，读者令牌绑定图书馆
func (m *AuthMiddleware) RequireReader() gin.HandlerFunc {
	return m.require(jwt.RoleReader)
}

func (m *AuthMiddleware) require(role jwt.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}
		tokenString := parts[1]

		// 已登出的Token
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "验证Token失败"))
			c.Abort()
			return
		}
		if isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if claims.Role != role {
			response.Error(c, apperrors.ErrForbidden)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxNickname, claims.Nickname)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxAccessToken, tokenString)
		if role == jwt.RoleReader {
			c.Set(ctxLibraryID, claims.LibraryID)
		}

		c.Next()
	}
}

// GetUserID 当前馆员ID，读者令牌时为读者ID
func GetUserID(c *gin.Context) uint {
	return getUint(c, ctxUserID)
}

// GetLibraryID 馆员接口为路径中的图书馆，读者接口为令牌绑定的图书馆
func GetLibraryID(c *gin.Context) uint {
	return getUint(c, ctxLibraryID)
}

// GetEmail 当前馆员邮箱
func GetEmail(c *gin.Context) string {
	if email, exists := c.Get(ctxEmail); exists {
		if e, ok := email.(string); ok {
			return e
		}
	}
	return ""
}

// GetAccessToken 当前请求的Token（登出时加入黑名单）
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

// MustGetUserID 用于已经通过认证中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

func getUint(c *gin.Context, key string) uint {
	if v, exists := c.Get(key); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
