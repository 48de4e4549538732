package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

const issuer = "libraryhub"

// Role 令牌持有者角色
type Role string

const (
	RoleLibrarian Role = "librarian" // 馆员（管理端）
	RoleReader    Role = "reader"    // 读者（自助机/移动端）
)

// TokenType 令牌用途，Refresh Token不能当作Access Token使用
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Manager JWT管理器
// 馆员使用Access+Refresh双Token，读者只签发短期Access Token
type Manager struct {
	secret             string
	accessTokenExpire  time.Duration
	refreshTokenExpire time.Duration
	readerTokenExpire  time.Duration
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
		readerTokenExpire:  accessTokenExpire,
	}
}

// SetReaderTokenExpire 读者令牌有效期，默认与Access Token相同
func (m *Manager) SetReaderTokenExpire(d time.Duration) {
	if d > 0 {
		m.readerTokenExpire = d
	}
}

// ReaderTokenExpire 读者令牌有效期
func (m *Manager) ReaderTokenExpire() time.Duration {
	return m.readerTokenExpire
}

// Claims 自定义JWT Claims
// 读者令牌的UserID是读者ID，LibraryID是登录的图书馆
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Role      Role      `json:"role"`
	Type      TokenType `json:"typ"`
	LibraryID uint      `json:"library_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessTokenExpire Access Token有效期
func (m *Manager) AccessTokenExpire() time.Duration {
	return m.accessTokenExpire
}

// GenerateToken 为馆员生成Token对
func (m *Manager) GenerateToken(userID uint, email, nickname string) (*TokenPair, error) {
	now := time.Now()

	access, err := m.sign(Claims{
		UserID:           userID,
		Email:            email,
		Nickname:         nickname,
		Role:             RoleLibrarian,
		Type:             TokenAccess,
		RegisteredClaims: m.registered(userID, now, m.accessTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	// Refresh Token只包含UserID
	refresh, err := m.sign(Claims{
		UserID:           userID,
		Role:             RoleLibrarian,
		Type:             TokenRefresh,
		RegisteredClaims: m.registered(userID, now, m.refreshTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// GenerateReaderToken 为读者签发绑定图书馆的Access Token
func (m *Manager) GenerateReaderToken(readerID, libraryID uint) (string, error) {
	token, err := m.sign(Claims{
		UserID:           readerID,
		Role:             RoleReader,
		Type:             TokenAccess,
		LibraryID:        libraryID,
		RegisteredClaims: m.registered(readerID, time.Now(), m.readerTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "生成读者Token失败")
	}
	return token, nil
}

// ParseToken 解析并验证Token（签名、exp、nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}

// ParseAccessToken 解析Access Token，Refresh Token返回ErrInvalidToken
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parseTyped(tokenString, TokenAccess)
}

// ParseRefreshToken 解析Refresh Token，Access Token返回ErrInvalidToken
func (m *Manager) ParseRefreshToken(tokenString string) (*Claims, error) {
	return m.parseTyped(tokenString, TokenRefresh)
}

func (m *Manager) parseTyped(tokenString string, typ TokenType) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != typ {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken 使用Refresh Token刷新馆员Access Token
func (m *Manager) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := m.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.Role != RoleLibrarian {
		return "", apperrors.ErrInvalidToken
	}

	token, err := m.sign(Claims{
		UserID:           claims.UserID,
		Email:            claims.Email,
		Nickname:         claims.Nickname,
		Role:             RoleLibrarian,
		Type:             TokenAccess,
		RegisteredClaims: m.registered(claims.UserID, time.Now(), m.accessTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}
	return token, nil
}

func (m *Manager) registered(subject uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   fmt.Sprintf("%d", subject),
	}
}

func (m *Manager) sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.secret))
}
