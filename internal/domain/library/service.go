package library

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// SubscriptionGate 创建图书馆时需要的订阅能力
// 由subscription.Service实现
type SubscriptionGate interface {
	CanAddLibrary(ctx context.Context, userID uint) (bool, error)
	EnsureSubscription(ctx context.Context, libraryID uint) error
}

// Service 图书馆领域服务
type Service interface {
	// CreateLibrary 创建图书馆
	// 业务规则：
	// - 受订阅的图书馆数量限制
	// - 别名全局唯一
	// - 创建者自动成为管理员，图书馆获得Free订阅
	CreateLibrary(ctx context.Context, ownerID uint, name, alias string, checkoutDays int) (*Library, error)

	GetLibrary(ctx context.Context, id uint) (*Library, error)
	ListForUser(ctx context.Context, userID uint) ([]*Library, error)
	UpdateSettings(ctx context.Context, id uint, name string, checkoutDays int) (*Library, error)
	DeleteLibrary(ctx context.Context, id uint) error

	// AddAdministrator 重复添加返回ErrDuplicateAdministrator
	AddAdministrator(ctx context.Context, libraryID, userID uint) error
	// RemoveAdministrator 至少保留一位管理员
	RemoveAdministrator(ctx context.Context, libraryID, userID uint) error
	IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error)
	ListAdministrators(ctx context.Context, libraryID uint) ([]uint, error)

	// CreateKiosk 返回自助机及明文密钥（只返回这一次）
	CreateKiosk(ctx context.Context, libraryID uint, name string) (*Kiosk, string, error)
	AuthenticateKiosk(ctx context.Context, kioskID uint, secret string) (*Kiosk, error)
	ListKiosks(ctx context.Context, libraryID uint) ([]*Kiosk, error)
	SetKioskEnabled(ctx context.Context, libraryID, kioskID uint, enabled bool) error
}

type service struct {
	repo         Repository
	kioskRepo    KioskRepository
	subscription SubscriptionGate
}

// NewService 创建图书馆领域服务
func NewService(repo Repository, kioskRepo KioskRepository, subscription SubscriptionGate) Service {
	return &service{
		repo:         repo,
		kioskRepo:    kioskRepo,
		subscription: subscription,
	}
}

// CreateLibrary 创建图书馆
// 多步写入需要调用方用TxManager包裹
func (s *service) CreateLibrary(ctx context.Context, ownerID uint, name, alias string, checkoutDays int) (*Library, error) {
	lib := NewLibrary(name, alias, ownerID, checkoutDays)
	if lib.Name == "" {
		return nil, ErrInvalidName
	}
	if !IsValidAlias(lib.Alias) {
		return nil, ErrInvalidAlias
	}
	if lib.CheckoutDurationDays > MaxCheckoutDurationDays {
		return nil, ErrInvalidCheckoutDuration
	}

	allowed, err := s.subscription.CanAddLibrary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrLibraryLimitReached
	}

	// 别名唯一性最终由UNIQUE索引保证，这里提前返回友好错误
	if _, err := s.repo.FindByAlias(ctx, lib.Alias); err == nil {
		return nil, ErrAliasDuplicate
	} else if !errors.Is(err, ErrLibraryNotFound) {
		return nil, err
	}

	if err := s.repo.Create(ctx, lib); err != nil {
		return nil, err
	}
	if err := s.repo.AddAdministrator(ctx, lib.ID, ownerID); err != nil {
		return nil, err
	}
	if err := s.subscription.EnsureSubscription(ctx, lib.ID); err != nil {
		return nil, err
	}

	return lib, nil
}

func (s *service) GetLibrary(ctx context.Context, id uint) (*Library, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]*Library, error) {
	return s.repo.ListByAdministrator(ctx, userID)
}

// UpdateSettings 更新图书馆设置
func (s *service) UpdateSettings(ctx context.Context, id uint, name string, checkoutDays int) (*Library, error) {
	lib, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := lib.UpdateSettings(name, checkoutDays); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, lib); err != nil {
		return nil, err
	}
	return lib, nil
}

func (s *service) DeleteLibrary(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// AddAdministrator 添加管理员
func (s *service) AddAdministrator(ctx context.Context, libraryID, userID uint) error {
	if _, err := s.repo.FindByID(ctx, libraryID); err != nil {
		return err
	}
	isAdmin, err := s.repo.IsAdministrator(ctx, libraryID, userID)
	if err != nil {
		return err
	}
	if isAdmin {
		return ErrDuplicateAdministrator
	}
	return s.repo.AddAdministrator(ctx, libraryID, userID)
}

// RemoveAdministrator 移除管理员
func (s *service) RemoveAdministrator(ctx context.Context, libraryID, userID uint) error {
	admins, err := s.repo.ListAdministrators(ctx, libraryID)
	if err != nil {
		return err
	}

	found := false
	for _, id := range admins {
		if id == userID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotAdministrator
	}
	if len(admins) == 1 {
		return ErrLastAdministrator
	}

	return s.repo.RemoveAdministrator(ctx, libraryID, userID)
}

func (s *service) IsAdministrator(ctx context.Context, libraryID, userID uint) (bool, error) {
	return s.repo.IsAdministrator(ctx, libraryID, userID)
}

func (s *service) ListAdministrators(ctx context.Context, libraryID uint) ([]uint, error) {
	return s.repo.ListAdministrators(ctx, libraryID)
}

// CreateKiosk 创建自助机
func (s *service) CreateKiosk(ctx context.Context, libraryID uint, name string) (*Kiosk, string, error) {
	if _, err := s.repo.FindByID(ctx, libraryID); err != nil {
		return nil, "", err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", apperrors.New(apperrors.ErrCodeInvalidParams, "自助机名称不能为空")
	}

	secret := strings.ReplaceAll(uuid.NewString(), "-", "")
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "生成自助机密钥失败")
	}

	now := time.Now()
	kiosk := &Kiosk{
		LibraryID:  libraryID,
		Name:       name,
		SecretHash: string(hash),
		Enabled:    true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.kioskRepo.Create(ctx, kiosk); err != nil {
		return nil, "", err
	}

	return kiosk, secret, nil
}

// AuthenticateKiosk 校验自助机ID与密钥
func (s *service) AuthenticateKiosk(ctx context.Context, kioskID uint, secret string) (*Kiosk, error) {
	kiosk, err := s.kioskRepo.FindByID(ctx, kioskID)
	if err != nil {
		return nil, err
	}
	if !kiosk.Enabled {
		return nil, ErrKioskDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(kiosk.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidKioskSecret
	}
	return kiosk, nil
}

func (s *service) ListKiosks(ctx context.Context, libraryID uint) ([]*Kiosk, error) {
	return s.kioskRepo.ListByLibrary(ctx, libraryID)
}

// SetKioskEnabled 启用/停用自助机
func (s *service) SetKioskEnabled(ctx context.Context, libraryID, kioskID uint, enabled bool) error {
	kiosk, err := s.kioskRepo.FindByID(ctx, kioskID)
	if err != nil {
		return err
	}
	if kiosk.LibraryID != libraryID {
		return ErrKioskNotFound
	}
	kiosk.Enabled = enabled
	kiosk.UpdatedAt = time.Now()
	return s.kioskRepo.Update(ctx, kiosk)
}
