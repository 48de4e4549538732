package reader

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/user"
)

// SubscriptionGate 登记读者时的订阅额度检查，由subscription.Service实现
type SubscriptionGate interface {
	CanAddReader(ctx context.Context, libraryID uint) (bool, error)
}

// LibraryFinder 查询图书馆
type LibraryFinder interface {
	FindByID(ctx context.Context, id uint) (*library.Library, error)
}

// TxManager 事务管理，由gormrepo.TxManager实现
type TxManager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service 读者领域服务
type Service interface {
	// RegisterReader 在图书馆登记读者
	// 邮箱已存在的读者直接加入该图书馆，不重复创建
	RegisterReader(ctx context.Context, libraryID uint, firstName, lastName, email string) (*Reader, error)

	GetReader(ctx context.Context, libraryID, readerID uint) (*Reader, error)
	UpdateReader(ctx context.Context, libraryID, readerID uint, firstName, lastName, email string) (*Reader, error)
	ListReaders(ctx context.Context, params ListParams) ([]*Reader, int64, error)

	// AttachToLibrary 把已有读者加入图书馆，受读者额度限制
	AttachToLibrary(ctx context.Context, libraryID, readerID uint) error
	DetachFromLibrary(ctx context.Context, libraryID, readerID uint) error

	// FindByEAN 查询图书馆内的读者，非成员视为不存在
	FindByEAN(ctx context.Context, libraryID uint, ean string) (*Reader, error)

	// FindMember 查询图书馆内的读者，非成员视为不存在
	FindMember(ctx context.Context, libraryID, readerID uint) (*Reader, error)
}

type service struct {
	repo         Repository
	libraries    LibraryFinder
	subscription SubscriptionGate
	tx           TxManager
}

// NewService 创建读者领域服务
func NewService(repo Repository, libraries LibraryFinder, subscription SubscriptionGate, tx TxManager) Service {
	return &service{
		repo:         repo,
		libraries:    libraries,
		subscription: subscription,
		tx:           tx,
	}
}

// RegisterReader 登记读者
// 业务规则：
// - 受订阅的读者数量限制
// - 同一图书馆内邮箱不能重复登记
// - EAN由读者ID生成，创建后回写
func (s *service) RegisterReader(ctx context.Context, libraryID uint, firstName, lastName, email string) (*Reader, error) {
	candidate := NewReader(firstName, lastName, email)
	if candidate.FirstName == "" && candidate.LastName == "" {
		return nil, ErrInvalidName
	}
	if !user.IsValidEmail(candidate.Email) {
		return nil, ErrInvalidEmail
	}

	if _, err := s.libraries.FindByID(ctx, libraryID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, candidate.Email)
	if err != nil && !errors.Is(err, ErrReaderNotFound) {
		return nil, err
	}
	if existing != nil {
		if err := s.AttachToLibrary(ctx, libraryID, existing.ID); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if err := s.checkQuota(ctx, libraryID); err != nil {
		return nil, err
	}

	// 创建、回写条码、加入图书馆在同一事务内，失败时不留下占位条码的读者
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		// 占位条码，拿到自增ID后替换
		candidate.EAN = "tmp-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]
		if err := s.repo.Create(ctx, candidate); err != nil {
			return err
		}
		candidate.EAN = GenerateEAN(candidate.ID)
		if err := s.repo.Update(ctx, candidate); err != nil {
			return err
		}
		return s.repo.AttachToLibrary(ctx, candidate.ID, libraryID)
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

func (s *service) GetReader(ctx context.Context, libraryID, readerID uint) (*Reader, error) {
	return s.FindMember(ctx, libraryID, readerID)
}

// UpdateReader 更新读者资料
func (s *service) UpdateReader(ctx context.Context, libraryID, readerID uint, firstName, lastName, email string) (*Reader, error) {
	r, err := s.FindMember(ctx, libraryID, readerID)
	if err != nil {
		return nil, err
	}
	if email != "" && !user.IsValidEmail(strings.ToLower(strings.TrimSpace(email))) {
		return nil, ErrInvalidEmail
	}
	r.UpdateProfile(firstName, lastName, email)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) ListReaders(ctx context.Context, params ListParams) ([]*Reader, int64, error) {
	return s.repo.List(ctx, params)
}

// AttachToLibrary 把读者加入图书馆
func (s *service) AttachToLibrary(ctx context.Context, libraryID, readerID uint) error {
	member, err := s.repo.IsMember(ctx, libraryID, readerID)
	if err != nil {
		return err
	}
	if member {
		return ErrReaderDuplicate
	}
	if err := s.checkQuota(ctx, libraryID); err != nil {
		return err
	}
	return s.repo.AttachToLibrary(ctx, readerID, libraryID)
}

func (s *service) DetachFromLibrary(ctx context.Context, libraryID, readerID uint) error {
	if _, err := s.FindMember(ctx, libraryID, readerID); err != nil {
		return err
	}
	return s.repo.DetachFromLibrary(ctx, readerID, libraryID)
}

// FindByEAN 扫码查询读者
func (s *service) FindByEAN(ctx context.Context, libraryID uint, ean string) (*Reader, error) {
	ean = strings.TrimSpace(ean)
	if !IsValidEAN(ean) {
		return nil, ErrInvalidEAN
	}
	r, err := s.repo.FindByEAN(ctx, ean)
	if err != nil {
		return nil, err
	}
	return s.ensureMember(ctx, libraryID, r)
}

// FindMember 查询图书馆成员
func (s *service) FindMember(ctx context.Context, libraryID, readerID uint) (*Reader, error) {
	r, err := s.repo.FindByID(ctx, readerID)
	if err != nil {
		return nil, err
	}
	return s.ensureMember(ctx, libraryID, r)
}

func (s *service) ensureMember(ctx context.Context, libraryID uint, r *Reader) (*Reader, error) {
	member, err := s.repo.IsMember(ctx, libraryID, r.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrReaderNotFound
	}
	return r, nil
}

func (s *service) checkQuota(ctx context.Context, libraryID uint) error {
	allowed, err := s.subscription.CanAddReader(ctx, libraryID)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrReaderLimitReached
	}
	return nil
}
