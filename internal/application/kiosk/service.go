// Package kiosk 读者自助借还（自助机与移动端）
package kiosk

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
)

// ReaderLookup 查询图书馆内的读者，由reader.Service实现
type ReaderLookup interface {
	FindByEAN(ctx context.Context, libraryID uint, ean string) (*reader.Reader, error)
	FindMember(ctx context.Context, libraryID, readerID uint) (*reader.Reader, error)
}

// Circulation 借还操作，由book.CirculationService实现
type Circulation interface {
	CheckoutBooks(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error)
	ReturnBooksForReader(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error)
	BorrowedBy(ctx context.Context, libraryID, readerID uint) ([]book.Loan, error)
}

// KioskAuthenticator 校验自助机，由library.Service实现
type KioskAuthenticator interface {
	AuthenticateKiosk(ctx context.Context, kioskID uint, secret string) (*library.Kiosk, error)
}

// TokenIssuer 签发读者令牌，由jwt.Manager实现
type TokenIssuer interface {
	GenerateReaderToken(readerID, libraryID uint) (string, error)
	ReaderTokenExpire() time.Duration
}

// Service 读者自助服务
// 读者只能借还自己名下的副本，身份来自条码（自助机）或读者令牌（移动端）
type Service struct {
	readers     ReaderLookup
	circulation Circulation
	kiosks      KioskAuthenticator
	tokens      TokenIssuer
}

func NewService(readers ReaderLookup, circulation Circulation, kiosks KioskAuthenticator, tokens TokenIssuer) *Service {
	return &Service{
		readers:     readers,
		circulation: circulation,
		kiosks:      kiosks,
		tokens:      tokens,
	}
}

// LoginRequest 自助机登录：自助机凭证 + 读者条码
type LoginRequest struct {
	KioskID uint
	Secret  string
	EAN     string
}

// LoginResponse 读者令牌绑定自助机所属图书馆
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   int64       `json:"expires_in"`
	LibraryID   uint        `json:"library_id"`
	Reader      *ReaderInfo `json:"reader"`
}

// Login 自助机登录
//
// 1. 校验自助机ID与密钥
// 2. 在自助机所属图书馆按条码查找读者
// 3. 签发读者令牌
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	kiosk, err := s.kiosks.AuthenticateKiosk(ctx, req.KioskID, req.Secret)
	if err != nil {
		return nil, err
	}

	r, err := s.AuthenticateReader(ctx, kiosk.LibraryID, req.EAN)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateReaderToken(r.ID, kiosk.LibraryID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "kiosk reader login", "kiosk_id", kiosk.ID, "library_id", kiosk.LibraryID, "reader_id", r.ID)
	return &LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.tokens.ReaderTokenExpire().Seconds()),
		LibraryID:   kiosk.LibraryID,
		Reader:      ToReaderInfo(r),
	}, nil
}

// AuthenticateReader 按条码识别读者，非成员返回reader.ErrReaderNotFound
func (s *Service) AuthenticateReader(ctx context.Context, libraryID uint, ean string) (*reader.Reader, error) {
	return s.readers.FindByEAN(ctx, libraryID, ean)
}

// Checkout 自助机借书（条码识别读者）
func (s *Service) Checkout(ctx context.Context, libraryID uint, ean string, instanceIDs []uint) (*CirculationInfo, error) {
	r, err := s.AuthenticateReader(ctx, libraryID, ean)
	if err != nil {
		return nil, err
	}
	return s.CheckoutForReader(ctx, libraryID, r.ID, instanceIDs)
}

// CheckoutForReader 移动端借书（令牌识别读者）
func (s *Service) CheckoutForReader(ctx context.Context, libraryID, readerID uint, instanceIDs []uint) (*CirculationInfo, error) {
	result, err := s.circulation.CheckoutBooks(ctx, readerID, instanceIDs, libraryID)
	if err != nil {
		return nil, err
	}
	return ToCirculationInfo(result), nil
}

// RequestReturn 自助机还书，只归还该读者借出的副本
func (s *Service) RequestReturn(ctx context.Context, libraryID uint, ean string, instanceIDs []uint) (*CirculationInfo, error) {
	r, err := s.AuthenticateReader(ctx, libraryID, ean)
	if err != nil {
		return nil, err
	}
	return s.RequestReturnForReader(ctx, libraryID, r.ID, instanceIDs)
}

func (s *Service) RequestReturnForReader(ctx context.Context, libraryID, readerID uint, instanceIDs []uint) (*CirculationInfo, error) {
	result, err := s.circulation.ReturnBooksForReader(ctx, readerID, instanceIDs, libraryID)
	if err != nil {
		return nil, err
	}
	return ToCirculationInfo(result), nil
}

// MyLoans 读者的在借副本
func (s *Service) MyLoans(ctx context.Context, libraryID, readerID uint) ([]LoanInfo, error) {
	if _, err := s.readers.FindMember(ctx, libraryID, readerID); err != nil {
		return nil, err
	}
	loans, err := s.circulation.BorrowedBy(ctx, libraryID, readerID)
	if err != nil {
		return nil, err
	}
	return toLoanInfos(loans), nil
}
