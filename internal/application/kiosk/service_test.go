package kiosk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	"github.com/xiebiao/libraryhub/pkg/jwt"
)

// stubReaders 读者5是图书馆1的成员
type stubReaders struct{}

func (stubReaders) FindByEAN(ctx context.Context, libraryID uint, ean string) (*reader.Reader, error) {
	if libraryID == 1 && ean == "2000000000053" {
		return &reader.Reader{ID: 5, FirstName: "Ada", LastName: "Lovelace", EAN: ean}, nil
	}
	return nil, reader.ErrReaderNotFound
}

func (stubReaders) FindMember(ctx context.Context, libraryID, readerID uint) (*reader.Reader, error) {
	if libraryID == 1 && readerID == 5 {
		return &reader.Reader{ID: 5}, nil
	}
	return nil, reader.ErrReaderNotFound
}

// stubCirculation 借出时副本100可借，其余跳过
type stubCirculation struct {
	readerID uint
	due      time.Time
}

func (c *stubCirculation) CheckoutBooks(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error) {
	c.readerID = readerID
	result := &book.CirculationResult{}
	for _, id := range instanceIDs {
		if id == 100 {
			result.Processed = append(result.Processed, book.Loan{InstanceID: id, BookID: 10, Title: "Dune", DueDate: c.due})
			continue
		}
		result.Skipped = append(result.Skipped, id)
	}
	return result, nil
}

func (c *stubCirculation) ReturnBooksForReader(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error) {
	c.readerID = readerID
	return &book.CirculationResult{Processed: []book.Loan{{InstanceID: instanceIDs[0], BookID: 10, Title: "Dune"}}}, nil
}

func (c *stubCirculation) BorrowedBy(ctx context.Context, libraryID, readerID uint) ([]book.Loan, error) {
	return []book.Loan{{InstanceID: 100, BookID: 10, Title: "Dune", DueDate: c.due}}, nil
}

type stubKiosks struct{}

func (stubKiosks) AuthenticateKiosk(ctx context.Context, kioskID uint, secret string) (*library.Kiosk, error) {
	if kioskID != 3 {
		return nil, library.ErrKioskNotFound
	}
	if secret != "s3cret" {
		return nil, library.ErrInvalidKioskSecret
	}
	return &library.Kiosk{ID: 3, LibraryID: 1, Enabled: true}, nil
}

func newTestService() (*Service, *stubCirculation, *jwt.Manager) {
	circ := &stubCirculation{due: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	tokens := jwt.NewManager("test-secret", 15*time.Minute, time.Hour)
	return NewService(stubReaders{}, circ, stubKiosks{}, tokens), circ, tokens
}

func TestService_Login(t *testing.T) {
	svc, _, tokens := newTestService()

	resp, err := svc.Login(context.Background(), LoginRequest{KioskID: 3, Secret: "s3cret", EAN: "2000000000053"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.LibraryID)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.Equal(t, uint(5), resp.Reader.ID)

	claims, err := tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, jwt.RoleReader, claims.Role)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, uint(1), claims.LibraryID)
}

func TestService_Login_Rejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Login(context.Background(), LoginRequest{KioskID: 3, Secret: "wrong", EAN: "2000000000053"})
	assert.ErrorIs(t, err, library.ErrInvalidKioskSecret)

	_, err = svc.Login(context.Background(), LoginRequest{KioskID: 3, Secret: "s3cret", EAN: "2000000000060"})
	assert.ErrorIs(t, err, reader.ErrReaderNotFound)
}

func TestService_Checkout(t *testing.T) {
	svc, circ, _ := newTestService()

	info, err := svc.Checkout(context.Background(), 1, "2000000000053", []uint{100, 101})
	require.NoError(t, err)
	assert.Equal(t, uint(5), circ.readerID)
	require.Len(t, info.Processed, 1)
	assert.Equal(t, "2024-03-15", info.Processed[0].DueDate)
	assert.Equal(t, []uint{101}, info.Skipped)

	_, err = svc.Checkout(context.Background(), 2, "2000000000053", []uint{100})
	assert.ErrorIs(t, err, reader.ErrReaderNotFound)
}

func TestService_RequestReturn(t *testing.T) {
	svc, circ, _ := newTestService()

	info, err := svc.RequestReturn(context.Background(), 1, "2000000000053", []uint{100})
	require.NoError(t, err)
	assert.Equal(t, uint(5), circ.readerID)
	require.Len(t, info.Processed, 1)
	assert.Empty(t, info.Processed[0].DueDate)
	assert.NotNil(t, info.Skipped)
}

func TestService_MyLoans(t *testing.T) {
	svc, _, _ := newTestService()

	loans, err := svc.MyLoans(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "Dune", loans[0].Title)

	_, err = svc.MyLoans(context.Background(), 1, 6)
	assert.ErrorIs(t, err, reader.ErrReaderNotFound)
}
