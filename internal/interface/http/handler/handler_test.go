package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/application/importer"
	"github.com/xiebiao/libraryhub/internal/application/kiosk"
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
	"github.com/xiebiao/libraryhub/pkg/jwt"
	"github.com/xiebiao/libraryhub/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// asLibrarian 模拟认证与管理员中间件写入的身份
func asLibrarian(userID, libraryID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("library_id", libraryID)
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) (response.Response, map[string]any) {
	var buf io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

// ========================================
// LibraryHandler
// ========================================

type stubLibraryService struct {
	library.Service
	libs          []*library.Library
	kioskEnabled  map[uint]bool
	removedAdmins []uint
}

func (s *stubLibraryService) ListForUser(ctx context.Context, userID uint) ([]*library.Library, error) {
	return s.libs, nil
}

func (s *stubLibraryService) CreateKiosk(ctx context.Context, libraryID uint, name string) (*library.Kiosk, string, error) {
	return &library.Kiosk{ID: 5, LibraryID: libraryID, Name: name, Enabled: true, CreatedAt: time.Now()}, "s3cret", nil
}

func (s *stubLibraryService) SetKioskEnabled(ctx context.Context, libraryID, kioskID uint, enabled bool) error {
	if s.kioskEnabled == nil {
		s.kioskEnabled = map[uint]bool{}
	}
	s.kioskEnabled[kioskID] = enabled
	return nil
}

func (s *stubLibraryService) RemoveAdministrator(ctx context.Context, libraryID, userID uint) error {
	if userID == 7 {
		return library.ErrLastAdministrator
	}
	s.removedAdmins = append(s.removedAdmins, userID)
	return nil
}

func newLibraryRouter(svc library.Service) *gin.Engine {
	h := NewLibraryHandler(nil, nil, svc, nil, nil)
	r := gin.New()
	g := r.Group("/libraries/:libraryID", asLibrarian(7, 1))
	g.POST("/kiosks", h.CreateKiosk)
	g.PUT("/kiosks/:kioskID/enabled", h.SetKioskEnabled)
	g.DELETE("/administrators/:userID", h.RemoveAdministrator)
	r.GET("/libraries", asLibrarian(7, 0), h.ListMine)
	return r
}

func TestLibraryHandler_ListMine(t *testing.T) {
	lib := library.NewLibrary("朝阳社区图书馆", "chaoyang", 7, 0)
	lib.ID = 1
	r := newLibraryRouter(&stubLibraryService{libs: []*library.Library{lib}})

	resp, _ := doJSON(r, http.MethodGet, "/libraries", nil)
	require.Equal(t, 0, resp.Code)
	list, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "chaoyang", list[0].(map[string]any)["alias"])
}

func TestLibraryHandler_CreateKiosk_ReturnsSecretOnce(t *testing.T) {
	r := newLibraryRouter(&stubLibraryService{})

	resp, data := doJSON(r, http.MethodPost, "/libraries/1/kiosks", map[string]any{"name": "一楼大厅"})
	require.Equal(t, 0, resp.Code)
	assert.Equal(t, "s3cret", data["secret"])
	assert.Equal(t, float64(1), data["library_id"])

	resp, _ = doJSON(r, http.MethodPost, "/libraries/1/kiosks", map[string]any{})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)
}

func TestLibraryHandler_SetKioskEnabled(t *testing.T) {
	svc := &stubLibraryService{}
	r := newLibraryRouter(svc)

	resp, _ := doJSON(r, http.MethodPut, "/libraries/1/kiosks/5/enabled", map[string]any{"enabled": false})
	require.Equal(t, 0, resp.Code)
	enabled, ok := svc.kioskEnabled[5]
	require.True(t, ok)
	assert.False(t, enabled)

	// enabled缺失时不能默认为false
	resp, _ = doJSON(r, http.MethodPut, "/libraries/1/kiosks/5/enabled", map[string]any{})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)

	resp, _ = doJSON(r, http.MethodPut, "/libraries/1/kiosks/x/enabled", map[string]any{"enabled": true})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)
}

func TestLibraryHandler_RemoveAdministrator(t *testing.T) {
	svc := &stubLibraryService{}
	r := newLibraryRouter(svc)

	resp, _ := doJSON(r, http.MethodDelete, "/libraries/1/administrators/8", nil)
	require.Equal(t, 0, resp.Code)
	assert.Equal(t, []uint{8}, svc.removedAdmins)

	resp, _ = doJSON(r, http.MethodDelete, "/libraries/1/administrators/7", nil)
	assert.Equal(t, library.ErrLastAdministrator.Code, resp.Code)
}

// ========================================
// ImportHandler
// ========================================

type stubImports struct {
	importjob.Repository
	items map[uint]*importjob.ImportHistory
}

func (s *stubImports) FindByID(ctx context.Context, id uint) (*importjob.ImportHistory, error) {
	h, ok := s.items[id]
	if !ok {
		return nil, importjob.ErrImportNotFound
	}
	return h, nil
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportHandler(t *testing.T) {
	h1 := importjob.NewImportHistory(1, 7, "books.csv", "imports/1/a.csv", 3, 10)
	h1.ID = 11
	h2 := importjob.NewImportHistory(2, 9, "other.csv", "imports/2/b.csv", 3, 10)
	h2.ID = 12
	imports := &stubImports{items: map[uint]*importjob.ImportHistory{11: h1, 12: h2}}

	// 空文件在访问存储和队列之前就被拒绝
	upload := importer.NewUploadUseCase(nil, nil, nil, nil, nil, 10, 1<<20)
	h := NewImportHandler(upload, importer.NewQueryUseCase(imports))

	r := gin.New()
	g := r.Group("/libraries/:libraryID", asLibrarian(7, 1))
	g.POST("/imports", h.Upload)
	g.GET("/imports/:importID", h.Get)

	t.Run("进度查询", func(t *testing.T) {
		resp, data := doJSON(r, http.MethodGet, "/libraries/1/imports/11", nil)
		require.Equal(t, 0, resp.Code)
		assert.Equal(t, "books.csv", data["file_name"])
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("其他图书馆的任务不可见", func(t *testing.T) {
		resp, _ := doJSON(r, http.MethodGet, "/libraries/1/imports/12", nil)
		assert.Equal(t, apperrors.ErrCodeImportNotFound, resp.Code)
	})

	t.Run("缺少文件", func(t *testing.T) {
		resp, _ := doJSON(r, http.MethodPost, "/libraries/1/imports", nil)
		assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)
	})

	t.Run("没有有效ISBN", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "books.csv", "isbn\nnot-an-isbn\n")
		req := httptest.NewRequest(http.MethodPost, "/libraries/1/imports", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		var resp response.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, apperrors.ErrCodeInvalidFile, resp.Code)
	})
}

// ========================================
// KioskHandler
// ========================================

type stubReaders struct {
	member *reader.Reader
	lib    uint
}

func (s *stubReaders) FindByEAN(ctx context.Context, libraryID uint, ean string) (*reader.Reader, error) {
	if libraryID != s.lib || ean != s.member.EAN {
		return nil, reader.ErrReaderNotFound
	}
	return s.member, nil
}

func (s *stubReaders) FindMember(ctx context.Context, libraryID, readerID uint) (*reader.Reader, error) {
	if libraryID != s.lib || readerID != s.member.ID {
		return nil, reader.ErrReaderNotFound
	}
	return s.member, nil
}

type stubCirculation struct {
	checkedOut []uint
}

func (s *stubCirculation) CheckoutBooks(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error) {
	s.checkedOut = append(s.checkedOut, instanceIDs...)
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return &book.CirculationResult{
		Processed: []book.Loan{{InstanceID: instanceIDs[0], BookID: 1, Title: "Go语言实战", DueDate: due}},
		Skipped:   instanceIDs[1:],
	}, nil
}

func (s *stubCirculation) ReturnBooksForReader(ctx context.Context, readerID uint, instanceIDs []uint, libraryID uint) (*book.CirculationResult, error) {
	return &book.CirculationResult{}, nil
}

func (s *stubCirculation) BorrowedBy(ctx context.Context, libraryID, readerID uint) ([]book.Loan, error) {
	return []book.Loan{{InstanceID: 100, BookID: 1, Title: "Go语言实战", DueDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}}, nil
}

type stubKiosks struct{}

func (stubKiosks) AuthenticateKiosk(ctx context.Context, kioskID uint, secret string) (*library.Kiosk, error) {
	if kioskID != 1 || secret != "s3cret" {
		return nil, library.ErrInvalidKioskSecret
	}
	return &library.Kiosk{ID: 1, LibraryID: 1, Enabled: true}, nil
}

func newKioskRouter(circ *stubCirculation) *gin.Engine {
	member := &reader.Reader{ID: 3, FirstName: "小明", LastName: "李", EAN: "2000000000053"}
	svc := kiosk.NewService(&stubReaders{member: member, lib: 1}, circ, stubKiosks{}, jwt.NewManager("test-secret", 15*time.Minute, time.Hour))
	h := NewKioskHandler(svc, nil)

	r := gin.New()
	r.POST("/kiosk/login", h.Login)
	r.POST("/libraries/:libraryID/kiosk/checkout", asLibrarian(7, 1), h.KioskCheckout)
	mobile := r.Group("/mobile", asLibrarian(3, 1))
	mobile.POST("/checkouts", h.Checkout)
	mobile.GET("/loans", h.Loans)
	return r
}

func TestKioskHandler_Login(t *testing.T) {
	r := newKioskRouter(&stubCirculation{})

	resp, data := doJSON(r, http.MethodPost, "/kiosk/login", map[string]any{
		"kiosk_id": 1, "secret": "s3cret", "ean": "2000000000053",
	})
	require.Equal(t, 0, resp.Code)
	assert.NotEmpty(t, data["access_token"])
	assert.Equal(t, float64(900), data["expires_in"])
	assert.Equal(t, float64(1), data["library_id"])

	resp, _ = doJSON(r, http.MethodPost, "/kiosk/login", map[string]any{
		"kiosk_id": 1, "secret": "wrong", "ean": "2000000000053",
	})
	assert.Equal(t, library.ErrInvalidKioskSecret.Code, resp.Code)

	resp, _ = doJSON(r, http.MethodPost, "/kiosk/login", map[string]any{
		"kiosk_id": 1, "secret": "s3cret", "ean": "123",
	})
	assert.Equal(t, apperrors.ErrCodeInvalidParams, resp.Code)
}

func TestKioskHandler_Circulation(t *testing.T) {
	circ := &stubCirculation{}
	r := newKioskRouter(circ)

	resp, data := doJSON(r, http.MethodPost, "/mobile/checkouts", map[string]any{"instance_ids": []uint{100, 101}})
	require.Equal(t, 0, resp.Code)
	assert.Equal(t, []uint{100, 101}, circ.checkedOut)
	assert.Len(t, data["processed"], 1)
	assert.Equal(t, []any{float64(101)}, data["skipped"])

	resp, _ = doJSON(r, http.MethodPost, "/libraries/1/kiosk/checkout", map[string]any{
		"ean": "2000000000060", "instance_ids": []uint{100},
	})
	assert.Equal(t, apperrors.ErrCodeReaderNotFound, resp.Code)

	resp, _ = doJSON(r, http.MethodGet, "/mobile/loans", nil)
	require.Equal(t, 0, resp.Code)
	loans, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, loans, 1)
	assert.Equal(t, "2024-02-01", loans[0].(map[string]any)["due_date"])
}
