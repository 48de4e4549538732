//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助函数
// 需要先启动完整环境（MySQL、Redis、RabbitMQ、MinIO）和 libraryhub serve
//
// 运行方式：
//   go test -tags integration -v ./test/integration/...
//   LIBRARYHUB_BASE_URL=http://host:8080/api/v1 go test -tags integration ./test/integration/...

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL API基础URL
var BaseURL = func() string {
	if u := os.Getenv("LIBRARYHUB_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080/api/v1"
}()

var seq atomic.Int64

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LibraryData 图书馆响应数据
type LibraryData struct {
	ID                   uint   `json:"id"`
	Alias                string `json:"alias"`
	CheckoutDurationDays int    `json:"checkout_duration_days"`
}

// InstanceData 副本响应数据
type InstanceData struct {
	ID       uint   `json:"id"`
	Status   string `json:"status"`
	ReaderID *uint  `json:"reader_id"`
	DueDate  string `json:"due_date"`
}

// BookData 图书详情响应数据
type BookData struct {
	ID        uint           `json:"id"`
	ISBN      string         `json:"isbn"`
	Title     string         `json:"title"`
	Copies    int            `json:"copies"`
	Available int            `json:"available"`
	Instances []InstanceData `json:"instances"`
}

// ReaderData 读者响应数据
type ReaderData struct {
	ID  uint   `json:"id"`
	EAN string `json:"ean"`
}

// LoanData 借阅条目
type LoanData struct {
	InstanceID uint   `json:"instance_id"`
	BookID     uint   `json:"book_id"`
	DueDate    string `json:"due_date"`
}

// CirculationData 借还结果
type CirculationData struct {
	Processed []LoanData `json:"processed"`
	Skipped   []uint     `json:"skipped"`
}

// PageData 分页响应
type PageData struct {
	List  json.RawMessage `json:"list"`
	Total int64           `json:"total"`
}

// DoJSON 发送请求并解析统一响应
// 业务错误同样返回HTTP 200，调用方检查Code
func DoJSON(t *testing.T, method, url string, data any, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data any, token string) *Response {
	return DoJSON(t, http.MethodPost, url, data, token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string, token string) *Response {
	return DoJSON(t, http.MethodGet, url, nil, token)
}

// Decode 断言成功并解析data
func Decode(t *testing.T, resp *Response, out any) {
	t.Helper()
	require.Equal(t, 0, resp.Code, "请求失败: %s", resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, out), "解析响应数据失败")
}

// unique 时间戳加进程内序号，避免重复运行时冲突
func unique() string {
	return fmt.Sprintf("%d%03d", time.Now().Unix(), seq.Add(1)%1000)
}

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%s@test.com", prefix, unique())
}

// GenerateTestISBN 生成带正确校验位的ISBN-13
func GenerateTestISBN() string {
	body := fmt.Sprintf("978%09d", time.Now().UnixNano()%1000000000)
	sum := 0
	for i, r := range body {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return fmt.Sprintf("%s%d", body, (10-sum%10)%10)
}

// RegisterLibrarian 注册馆员并登录，返回Access Token
func RegisterLibrarian(t *testing.T, nickname string) (email string, token string) {
	t.Helper()

	email = GenerateTestEmail(nickname)
	registerResp := PostJSON(t, BaseURL+"/users/register", map[string]string{
		"email":    email,
		"password": "Passw0rd1",
		"nickname": nickname,
	}, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	loginResp := PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": "Passw0rd1",
	}, "")
	var login LoginData
	Decode(t, loginResp, &login)
	return email, login.AccessToken
}

// CreateTestLibrary 创建图书馆
func CreateTestLibrary(t *testing.T, token string, checkoutDays int) LibraryData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/libraries", map[string]any{
		"name":          "集成测试图书馆",
		"alias":         "it" + unique(),
		"checkout_days": checkoutDays,
	}, token)
	var lib LibraryData
	Decode(t, resp, &lib)
	return lib
}

// LibraryURL 图书馆作用域下的地址
func LibraryURL(libraryID uint, path string) string {
	return fmt.Sprintf("%s/libraries/%d%s", BaseURL, libraryID, path)
}

// AddTestBook 录入图书并返回详情（含副本）
func AddTestBook(t *testing.T, token string, libraryID uint, copies int) BookData {
	t.Helper()

	resp := PostJSON(t, LibraryURL(libraryID, "/books"), map[string]any{
		"isbn":       GenerateTestISBN(),
		"title":      "集成测试图书",
		"authors":    []string{"测试作者"},
		"categories": []string{"测试"},
		"copies":     copies,
	}, token)
	var book BookData
	Decode(t, resp, &book)
	require.Len(t, book.Instances, copies)
	return book
}

// RegisterTestReader 登记读者
func RegisterTestReader(t *testing.T, token string, libraryID uint) ReaderData {
	t.Helper()

	resp := PostJSON(t, LibraryURL(libraryID, "/readers"), map[string]string{
		"first_name": "小明",
		"last_name":  "李",
		"email":      GenerateTestEmail("reader"),
	}, token)
	var reader ReaderData
	Decode(t, resp, &reader)
	require.Len(t, reader.EAN, 13)
	return reader
}
