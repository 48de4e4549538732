// Package isbn ISBNdb风格的书目查询客户端
//
// 单本查询 GET {base}/book/{isbn}，批量查询 POST {base}/books（表单isbns=a,b,c）。
// 所有请求经过熔断器；命中Redis缓存的ISBN不再请求外部服务。
package isbn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/pkg/circuitbreaker"
)

// ErrNotFound 外部服务没有该ISBN
var ErrNotFound = errors.New("isbn not found")

// MetadataCache 元数据缓存，未命中返回nil, nil
type MetadataCache interface {
	Get(ctx context.Context, isbn string) (*book.Metadata, error)
	Set(ctx context.Context, meta *book.Metadata) error
}

// Client ISBN查询客户端
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	cache      MetadataCache
}

// NewClient cache可以为nil
func NewClient(cfg *config.Config, cache MetadataCache) *Client {
	timeout := cfg.ISBN.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	threshold := cfg.ISBN.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	breaker := circuitbreaker.NewCircuitBreaker("isbn-provider", circuitbreaker.Config{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.ISBN.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.ISBN.BaseURL, "/"),
		apiKey:     cfg.ISBN.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		cache:      cache,
	}
}

// Lookup 查询单本，不存在时返回ErrNotFound
func (c *Client) Lookup(ctx context.Context, isbn string) (*book.Metadata, error) {
	if meta := c.cached(ctx, isbn); meta != nil {
		return meta, nil
	}

	var resp singleResponse
	found := true
	err := c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/book/"+url.PathEscape(isbn), nil)
		if err != nil {
			return err
		}
		ok, err := c.do(req, &resp)
		found = ok
		return err
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}

	meta := resp.Book.toMetadata()
	if meta.ISBN == "" {
		meta.ISBN = isbn
	}
	c.store(ctx, &meta)
	return &meta, nil
}

// LookupBatch 批量查询，返回找到的书目；未返回的ISBN由调用方视为失败
// 请求失败（包括熔断打开）时返回错误
func (c *Client) LookupBatch(ctx context.Context, isbns []string) ([]book.Metadata, error) {
	results := make([]book.Metadata, 0, len(isbns))
	missing := make([]string, 0, len(isbns))
	for _, isbn := range isbns {
		if meta := c.cached(ctx, isbn); meta != nil {
			results = append(results, *meta)
			continue
		}
		missing = append(missing, isbn)
	}
	if len(missing) == 0 {
		return results, nil
	}

	var resp batchResponse
	err := c.breaker.Execute(func() error {
		form := url.Values{"isbns": {strings.Join(missing, ",")}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/books", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		// 全部未找到时返回404，不算失败
		_, err = c.do(req, &resp)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, b := range resp.Data {
		meta := b.toMetadata()
		if meta.ISBN == "" {
			continue
		}
		c.store(ctx, &meta)
		results = append(results, meta)
	}
	return results, nil
}

// do 404返回false且不报错
func (c *Client) do(req *http.Request, out any) (bool, error) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("isbn request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("isbn api error: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("isbn decode: %w", err)
	}
	return true, nil
}

func (c *Client) cached(ctx context.Context, isbn string) *book.Metadata {
	if c.cache == nil {
		return nil
	}
	meta, err := c.cache.Get(ctx, isbn)
	if err != nil {
		slog.WarnContext(ctx, "isbn cache get failed", "isbn", isbn, "err", err)
		return nil
	}
	return meta
}

func (c *Client) store(ctx context.Context, meta *book.Metadata) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, meta); err != nil {
		slog.WarnContext(ctx, "isbn cache set failed", "isbn", meta.ISBN, "err", err)
	}
}

type singleResponse struct {
	Book bookRecord `json:"book"`
}

type batchResponse struct {
	Total     int          `json:"total"`
	Requested int          `json:"requested"`
	Data      []bookRecord `json:"data"`
}

type bookRecord struct {
	Title         string   `json:"title"`
	TitleLong     string   `json:"title_long"`
	ISBN          string   `json:"isbn"`
	ISBN13        string   `json:"isbn13"`
	Publisher     string   `json:"publisher"`
	Language      string   `json:"language"`
	DatePublished string   `json:"date_published"`
	Pages         int      `json:"pages"`
	Synopsis      string   `json:"synopsis"`
	Overview      string   `json:"overview"`
	Image         string   `json:"image"`
	Authors       []string `json:"authors"`
	Subjects      []string `json:"subjects"`
}

// toMetadata ISBN统一规范化为ISBN-13，缺少书名时用ISBN代替
func (r bookRecord) toMetadata() book.Metadata {
	isbn := ""
	for _, candidate := range []string{r.ISBN13, r.ISBN} {
		if normalized, err := book.NormalizeISBN(candidate); err == nil {
			isbn = normalized
			break
		}
	}

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = strings.TrimSpace(r.TitleLong)
	}
	if title == "" {
		title = isbn
	}
	description := r.Synopsis
	if description == "" {
		description = r.Overview
	}

	return book.Metadata{
		ISBN:          isbn,
		Title:         title,
		Publisher:     strings.TrimSpace(r.Publisher),
		PublishedYear: parseYear(r.DatePublished),
		Language:      r.Language,
		PageCount:     r.Pages,
		Description:   strings.TrimSpace(description),
		CoverURL:      r.Image,
		Authors:       book.CleanNames(r.Authors),
		Categories:    book.CleanNames(r.Subjects),
	}
}

// parseYear 支持"2008"、"2008-05-01"等格式
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}
