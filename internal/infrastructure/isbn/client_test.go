package isbn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/pkg/circuitbreaker"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string]book.Metadata
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]book.Metadata)}
}

func (m *memoryCache) Get(ctx context.Context, isbn string) (*book.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if meta, ok := m.items[isbn]; ok {
		return &meta, nil
	}
	return nil, nil
}

func (m *memoryCache) Set(ctx context.Context, meta *book.Metadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[meta.ISBN] = *meta
	return nil
}

func newTestClient(baseURL string, cache MetadataCache) *Client {
	return NewClient(&config.Config{ISBN: config.ISBNConfig{
		BaseURL:          baseURL,
		APIKey:           "key-123",
		Timeout:          time.Second,
		FailureThreshold: 2,
		BreakerTimeout:   time.Minute,
	}}, cache)
}

func TestClient_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/book/9780134190440":
			_, _ = w.Write([]byte(`{"book":{"title":"The Go Programming Language","isbn13":"9780134190440",
				"publisher":"Addison-Wesley","date_published":"2015-10-26","pages":380,
				"authors":["Alan Donovan"," Brian Kernighan ",""],"subjects":["Go"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, nil)

	meta, err := client.Lookup(context.Background(), "9780134190440")
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", meta.Title)
	assert.Equal(t, 2015, meta.PublishedYear)
	assert.Equal(t, []string{"Alan Donovan", "Brian Kernighan"}, meta.Authors)
	assert.Equal(t, []string{"Go"}, meta.Categories)

	_, err = client.Lookup(context.Background(), "9780000000002")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_LookupBatch(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/books", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "9780134190440,0306406152", r.PostForm.Get("isbns"))

		_, _ = w.Write([]byte(`{"total":1,"requested":2,"data":[
			{"title":"","isbn":"0306406152","date_published":"1999"}
		]}`))
	}))
	defer srv.Close()

	cache := newMemoryCache()
	cache.items["9781492052593"] = book.Metadata{ISBN: "9781492052593", Title: "Cached"}
	client := newTestClient(srv.URL, cache)

	results, err := client.LookupBatch(context.Background(), []string{"9781492052593", "9780134190440", "0306406152"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Cached", results[0].Title)

	// ISBN-10转为ISBN-13，缺少书名时使用ISBN
	assert.Equal(t, "9780306406157", results[1].ISBN)
	assert.Equal(t, "9780306406157", results[1].Title)
	assert.Equal(t, 1999, results[1].PublishedYear)

	_, ok := cache.items["9780306406157"]
	assert.True(t, ok, "查询结果应写入缓存")
	assert.Equal(t, 1, requests)
}

func TestClient_LookupBatch_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	results, err := newTestClient(srv.URL, nil).LookupBatch(context.Background(), []string{"9780134190440"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_BreakerOpensOnServerErrors(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, nil)
	for i := 0; i < 2; i++ {
		_, err := client.LookupBatch(context.Background(), []string{"9780134190440"})
		require.Error(t, err)
	}

	_, err := client.LookupBatch(context.Background(), []string{"9780134190440"})
	assert.ErrorIs(t, err, circuitbreaker.ErrOpenState)
	assert.Equal(t, 2, requests)
}

func TestParseYear(t *testing.T) {
	assert.Equal(t, 2008, parseYear("2008-05-01"))
	assert.Equal(t, 1999, parseYear("1999"))
	assert.Equal(t, 0, parseYear("n/a"))
	assert.Equal(t, 0, parseYear(""))
}
