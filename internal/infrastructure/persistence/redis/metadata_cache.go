package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// MetadataCache ISBN元数据的旁路缓存
// 外部ISBN服务按调用计费且有限流，同一ISBN在多个图书馆导入时只查询一次
type MetadataCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMetadataCache(client *redis.Client, ttl time.Duration) *MetadataCache {
	return &MetadataCache{client: client, ttl: ttl}
}

func metadataKey(isbn string) string {
	return fmt.Sprintf("isbn:meta:%s", isbn)
}

// Get 未命中时返回nil, nil
func (c *MetadataCache) Get(ctx context.Context, isbn string) (*book.Metadata, error) {
	val, err := c.client.Get(ctx, metadataKey(isbn)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("获取缓存失败: %w", err)
	}

	var meta book.Metadata
	if err := json.Unmarshal(val, &meta); err != nil {
		return nil, fmt.Errorf("反序列化失败: %w", err)
	}
	return &meta, nil
}

func (c *MetadataCache) Set(ctx context.Context, meta *book.Metadata) error {
	val, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("序列化失败: %w", err)
	}
	if err := c.client.Set(ctx, metadataKey(meta.ISBN), val, c.ttl).Err(); err != nil {
		return fmt.Errorf("设置缓存失败: %w", err)
	}
	return nil
}
