package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/libraryhub/pkg/errors"
)

// 只有持有者才能释放或续期
var (
	unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// ImportLock 保证同一导入任务同一时刻只有一个进程处理
// 键 import:lock:{id}，值为随机token，进程崩溃后按TTL自动释放
type ImportLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewImportLock(client *redis.Client, ttl time.Duration) *ImportLock {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ImportLock{client: client, ttl: ttl}
}

func importLockKey(importID uint) string {
	return fmt.Sprintf("import:lock:%d", importID)
}

// TryLock 获取成功时返回释放用的token，已被占用时ok=false
func (l *ImportLock) TryLock(ctx context.Context, importID uint) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, importLockKey(importID), token, l.ttl).Result()
	if err != nil {
		return "", false, apperrors.Wrap(err, "获取导入锁失败")
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Refresh 处理每个分块后续期，返回false表示锁已丢失
func (l *ImportLock) Refresh(ctx context.Context, importID uint, token string) (bool, error) {
	n, err := refreshScript.Run(ctx, l.client, []string{importLockKey(importID)}, token, l.ttl.Milliseconds()).Int()
	if err != nil {
		return false, apperrors.Wrap(err, "续期导入锁失败")
	}
	return n == 1, nil
}

// Unlock 只删除自己持有的锁
func (l *ImportLock) Unlock(ctx context.Context, importID uint, token string) error {
	if err := unlockScript.Run(ctx, l.client, []string{importLockKey(importID)}, token).Err(); err != nil {
		return apperrors.Wrap(err, "释放导入锁失败")
	}
	return nil
}
