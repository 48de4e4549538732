package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xiebiao/libraryhub/internal/application/importer"
	appuser "github.com/xiebiao/libraryhub/internal/application/user"
	"github.com/xiebiao/libraryhub/internal/domain/audit"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/user"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/internal/interface/http/router"
	"github.com/xiebiao/libraryhub/internal/interface/rpc"
	"github.com/xiebiao/libraryhub/pkg/jwt"
	"github.com/xiebiao/libraryhub/pkg/mq"
)

// ISBN元数据很少变化
const isbnCacheTTL = 30 * 24 * time.Hour

// 以下Provider需要从Config中提取参数，Wire无法自动推断

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	m := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	m.SetReaderTokenExpire(cfg.JWT.ReaderTokenExpire)
	return m
}

// provideLoginUseCase 会话有效期与Refresh Token一致
func provideLoginUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore *redis.SessionStore, cfg *config.Config) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire)
}

func provideMQPublisher(cfg *config.Config) (*mq.Publisher, func(), error) {
	p, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, "topic")
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

func provideJobQueue(client *goredis.Client, cfg *config.Config) (*queue.RedisJobQueue, error) {
	return queue.NewRedisJobQueue(client, queue.Config{
		Stream:     cfg.Queue.Stream,
		Group:      cfg.Queue.Group,
		MaxRetries: cfg.Queue.MaxRetries,
		Block:      cfg.Queue.BlockTimeout,
		ClaimIdle:  cfg.Queue.ClaimIdle,
	})
}

func provideImportLock(client *goredis.Client, cfg *config.Config) *redis.ImportLock {
	return redis.NewImportLock(client, cfg.Import.LockTTL)
}

func provideMetadataCache(client *goredis.Client) *redis.MetadataCache {
	return redis.NewMetadataCache(client, isbnCacheTTL)
}

func provideUploadUseCase(
	imports importjob.Repository,
	store importer.BlobStore,
	jobs importer.JobEnqueuer,
	limits importer.LimitValidator,
	auditRepo audit.Repository,
	cfg *config.Config,
) *importer.UploadUseCase {
	return importer.NewUploadUseCase(imports, store, jobs, limits, auditRepo, cfg.Import.ChunkSize, cfg.Import.MaxFileSize)
}

func provideImportWorker(imports importjob.Repository, processor *importer.Processor, cfg *config.Config) *importer.Worker {
	return importer.NewWorker(imports, processor, cfg.Import.PollInterval)
}

func provideGinEngine(cfg *config.Config, handlers router.Handlers, auth *middleware.AuthMiddleware, access *middleware.LibraryAccess) *gin.Engine {
	return router.New(cfg.Server.Mode, handlers, auth, access)
}

// provideHealthServer 探活数据库和Redis
func provideHealthServer(db *gorm.DB, client *goredis.Client, cfg *config.Config) (*rpc.HealthServer, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return rpc.NewHealthServer(cfg.Server.HealthProbing, map[string]rpc.Probe{
		"database": sqlDB.PingContext,
		"redis": func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}), nil
}
