//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/libraryhub/internal/application/book"
	"github.com/xiebiao/libraryhub/internal/application/classification"
	"github.com/xiebiao/libraryhub/internal/application/importer"
	"github.com/xiebiao/libraryhub/internal/application/kiosk"
	applibrary "github.com/xiebiao/libraryhub/internal/application/library"
	"github.com/xiebiao/libraryhub/internal/application/notification"
	appsub "github.com/xiebiao/libraryhub/internal/application/subscription"
	appuser "github.com/xiebiao/libraryhub/internal/application/user"
	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	"github.com/xiebiao/libraryhub/internal/domain/subscription"
	"github.com/xiebiao/libraryhub/internal/domain/user"
	"github.com/xiebiao/libraryhub/internal/infrastructure/ai"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/internal/infrastructure/email"
	"github.com/xiebiao/libraryhub/internal/infrastructure/isbn"
	"github.com/xiebiao/libraryhub/internal/infrastructure/payment"
	"github.com/xiebiao/libraryhub/internal/infrastructure/persistence/gormrepo"
	"github.com/xiebiao/libraryhub/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
	"github.com/xiebiao/libraryhub/internal/infrastructure/storage"
	"github.com/xiebiao/libraryhub/internal/interface/http/handler"
	"github.com/xiebiao/libraryhub/internal/interface/http/middleware"
	"github.com/xiebiao/libraryhub/internal/interface/http/router"
	"github.com/xiebiao/libraryhub/pkg/jwt"
	"github.com/xiebiao/libraryhub/pkg/mq"
)

// infrastructureSet 数据库、Redis、对象存储、消息队列与外部服务
var infrastructureSet = wire.NewSet(
	gormrepo.NewDB,
	redis.NewClient,
	storage.NewMinioStore,
	provideMQPublisher,
	provideJobQueue,
	provideImportLock,
	provideMetadataCache,
	isbn.NewClient,
	ai.NewOpenAICompatGenerator,
	payment.NewClient,
	email.NewSMTPSender,

	wire.Bind(new(email.Sender), new(*email.SMTPSender)),
	wire.Bind(new(isbn.MetadataCache), new(*redis.MetadataCache)),
	wire.Bind(new(notification.MessagePublisher), new(*mq.Publisher)),
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	gormrepo.NewUserRepository,
	gormrepo.NewLibraryRepository,
	gormrepo.NewKioskRepository,
	gormrepo.NewReaderRepository,
	gormrepo.NewBookRepository,
	gormrepo.NewInstanceRepository,
	gormrepo.NewSubscriptionRepository,
	gormrepo.NewUsageCounter,
	gormrepo.NewImportRepository,
	gormrepo.NewAuditRepository,
	gormrepo.NewReaderActionRepository,
	gormrepo.NewTxManager,

	wire.Bind(new(subscription.OwnershipReader), new(library.Repository)),
	wire.Bind(new(reader.LibraryFinder), new(library.Repository)),
	wire.Bind(new(book.LibraryFinder), new(library.Repository)),
	wire.Bind(new(applibrary.TxManager), new(*gormrepo.TxManager)),
	wire.Bind(new(reader.TxManager), new(*gormrepo.TxManager)),
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	subscription.NewService,
	library.NewService,
	reader.NewService,
	book.NewService,
	book.NewCirculationService,

	wire.Bind(new(library.SubscriptionGate), new(subscription.Service)),
	wire.Bind(new(reader.SubscriptionGate), new(subscription.Service)),
	wire.Bind(new(book.SubscriptionGate), new(subscription.Service)),
	wire.Bind(new(book.ReaderFinder), new(reader.Service)),
	wire.Bind(new(book.ClassificationRequester), new(*notification.Notifier)),
	wire.Bind(new(book.CheckoutNotifier), new(*notification.Notifier)),
)

// applicationSet 用例、导入任务与消息处理
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,

	applibrary.NewCreateLibraryUseCase,
	applibrary.NewAddAdministratorUseCase,

	appbook.NewAddBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewSemanticSearchUseCase,

	appsub.NewGetUsageUseCase,
	appsub.NewChangeTierUseCase,
	appsub.NewStartCheckoutUseCase,

	kiosk.NewService,

	provideUploadUseCase,
	importer.NewQueryUseCase,
	importer.NewProcessor,
	provideImportWorker,

	notification.NewNotifier,
	notification.NewEmailHandler,
	classification.NewHandler,

	wire.Bind(new(applibrary.UserFinder), new(user.Repository)),
	wire.Bind(new(importer.UserFinder), new(user.Repository)),
	wire.Bind(new(appbook.MetadataLookup), new(*isbn.Client)),
	wire.Bind(new(appbook.TextGenerator), new(*ai.OpenAICompatGenerator)),
	wire.Bind(new(classification.TextGenerator), new(*ai.OpenAICompatGenerator)),
	wire.Bind(new(classification.AgeGroupSetter), new(book.Service)),
	wire.Bind(new(appsub.PaymentGateway), new(*payment.Client)),
	wire.Bind(new(kiosk.ReaderLookup), new(reader.Service)),
	wire.Bind(new(kiosk.Circulation), new(*book.CirculationService)),
	wire.Bind(new(kiosk.KioskAuthenticator), new(library.Service)),
	wire.Bind(new(kiosk.TokenIssuer), new(*jwt.Manager)),
	wire.Bind(new(importer.BlobStore), new(*storage.MinioStore)),
	wire.Bind(new(importer.JobEnqueuer), new(*queue.RedisJobQueue)),
	wire.Bind(new(importer.LimitValidator), new(subscription.Service)),
	wire.Bind(new(importer.BatchLookup), new(*isbn.Client)),
	wire.Bind(new(importer.RecordImporter), new(book.Service)),
	wire.Bind(new(importer.Locker), new(*redis.ImportLock)),
	wire.Bind(new(importer.FinishNotifier), new(*notification.Notifier)),
)

// middlewareSet JWT与认证中间件
var middlewareSet = wire.NewSet(
	provideJWTManager,
	redis.NewSessionStore,
	middleware.NewAuthMiddleware,
	middleware.NewLibraryAccess,
)

// handlerSet HTTP处理器与路由
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewLibraryHandler,
	handler.NewBookHandler,
	handler.NewReaderHandler,
	handler.NewCirculationHandler,
	handler.NewImportHandler,
	handler.NewSubscriptionHandler,
	handler.NewKioskHandler,
	wire.Struct(new(router.Handlers), "*"),
	provideGinEngine,
	provideHealthServer,
)

// InitializeApp 组装整个应用，cleanup关闭连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
