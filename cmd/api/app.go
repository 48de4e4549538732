package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/xiebiao/libraryhub/internal/application/classification"
	"github.com/xiebiao/libraryhub/internal/application/importer"
	"github.com/xiebiao/libraryhub/internal/application/notification"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/internal/infrastructure/queue"
	"github.com/xiebiao/libraryhub/internal/interface/rpc"
	"github.com/xiebiao/libraryhub/pkg/mq"
)

const shutdownTimeout = 10 * time.Second

// App 一个进程内运行的所有组件
type App struct {
	Config         *config.Config
	Engine         *gin.Engine
	Health         *rpc.HealthServer
	Processor      *importer.Processor
	Worker         *importer.Worker
	Queue          *queue.RedisJobQueue
	Email          *notification.EmailHandler
	Classification *classification.Handler
}

// Run 启动HTTP服务、gRPC健康检查、导入队列消费、导入轮询和消息消费，任一组件出错或ctx取消时全部退出
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Engine,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	var grpcLis net.Listener
	if port := a.Config.Server.GRPCPort; port > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return fmt.Errorf("grpc listen: %w", err)
		}
		grpcLis = lis
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if grpcLis != nil {
		g.Go(func() error {
			return a.Health.Serve(gctx, grpcLis)
		})
	}

	g.Go(func() error {
		return a.Queue.Run(gctx, a.Config.Queue.Concurrency, a.Processor.HandleJob)
	})
	g.Go(func() error {
		return a.Worker.Run(gctx)
	})

	g.Go(func() error {
		return a.consume(gctx, a.Config.RabbitMQ.EmailQueue, notification.RoutingKeyEmail, a.Email.Handle)
	})
	g.Go(func() error {
		return a.consume(gctx, a.Config.RabbitMQ.ClassificationQueue, notification.RoutingKeyClassifyAge, a.Classification.Handle)
	})

	return g.Wait()
}

func (a *App) consume(ctx context.Context, queueName, routingKey string, handler mq.Handler) error {
	consumer, err := mq.NewConsumer(a.Config.RabbitMQ.URL, a.Config.RabbitMQ.Exchange, "topic", queueName, []string{routingKey})
	if err != nil {
		return fmt.Errorf("consumer %s: %w", queueName, err)
	}
	defer consumer.Close()

	if err := consumer.Consume(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("consumer %s: %w", queueName, err)
	}
	return nil
}
