// @title           LibraryHub API
// @version         1.0
// @description     多租户图书馆管理服务：馆藏、读者、借还、批量导入与订阅
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     Bearer <access_token>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/xiebiao/libraryhub/docs"
	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
	"github.com/xiebiao/libraryhub/internal/infrastructure/persistence/gormrepo"
	"github.com/xiebiao/libraryhub/pkg/logger"
	"github.com/xiebiao/libraryhub/pkg/tracing"
)

var configFile string

func main() {
	root := &cobra.Command{
		Use:           "libraryhub",
		Short:         "多租户图书馆管理服务",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动HTTP服务与后台任务",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "创建或补齐数据库表",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrate()
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}

	_, closeLog, err := logger.Init(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, func() { _ = closeLog() }, nil
}

func serve() error {
	cfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracer, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
	if err != nil {
		return fmt.Errorf("初始化链路追踪失败: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(ctx); err != nil {
			slog.Warn("shutdown tracer failed", "err", err)
		}
	}()

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("初始化应用失败: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("libraryhub starting", "port", cfg.Server.Port, "mode", cfg.Server.Mode, "db", cfg.Database.Driver)
	if err := app.Run(ctx); err != nil {
		return err
	}
	slog.Info("libraryhub stopped")
	return nil
}

func migrate() error {
	cfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	// NewDB连接后自动迁移
	db, err := gormrepo.NewDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("database migrated", "driver", cfg.Database.Driver, "dbname", cfg.Database.DBName)
	return nil
}
