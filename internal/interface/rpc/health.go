package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sort"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中整体服务的名称，依赖项注册为 ServiceName.<依赖名>
const ServiceName = "libraryhub"

const probeTimeout = 3 * time.Second

// Probe 单个依赖的探活函数，返回nil表示可用
type Probe func(ctx context.Context) error

// HealthServer 基于gRPC健康检查协议的探活服务
// 供负载均衡器和容器编排使用（grpc_health_probe / grpcurl）
type HealthServer struct {
	server   *grpc.Server
	health   *health.Server
	probes   map[string]Probe
	names    []string
	interval time.Duration
}

// NewHealthServer 创建健康检查服务
func NewHealthServer(interval time.Duration, probes map[string]Probe) *HealthServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	// 注册反射服务（用于grpcurl调试）
	reflection.Register(srv)

	names := make([]string, 0, len(probes))
	for name := range probes {
		names = append(names, name)
	}
	sort.Strings(names)

	// 首轮探活完成前一律视为不可用
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthServer{
		server:   srv,
		health:   hs,
		probes:   probes,
		names:    names,
		interval: interval,
	}
}

// Check 执行一轮探活并刷新状态
// 任一依赖不可用时整体服务为NOT_SERVING
func (s *HealthServer) Check(ctx context.Context) {
	overall := healthpb.HealthCheckResponse_SERVING
	for _, name := range s.names {
		status := healthpb.HealthCheckResponse_SERVING

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := s.probes[name](probeCtx)
		cancel()

		if err != nil {
			slog.Warn("health probe failed", "dependency", name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
			overall = healthpb.HealthCheckResponse_NOT_SERVING
		}
		s.health.SetServingStatus(ServiceName+"."+name, status)
	}
	s.health.SetServingStatus("", overall)
	s.health.SetServingStatus(ServiceName, overall)
}

// Serve 在lis上提供服务并周期性探活，阻塞到ctx取消
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.Check(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Check(ctx)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		// 先通知客户端下线，再等待进行中的调用结束
		s.health.Shutdown()
		s.server.GracefulStop()
	}()

	slog.Info("grpc health server listening", "addr", lis.Addr().String())
	if err := s.server.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
