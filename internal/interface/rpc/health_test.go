package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func okProbe(context.Context) error { return nil }

func TestHealthServer_Check(t *testing.T) {
	down := true
	s := NewHealthServer(time.Minute, map[string]Probe{
		"database": okProbe,
		"redis": func(context.Context) error {
			if down {
				return errors.New("connection refused")
			}
			return nil
		},
	})
	ctx := context.Background()

	status := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.Status
	}

	// 未探活前不可用
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(ServiceName))

	s.Check(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName+".database"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(ServiceName+".redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(""))

	down = false
	s.Check(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName+".redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(""))
}

func TestHealthServer_Serve(t *testing.T) {
	lis := bufconn.Listen(1024 * 1024)
	s := NewHealthServer(time.Minute, map[string]Probe{"database": okProbe})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, lis) }()

	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	client := healthpb.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
		return err == nil && resp.Status == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("health server did not stop")
	}
}
