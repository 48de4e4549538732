// Package saga 编排跨外部系统的多步操作
//
// 步骤按添加顺序执行；任一步失败时按逆序执行已完成步骤的补偿操作。
// 补偿只保证尽力而为，失败会记录日志并计入指标。
package saga

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xiebiao/libraryhub/pkg/metrics"
)

// Step Saga中的一个步骤，Action与Compensate都应幂等
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 一次Saga执行
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration
}

// NewSaga 创建Saga，timeout<=0表示不设整体超时
//
//	s := NewSaga("subscription_checkout", 30*time.Second)
//	s.AddStep("创建客户", createCustomer, deleteCustomer)
//	s.AddStep("创建结账会话", createSession, nil)
//	err := s.Execute(ctx)
func NewSaga(name string, timeout time.Duration) *Saga {
	return &Saga{
		name:    name,
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加步骤，action和compensate都可以为nil
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行所有步骤，失败或超时时触发补偿并返回错误
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用独立Context，避免随原Context一起超时
			s.compensate(context.WithoutCancel(ctx))
			metrics.SagaExecutionsTotal.WithLabelValues(s.name, "compensated").Inc()
			return fmt.Errorf("saga超时: %w", ctx.Err())
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				metrics.SagaExecutionsTotal.WithLabelValues(s.name, "compensated").Inc()
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	metrics.SagaExecutionsTotal.WithLabelValues(s.name, "success").Inc()
	return nil
}

// compensate 逆序执行补偿，单步失败不影响后续补偿
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}

		metrics.SagaCompensationsTotal.Inc()
		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "saga compensation failed",
				"saga", s.name,
				"step", step.Name,
				"err", err,
			)
		}
	}

	s.executed = nil
}
