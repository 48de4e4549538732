package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordStep(log *[]string, name string, err error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		*log = append(*log, name)
		return err
	}
}

func TestSaga_Execute_Success(t *testing.T) {
	var executed []string

	s := NewSaga("test", 5*time.Second)
	s.AddStep("创建客户", recordStep(&executed, "创建客户", nil), recordStep(&executed, "删除客户", nil))
	s.AddStep("创建结账会话", recordStep(&executed, "创建结账会话", nil), nil)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"创建客户", "创建结账会话"}, executed)
}

func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	var executed []string

	s := NewSaga("test", 5*time.Second)
	s.AddStep("创建客户", recordStep(&executed, "创建客户", nil), recordStep(&executed, "删除客户", nil))
	s.AddStep("创建结账会话", recordStep(&executed, "创建结账会话", nil), recordStep(&executed, "作废会话", nil))
	s.AddStep("保存订阅", recordStep(&executed, "保存订阅", errors.New("db down")), recordStep(&executed, "回滚订阅", nil))

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "保存订阅")

	// 失败步骤本身不补偿，已完成步骤逆序补偿
	assert.Equal(t, []string{"创建客户", "创建结账会话", "保存订阅", "作废会话", "删除客户"}, executed)
}

func TestSaga_Execute_CompensationErrorContinues(t *testing.T) {
	var executed []string

	s := NewSaga("test", 0)
	s.AddStep("a", recordStep(&executed, "a", nil), recordStep(&executed, "undo-a", nil))
	s.AddStep("b", recordStep(&executed, "b", nil), recordStep(&executed, "undo-b", errors.New("undo failed")))
	s.AddStep("c", recordStep(&executed, "c", errors.New("boom")), nil)

	require.Error(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "undo-b", "undo-a"}, executed)
}

func TestSaga_Execute_Timeout(t *testing.T) {
	var executed []string

	s := NewSaga("test", 50*time.Millisecond)
	s.AddStep("慢步骤",
		func(ctx context.Context) error {
			executed = append(executed, "慢步骤")
			time.Sleep(100 * time.Millisecond)
			return nil
		},
		recordStep(&executed, "补偿慢步骤", nil),
	)
	s.AddStep("后续步骤", recordStep(&executed, "后续步骤", nil), nil)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"慢步骤", "补偿慢步骤"}, executed)
}
