package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New(ErrCodeBookNotFound, "图书不存在")
	assert.Equal(t, "[40402] 图书不存在", e.Error())

	wrapped := Wrap(errors.New("connection refused"), "查询图书失败")
	assert.Equal(t, ErrCodeInternal, wrapped.Code)
	assert.Contains(t, wrapped.Error(), "connection refused")
}

func TestGetAppError(t *testing.T) {
	notFound := New(ErrCodeLibraryNotFound, "图书馆不存在")
	chained := fmt.Errorf("checkout: %w", notFound)

	got := GetAppError(chained)
	assert.Same(t, notFound, got)

	plain := GetAppError(errors.New("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.EqualError(t, errors.Unwrap(plain), "boom")
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrap: %w", WithCode(ErrCodeSubscriptionLimit, errors.New("cap"), "额度不足"))
	assert.True(t, IsCode(err, ErrCodeSubscriptionLimit))
	assert.False(t, IsCode(err, ErrCodeInternal))
	assert.False(t, IsCode(errors.New("x"), ErrCodeInternal))
}
