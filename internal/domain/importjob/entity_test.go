package importjob

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewImportHistory(t *testing.T) {
	h := NewImportHistory(1, 2, "books.csv", "imports/1/x.csv", 25, 0)

	assert.Equal(t, StatusPending, h.Status)
	assert.Equal(t, DefaultChunkSize, h.ChunkSize)
	assert.Equal(t, 3, h.TotalChunks)
	assert.Empty(t, h.FailedIsbns)
}

func TestTotalChunksFor(t *testing.T) {
	assert.Equal(t, 0, TotalChunksFor(0, 10))
	assert.Equal(t, 1, TotalChunksFor(10, 10))
	assert.Equal(t, 2, TotalChunksFor(11, 10))
	assert.Equal(t, 0, TotalChunksFor(5, 0))
}

func TestImportHistory_RecordChunk_CapsFailedIsbns(t *testing.T) {
	h := NewImportHistory(1, 2, "books.csv", "key", 300, 10)

	for chunk := 0; chunk < 15; chunk++ {
		failed := make([]string, 10)
		for i := range failed {
			failed[i] = fmt.Sprintf("isbn-%d-%d", chunk, i)
		}
		h.RecordChunk((chunk+1)*10, 0, failed)
	}

	assert.Equal(t, 150, h.FailedCount)
	assert.Len(t, h.FailedIsbns, MaxFailedIsbns)
	assert.Equal(t, "isbn-0-0", h.FailedIsbns[0])
	assert.Equal(t, 15, h.ProcessedChunks)
	assert.Equal(t, 150, h.CurrentPosition)
	assert.InDelta(t, 50.0, h.Progress(), 0.001)
}

func TestImportHistory_Lifecycle(t *testing.T) {
	h := NewImportHistory(1, 2, "books.csv", "key", 10, 10)
	first := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	h.Start(first)
	h.Start(first.Add(time.Hour))
	assert.Equal(t, StatusProcessing, h.Status)
	assert.Equal(t, first, *h.StartedAt)
	assert.False(t, h.IsTerminal())

	h.Complete(first.Add(2 * time.Hour))
	assert.True(t, h.IsTerminal())
	assert.NotNil(t, h.CompletedAt)

	failed := NewImportHistory(1, 2, "books.csv", "key", 10, 10)
	failed.Fail("文件不存在", first)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, "文件不存在", failed.ErrorMessage)
	assert.True(t, failed.IsTerminal())
}
