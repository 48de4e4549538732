//go:build integration

package integration

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCheckoutAndReturn 借出、归还与借阅记录
func TestCheckoutAndReturn(t *testing.T) {
	_, token := RegisterLibrarian(t, "circulation")
	lib := CreateTestLibrary(t, token, 14)
	book := AddTestBook(t, token, lib.ID, 2)
	reader := RegisterTestReader(t, token, lib.ID)

	first, second := book.Instances[0].ID, book.Instances[1].ID

	t.Run("借出可借副本", func(t *testing.T) {
		before := time.Now()
		resp := PostJSON(t, LibraryURL(lib.ID, "/checkouts"), map[string]any{
			"reader_id":    reader.ID,
			"instance_ids": []uint{first},
		}, token)
		var result CirculationData
		Decode(t, resp, &result)

		require.Len(t, result.Processed, 1)
		assert.Equal(t, first, result.Processed[0].InstanceID)
		assert.Empty(t, result.Skipped)

		due, err := time.Parse(time.DateOnly, result.Processed[0].DueDate[:10])
		require.NoError(t, err)
		assert.Equal(t, before.AddDate(0, 0, 14).Format(time.DateOnly), due.Format(time.DateOnly))
	})

	t.Run("已借出副本被跳过", func(t *testing.T) {
		resp := PostJSON(t, LibraryURL(lib.ID, "/checkouts"), map[string]any{
			"reader_id":    reader.ID,
			"instance_ids": []uint{first, second, 999999},
		}, token)
		var result CirculationData
		Decode(t, resp, &result)

		require.Len(t, result.Processed, 1)
		assert.Equal(t, second, result.Processed[0].InstanceID)
		assert.ElementsMatch(t, []uint{first, 999999}, result.Skipped)
	})

	t.Run("非本馆读者", func(t *testing.T) {
		resp := PostJSON(t, LibraryURL(lib.ID, "/checkouts"), map[string]any{
			"reader_id":    999999,
			"instance_ids": []uint{first},
		}, token)
		assert.Equal(t, 40404, resp.Code)
	})

	t.Run("归还", func(t *testing.T) {
		resp := PostJSON(t, LibraryURL(lib.ID, "/returns"), map[string]any{
			"instance_ids": []uint{first, second},
		}, token)
		var result CirculationData
		Decode(t, resp, &result)
		assert.Len(t, result.Processed, 2)

		var detail BookData
		Decode(t, GetJSON(t, LibraryURL(lib.ID, "/books/"+itoa(book.ID)), token), &detail)
		for _, inst := range detail.Instances {
			assert.Equal(t, "available", inst.Status)
			assert.Nil(t, inst.ReaderID)
			assert.Empty(t, inst.DueDate)
		}
	})

	t.Run("重复归还无副作用", func(t *testing.T) {
		resp := PostJSON(t, LibraryURL(lib.ID, "/returns"), map[string]any{
			"instance_ids": []uint{first},
		}, token)
		var result CirculationData
		Decode(t, resp, &result)
		assert.Empty(t, result.Processed)
		assert.Equal(t, []uint{first}, result.Skipped)
	})

	t.Run("借阅记录", func(t *testing.T) {
		var page PageData
		Decode(t, GetJSON(t, LibraryURL(lib.ID, "/reader-actions?reader_id="+itoa(reader.ID)), token), &page)

		var actions []struct {
			Action         string `json:"action"`
			BookInstanceID uint   `json:"book_instance_id"`
			ReaderID       uint   `json:"reader_id"`
		}
		require.NoError(t, json.Unmarshal(page.List, &actions))

		// 两次借出 + 两次归还，重复归还不记录
		assert.EqualValues(t, 4, page.Total)
		counts := map[string]int{}
		for _, a := range actions {
			assert.Equal(t, reader.ID, a.ReaderID)
			counts[a.Action]++
		}
		assert.Equal(t, 2, counts["checkout"])
		assert.Equal(t, 2, counts["return"])
	})
}

// TestAddInstance 同ISBN不能重复录入，通过新增副本增加馆藏
func TestAddInstance(t *testing.T) {
	_, token := RegisterLibrarian(t, "instance")
	lib := CreateTestLibrary(t, token, 14)
	book := AddTestBook(t, token, lib.ID, 1)

	resp := PostJSON(t, LibraryURL(lib.ID, "/books"), map[string]any{"isbn": book.ISBN}, token)
	assert.Equal(t, 40004, resp.Code)

	var inst InstanceData
	Decode(t, PostJSON(t, LibraryURL(lib.ID, "/books/"+itoa(book.ID)+"/instances"), map[string]string{"note": "捐赠"}, token), &inst)
	assert.Equal(t, "available", inst.Status)

	var detail BookData
	Decode(t, GetJSON(t, LibraryURL(lib.ID, "/books/"+itoa(book.ID)), token), &detail)
	assert.Equal(t, 2, detail.Copies)
	assert.Len(t, detail.Instances, 2)

	var page PageData
	Decode(t, GetJSON(t, LibraryURL(lib.ID, "/books?keyword="+book.ISBN), token), &page)
	assert.EqualValues(t, 1, page.Total)
}
