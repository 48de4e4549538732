// Package classification 为新书判断适读年龄段
package classification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xiebiao/libraryhub/internal/application/notification"
	"github.com/xiebiao/libraryhub/internal/domain/book"
)

// TextGenerator 由ai.OpenAICompatGenerator实现
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AgeGroupSetter 由book.Service实现
type AgeGroupSetter interface {
	SetAgeGroup(ctx context.Context, bookID uint, group book.AgeGroup) error
}

const systemPrompt = `You are a children's librarian. Classify the book into exactly one reading age group.
Answer with only one of: 0-5, 6-8, 9-12, 13-17, adult`

// Handler 消费book.classify_age消息
type Handler struct {
	generator TextGenerator
	books     AgeGroupSetter
}

func NewHandler(generator TextGenerator, books AgeGroupSetter) *Handler {
	return &Handler{generator: generator, books: books}
}

// Handle 模型调用或保存失败时返回错误，消息重新入队
func (h *Handler) Handle(ctx context.Context, body []byte) error {
	var msg notification.AgeClassificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		slog.ErrorContext(ctx, "drop malformed classification message", "err", err)
		return nil
	}

	prompt := "Title: " + msg.Title
	if d := strings.TrimSpace(msg.Description); d != "" {
		prompt += "\nDescription: " + truncate(d, 2000)
	}

	answer, err := h.generator.GenerateText(ctx, systemPrompt, prompt)
	if err != nil {
		return fmt.Errorf("classify book %d: %w", msg.BookID, err)
	}

	group, ok := parseAnswer(answer)
	if !ok {
		// 模型输出无法识别，重试通常也没有意义
		slog.WarnContext(ctx, "unrecognized age group", "book_id", msg.BookID, "answer", answer)
		return nil
	}

	if err := h.books.SetAgeGroup(ctx, msg.BookID, group); err != nil {
		// 图书已删除
		if errors.Is(err, book.ErrBookNotFound) {
			return nil
		}
		return fmt.Errorf("save age group for book %d: %w", msg.BookID, err)
	}
	slog.InfoContext(ctx, "book classified", "book_id", msg.BookID, "age_group", group)
	return nil
}

// parseAnswer 容忍多余的标点与说明文字
func parseAnswer(answer string) (book.AgeGroup, bool) {
	cleaned := strings.Trim(strings.TrimSpace(answer), ".\"'`")
	if group, ok := book.ParseAgeGroup(cleaned); ok {
		return group, true
	}
	lower := strings.ToLower(answer)
	for _, g := range book.AgeGroups {
		if strings.Contains(lower, string(g)) {
			return g, true
		}
	}
	return book.AgeGroupUnknown, false
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
