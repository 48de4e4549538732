package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/xiebiao/libraryhub/internal/infrastructure/email"
)

// EmailHandler 消费email.send消息：渲染模板后通过SMTP发送
type EmailHandler struct {
	sender email.Sender
}

func NewEmailHandler(sender email.Sender) *EmailHandler {
	return &EmailHandler{sender: sender}
}

// Handle 返回错误时消息重新入队；无法解析或模板不存在的消息直接丢弃
func (h *EmailHandler) Handle(ctx context.Context, body []byte) error {
	var msg EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		slog.ErrorContext(ctx, "drop malformed email message", "err", err)
		return nil
	}
	if msg.To == "" {
		slog.WarnContext(ctx, "drop email message without recipient", "template", msg.Template)
		return nil
	}

	subject, text, err := email.Render(msg.Template, msg.Data)
	if err != nil {
		slog.ErrorContext(ctx, "drop email message", "template", msg.Template, "err", err)
		return nil
	}
	if msg.Subject != "" {
		subject = msg.Subject
	}

	if err := h.sender.Send(ctx, msg.To, subject, text); err != nil {
		return fmt.Errorf("send %s email: %w", msg.Template, err)
	}
	slog.InfoContext(ctx, "email sent", "template", msg.Template)
	return nil
}
