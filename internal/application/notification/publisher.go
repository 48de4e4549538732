package notification

import (
	"context"
	"fmt"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
	"github.com/xiebiao/libraryhub/internal/infrastructure/email"
)

// MessagePublisher 消息发布，由mq.Publisher实现
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// Notifier 把领域事件转换为队列消息
// 实现book.CheckoutNotifier与book.ClassificationRequester
type Notifier struct {
	publisher MessagePublisher
}

func NewNotifier(publisher MessagePublisher) *Notifier {
	return &Notifier{publisher: publisher}
}

// NotifyCheckout 借书确认邮件，读者没有邮箱时不发送
func (n *Notifier) NotifyCheckout(ctx context.Context, lib *library.Library, r *reader.Reader, loans []book.Loan) error {
	if r.Email == "" {
		return nil
	}

	items := make([]map[string]any, 0, len(loans))
	for _, loan := range loans {
		items = append(items, map[string]any{
			"title":    loan.Title,
			"due_date": loan.DueDate.Format("2006-01-02"),
		})
	}

	return n.publisher.Publish(ctx, RoutingKeyEmail, EmailMessage{
		To:       r.Email,
		Template: email.TemplateCheckoutConfirmation,
		Data: map[string]any{
			"library": lib.Name,
			"reader":  r.FullName(),
			"loans":   items,
		},
	})
}

// RequestAgeClassification 新书创建后请求分类
func (n *Notifier) RequestAgeClassification(ctx context.Context, b *book.Book) error {
	return n.publisher.Publish(ctx, RoutingKeyClassifyAge, AgeClassificationMessage{
		BookID:      b.ID,
		LibraryID:   b.LibraryID,
		Title:       b.Title,
		Description: b.Description,
	})
}

// NotifyImportFinished 导入结束（完成或失败）通知发起人
func (n *Notifier) NotifyImportFinished(ctx context.Context, to string, h *importjob.ImportHistory) error {
	if to == "" {
		return fmt.Errorf("import %d: recipient email is empty", h.ID)
	}
	return n.publisher.Publish(ctx, RoutingKeyEmail, EmailMessage{
		To:       to,
		Template: email.TemplateImportFinished,
		Data: map[string]any{
			"file_name":    h.FileName,
			"status":       string(h.Status),
			"total":        h.TotalIsbns,
			"succeeded":    h.SuccessCount,
			"failed":       h.FailedCount,
			"failed_isbns": h.FailedIsbns,
			"error":        h.ErrorMessage,
		},
	})
}
