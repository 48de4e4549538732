package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/domain/book"
	"github.com/xiebiao/libraryhub/internal/domain/importjob"
	"github.com/xiebiao/libraryhub/internal/domain/library"
	"github.com/xiebiao/libraryhub/internal/domain/reader"
)

type published struct {
	routingKey string
	body       []byte
}

// capturePublisher 按JSON序列化保存消息，模拟经过队列后的形态
type capturePublisher struct {
	messages []published
}

func (p *capturePublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	p.messages = append(p.messages, published{routingKey: routingKey, body: body})
	return nil
}

type recordingSender struct {
	to, subject, body string
	err               error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

func TestNotifyCheckout_RoundTripThroughEmailHandler(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub)
	due := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

	err := n.NotifyCheckout(context.Background(),
		&library.Library{ID: 1, Name: "城东分馆"},
		&reader.Reader{ID: 2, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		[]book.Loan{{InstanceID: 5, Title: "The Go Programming Language", DueDate: due}},
	)
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, RoutingKeyEmail, pub.messages[0].routingKey)

	sender := &recordingSender{}
	require.NoError(t, NewEmailHandler(sender).Handle(context.Background(), pub.messages[0].body))
	assert.Equal(t, "ada@example.com", sender.to)
	assert.Equal(t, "城东分馆 借书确认", sender.subject)
	assert.Contains(t, sender.body, "The Go Programming Language（应还日期 2024-03-15）")
}

func TestNotifyCheckout_NoEmail(t *testing.T) {
	pub := &capturePublisher{}
	err := NewNotifier(pub).NotifyCheckout(context.Background(), &library.Library{}, &reader.Reader{}, []book.Loan{{}})
	require.NoError(t, err)
	assert.Empty(t, pub.messages)
}

func TestRequestAgeClassification(t *testing.T) {
	pub := &capturePublisher{}
	require.NoError(t, NewNotifier(pub).RequestAgeClassification(context.Background(), &book.Book{ID: 3, LibraryID: 1, Title: "Matilda"}))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, RoutingKeyClassifyAge, pub.messages[0].routingKey)
	var msg AgeClassificationMessage
	require.NoError(t, json.Unmarshal(pub.messages[0].body, &msg))
	assert.Equal(t, uint(3), msg.BookID)
	assert.Equal(t, "Matilda", msg.Title)
}

func TestNotifyImportFinished(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub)

	h := importjob.NewImportHistory(1, 2, "books.csv", "imports/1/x.csv", 3, 10)
	h.RecordChunk(3, 2, []string{"9780000000002"})
	h.Complete(time.Now())

	require.NoError(t, n.NotifyImportFinished(context.Background(), "librarian@example.com", h))
	assert.Error(t, n.NotifyImportFinished(context.Background(), "", h))

	sender := &recordingSender{}
	require.NoError(t, NewEmailHandler(sender).Handle(context.Background(), pub.messages[0].body))
	assert.Equal(t, "图书导入完成：books.csv", sender.subject)
	assert.Contains(t, sender.body, "成功：2")
	assert.Contains(t, sender.body, "9780000000002")
}

func TestEmailHandler_Errors(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	h := NewEmailHandler(sender)

	body, _ := json.Marshal(EmailMessage{To: "a@example.com", Template: "import_finished", Data: map[string]any{"status": "failed"}})
	assert.Error(t, h.Handle(context.Background(), body), "发送失败需要重新入队")

	body, _ = json.Marshal(EmailMessage{To: "a@example.com", Template: "missing"})
	assert.NoError(t, h.Handle(context.Background(), body))

	assert.NoError(t, h.Handle(context.Background(), []byte("not json")))
}
