// Package notification 借还确认、导入结果等邮件通知，以及新书年龄段分类请求
//
// 所有消息发布到RabbitMQ Topic Exchange，由同一进程内的消费者异步处理。
package notification

// 路由键
const (
	RoutingKeyEmail       = "email.send"
	RoutingKeyClassifyAge = "book.classify_age"
)

// EmailMessage 邮件消息，Subject为空时使用模板标题
type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// AgeClassificationMessage 年龄段分类请求
type AgeClassificationMessage struct {
	BookID      uint   `json:"book_id"`
	LibraryID   uint   `json:"library_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}
