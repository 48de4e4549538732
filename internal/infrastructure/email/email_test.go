package email

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libraryhub/internal/infrastructure/config"
)

func TestRender_CheckoutConfirmation(t *testing.T) {
	subject, body, err := Render(TemplateCheckoutConfirmation, map[string]any{
		"library": "城东分馆",
		"reader":  "Ada Lovelace",
		"loans": []map[string]any{
			{"title": "The Go Programming Language", "due_date": "2024-03-15"},
			{"title": "Designing Data-Intensive Applications", "due_date": "2024-03-15"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "城东分馆 借书确认", subject)
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "  - The Go Programming Language（应还日期 2024-03-15）")
	assert.Contains(t, body, "Designing Data-Intensive Applications")
}

func TestRender_ImportFinished(t *testing.T) {
	subject, body, err := Render(TemplateImportFinished, map[string]any{
		"file_name":    "books.csv",
		"status":       "completed",
		"total":        3,
		"succeeded":    2,
		"failed":       1,
		"failed_isbns": []string{"9780000000002"},
	})
	require.NoError(t, err)

	assert.Equal(t, "图书导入完成：books.csv", subject)
	assert.Contains(t, body, "成功：2")
	assert.Contains(t, body, "失败的ISBN：9780000000002")
	assert.NotContains(t, body, "错误信息")

	subject, _, err = Render(TemplateImportFinished, map[string]any{"file_name": "x.csv", "status": "failed"})
	require.NoError(t, err)
	assert.Equal(t, "图书导入失败：x.csv", subject)
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, err := Render("nope", nil)
	assert.Error(t, err)
}

func TestBuildMessage(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := string(buildMessage("noreply@libraryhub.local", "ada@example.com", "借书确认", "line1\nline2", now))

	assert.Contains(t, msg, "To: ada@example.com\r\n")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
	assert.Contains(t, msg, "Date: Fri, 01 Mar 2024 10:00:00 +0000\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nline1\r\nline2"))
}

// fakeSMTP 只实现SendMail需要的最小命令集
func fakeSMTP(t *testing.T) (string, <-chan string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		write := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		write("220 fake smtp")

		var data strings.Builder
		inData := false
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if inData {
				if line == ".\r\n" {
					inData = false
					received <- data.String()
					write("250 OK")
					continue
				}
				data.WriteString(line)
				continue
			}

			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
				write("250 fake")
			case strings.HasPrefix(cmd, "DATA"):
				inData = true
				write("354 go ahead")
			case strings.HasPrefix(cmd, "QUIT"):
				write("221 bye")
				return
			default:
				write("250 OK")
			}
		}
	}()
	return ln.Addr().String(), received
}

func TestSMTPSender_Send(t *testing.T) {
	addr, received := fakeSMTP(t)
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sender := NewSMTPSender(&config.Config{SMTP: config.SMTPConfig{
		Host: host,
		Port: port,
		From: "noreply@libraryhub.local",
	}})

	require.NoError(t, sender.Send(context.Background(), "ada@example.com", "hello", "body text"))

	select {
	case msg := <-received:
		assert.Contains(t, msg, "To: ada@example.com")
		assert.Contains(t, msg, "body text")
	case <-time.After(2 * time.Second):
		t.Fatal("没有收到邮件")
	}
}

func TestSMTPSender_RejectsHeaderInjection(t *testing.T) {
	sender := NewSMTPSender(&config.Config{SMTP: config.SMTPConfig{Host: "localhost", Port: 25}})
	err := sender.Send(context.Background(), "a@example.com\r\nBcc: x@example.com", "s", "b")
	assert.Error(t, err)
}
