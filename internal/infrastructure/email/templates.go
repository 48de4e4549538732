package email

import (
	"bytes"
	"fmt"
	"text/template"
)

// 模板名称，与EmailMessage.Template对应
const (
	TemplateCheckoutConfirmation = "checkout_confirmation"
	TemplateImportFinished       = "import_finished"
)

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplateCheckoutConfirmation: mustParse(TemplateCheckoutConfirmation,
		`{{.library}} 借书确认`,
		`{{.reader}}，你好：

你在 {{.library}} 借出了以下图书：
{{range .loans}}
  - {{.title}}（应还日期 {{.due_date}}）
{{- end}}

请按时归还。
`),
	TemplateImportFinished: mustParse(TemplateImportFinished,
		`图书导入{{if eq .status "completed"}}完成{{else}}失败{{end}}：{{.file_name}}`,
		`文件 {{.file_name}} 的导入已结束。

状态：{{.status}}
ISBN总数：{{.total}}
成功：{{.succeeded}}
失败：{{.failed}}
{{- if .failed_isbns}}
失败的ISBN：{{range $i, $isbn := .failed_isbns}}{{if $i}}, {{end}}{{$isbn}}{{end}}
{{- end}}
{{- if .error}}
错误信息：{{.error}}
{{- end}}
`),
}

func mustParse(name, subject, body string) mailTemplate {
	return mailTemplate{
		subject: template.Must(template.New(name + "_subject").Option("missingkey=zero").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Option("missingkey=zero").Parse(body)),
	}
}

// Render 渲染邮件标题和正文
func Render(name string, data map[string]any) (string, string, error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render body: %w", err)
	}
	return subject.String(), body.String(), nil
}
