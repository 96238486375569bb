package channels

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// RenderedTemplate là nội dung email đã render
type RenderedTemplate struct {
	Subject string
	Content string
	CTAs    []RenderedCTA
}

// RenderedCTA là nút hành động gắn cuối email
type RenderedCTA struct {
	Label string
	URL   string
}

// EmailSender chứa thông tin SMTP dùng để gửi
type EmailSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured cho biết SMTP đã được cấu hình đủ để gửi
func (s EmailSender) Configured() bool {
	return s.Host != "" && s.From != ""
}

// RenderHTML ghép nội dung và các CTA thành HTML
func RenderHTML(template *RenderedTemplate) string {
	html := template.Content
	ctaHTML := ""
	for _, cta := range template.CTAs {
		ctaHTML += fmt.Sprintf(`<a href="%s" style="display:inline-block;padding:10px 20px;margin:5px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">%s</a>`,
			cta.URL, cta.Label)
	}
	if ctaHTML != "" {
		html += "<div style='margin-top:20px;'>" + ctaHTML + "</div>"
	}
	return html
}

// SendEmail gửi một email HTML qua SMTP
func SendEmail(ctx context.Context, sender EmailSender, recipient string, template *RenderedTemplate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !sender.Configured() {
		return fmt.Errorf("smtp sender is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", sender.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", template.Subject)
	msg.SetBody("text/html", RenderHTML(template))

	dialer := gomail.NewDialer(sender.Host, sender.Port, sender.Username, sender.Password)
	return dialer.DialAndSend(msg)
}
