package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/fintrk/fin_tracker_app/internal/core/domain"
	portssvc "github.com/fintrk/fin_tracker_app/internal/core/ports/services"
)

// SMTPNotifier delivers notifications over plain SMTP. Messages with an
// attachment are sent as multipart/mixed, everything else as plain text.
type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPNotifier creates a Notifier for the given SMTP endpoint. Username
// may be empty for unauthenticated relays.
func NewSMTPNotifier(host string, port int, from, username, password string) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

var _ portssvc.Notifier = (*SMTPNotifier)(nil)

// Deliver sends the notification to its recipient.
func (s *SMTPNotifier) Deliver(ctx context.Context, n domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := s.render(n)
	if err != nil {
		return err
	}
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{n.Recipient}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", n.Recipient, err)
	}
	return nil
}

func (s *SMTPNotifier) render(n domain.Notification) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", n.Recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", n.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if len(n.Attachment) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		buf.WriteString(n.Body)
		buf.WriteString("\r\n")
		return buf.Bytes(), nil
	}

	w := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", w.Boundary())

	text, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, fmt.Errorf("render mail body: %w", err)
	}
	if _, err := text.Write([]byte(n.Body)); err != nil {
		return nil, fmt.Errorf("render mail body: %w", err)
	}

	attachment, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/csv"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", n.AttachmentName)},
	})
	if err != nil {
		return nil, fmt.Errorf("render attachment: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(n.Attachment)
	if _, err := attachment.Write([]byte(encoded)); err != nil {
		return nil, fmt.Errorf("render attachment: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalize mail: %w", err)
	}
	return buf.Bytes(), nil
}
