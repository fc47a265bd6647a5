package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"learnhub/backend/config"
)

type MailMessage struct {
	To          string
	Subject     string
	Body        string
	Attachments []MailAttachment
}

type MailAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// NewMailer returns an SMTP mailer when SMTP_HOST is set and a log-only
// mailer otherwise.
func NewMailer(cfg *config.Config, logger *log.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return &LogMailer{logger: logger}
	}
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr: net.JoinHostPort(cfg.SMTPHost, cfg.SMTPPort),
		from: cfg.MailFrom,
		auth: auth,
	}
}

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func (m *SMTPMailer) Send(ctx context.Context, msg MailMessage) error {
	body := buildMessage(m.from, msg)
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, body)
	}()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", msg.To, ctx.Err())
	}
}

func buildMessage(from string, msg MailMessage) []byte {
	var buf bytes.Buffer
	buf.WriteString("From: " + from + "\r\n")
	buf.WriteString("To: " + msg.To + "\r\n")
	buf.WriteString("Subject: " + msg.Subject + "\r\n")
	buf.WriteString("MIME-Version: 1.0\r\n")
	if len(msg.Attachments) == 0 {
		buf.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		buf.WriteString(msg.Body)
		return buf.Bytes()
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	buf.WriteString("Content-Type: multipart/mixed; boundary=\"" + mw.Boundary() + "\"\r\n\r\n")

	text, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	text.Write([]byte(msg.Body))
	for _, a := range msg.Attachments {
		part, _ := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {fmt.Sprintf("%s; name=%q", a.ContentType, a.Filename)},
			"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", a.Filename)},
			"Content-Transfer-Encoding": {"base64"},
		})
		part.Write(wrapBase64(a.Data))
	}
	mw.Close()

	buf.Write(parts.Bytes())
	return buf.Bytes()
}

// wrapBase64 encodes data in lines of 76 characters.
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	var out strings.Builder
	for len(encoded) > 76 {
		out.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	out.WriteString(encoded)
	return []byte(out.String())
}

// LogMailer only writes the message to the log.
type LogMailer struct {
	logger *log.Logger
}

func (m *LogMailer) Send(_ context.Context, msg MailMessage) error {
	m.logger.Printf("mail to=%s subject=%q attachments=%d", msg.To, msg.Subject, len(msg.Attachments))
	return nil
}

// Dispatcher sends mail in the background. Failures are logged and never
// reach the caller.
type Dispatcher struct {
	mailer  Mailer
	logger  *log.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(mailer Mailer, logger *log.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, logger: logger, timeout: 30 * time.Second}
}

func (d *Dispatcher) Dispatch(msg MailMessage) {
	if msg.To == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.mailer.Send(ctx, msg); err != nil {
			d.logger.Printf("mail dispatch failed: %v", err)
		}
	}()
}

// Wait blocks until every dispatched message has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
