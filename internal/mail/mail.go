// Package mail sends transactional email through Mailgun.
package mail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/assessmentslol/assessments/internal/config"
	"github.com/mailgun/mailgun-go/v4"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// MailgunSender sends messages through the Mailgun API.
type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunSender creates a sender for the configured Mailgun domain.
func NewMailgunSender(cfg config.MailgunConfig) *MailgunSender {
	return &MailgunSender{
		mg:   mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from: cfg.Sender,
	}
}

// SetAPIBase points the sender at a different Mailgun API endpoint, such as the EU region.
func (s *MailgunSender) SetAPIBase(url string) {
	s.mg.SetAPIBase(url)
}

// Send delivers msg.
func (s *MailgunSender) Send(ctx context.Context, msg Message) error {
	m := s.mg.NewMessage(s.from, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}
	if _, _, err := s.mg.Send(ctx, m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender records messages in the log instead of sending them. It is used
// when Mailgun is not configured.
type LogSender struct{}

// Send logs the subject of msg.
func (LogSender) Send(_ context.Context, msg Message) error {
	log.Printf("[mail] delivery disabled, dropping %q", msg.Subject)
	return nil
}

// NewSender returns a Mailgun sender when cfg is complete and a LogSender otherwise.
func NewSender(cfg config.MailgunConfig) Sender {
	if !cfg.Enabled() {
		return LogSender{}
	}
	return NewMailgunSender(cfg)
}

// PlainText renders the readable text of an HTML body. Headings and
// paragraphs become blank-line separated blocks, list items are prefixed
// with "- ", and <br> becomes a line break.
func PlainText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("br").ReplaceWithHtml("\n")

	var blocks []string
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := collapseWhitespace(s.Text())
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			text = "- " + text
		}
		blocks = append(blocks, text)
	})
	return strings.Join(blocks, "\n\n"), nil
}

// collapseWhitespace squeezes runs of spaces within each line and drops blank lines.
func collapseWhitespace(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
