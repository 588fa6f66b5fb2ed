// Package mail sends notification emails through SendGrid.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendGrid(apiKey, fromEmail, fromName string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

func newSendGridWithHost(apiKey, host, fromEmail, fromName string) *SendGrid {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"

	return &SendGrid{
		client: &sendgrid.Client{Request: req},
		from:   sgmail.NewEmail(fromName, fromEmail),
	}
}

func buildMessage(from *sgmail.Email, msg Message) *sgmail.SGMailV3 {
	to := sgmail.NewEmail(msg.ToName, msg.ToEmail)

	html := msg.HTML
	if html == "" {
		html = "<p>" + msg.Text + "</p>"
	}

	return sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, html)
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	resp, err := s.client.SendWithContext(ctx, buildMessage(s.from, msg))
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.ToEmail, err)
	}

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected email to %s: status %d: %s", msg.ToEmail, resp.StatusCode, resp.Body)
	}

	return nil
}

// Log writes messages to the process log instead of sending them. Used when no API key is configured.
type Log struct{}

func (Log) Send(_ context.Context, msg Message) error {
	slog.Info("email not sent, no provider configured", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
