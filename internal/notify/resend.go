package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"shopd/internal/apperr"
)

// ResendMailer sends transactional email through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer builds a mailer sending as "<projectName> <fromEmail>".
func NewResendMailer(apiKey, projectName, fromEmail string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   fmt.Sprintf("%s <%s>", projectName, fromEmail),
	}
}

// Send delivers one email, wrapping any transport failure in ErrDelivery.
func (m *ResendMailer) Send(ctx context.Context, subject, html, to string, attachments ...Attachment) error {
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	for _, a := range attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("send %q to %s: %w: %w", subject, to, apperr.ErrDelivery, err)
	}
	return nil
}
