// Package notify is the outbound notification gateway: a Mailer interface
// the account and order services depend on, a Resend-backed implementation,
// and the embedded HTML templates for every transactional email the shop
// sends.
package notify

import "context"

// Attachment is a file included with an email.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Mailer delivers a single email. Implementations wrap transport failures
// in apperr.ErrDelivery; whether that failure is fatal is the caller's
// decision.
type Mailer interface {
	Send(ctx context.Context, subject, html, to string, attachments ...Attachment) error
}
