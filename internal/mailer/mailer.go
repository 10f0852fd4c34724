package mailer

import "context"

// Sender delivers a single transactional email. The category tags the email
// kind for the provider's analytics.
type Sender interface {
	Send(ctx context.Context, recipient, subject, htmlBody, category string) error
}
