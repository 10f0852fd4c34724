package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedEmail struct {
	recipient string
	subject   string
	htmlBody  string
	category  string
}

type fakeSender struct {
	sent []capturedEmail
	err  error
}

func (f *fakeSender) Send(_ context.Context, recipient, subject, htmlBody, category string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, capturedEmail{recipient, subject, htmlBody, category})
	return nil
}

func TestSendVerificationEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop())

	err := svc.SendVerificationEmail(context.Background(), "a@x.com", "123456")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	email := sender.sent[0]
	assert.Equal(t, "a@x.com", email.recipient)
	assert.Equal(t, "Verify your email", email.subject)
	assert.Equal(t, "Email Verification", email.category)
	assert.Contains(t, email.htmlBody, "123456")
	assert.NotContains(t, email.htmlBody, "{verificationCode}")
}

func TestSendResetPasswordEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop())

	resetURL := "http://localhost:5173/reset-password?token=abc123"
	err := svc.SendResetPasswordEmail(context.Background(), "a@x.com", "Alice", resetURL)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	email := sender.sent[0]
	assert.Equal(t, "Reset Password", email.subject)
	assert.Equal(t, "Password Reset", email.category)
	assert.Contains(t, email.htmlBody, resetURL)
	assert.Contains(t, email.htmlBody, "Alice")
	assert.NotContains(t, email.htmlBody, "{resetURL}")
	assert.NotContains(t, email.htmlBody, "{name}")
}

func TestSendWelcomeEmail(t *testing.T) {
	sender := &fakeSender{}
	svc := NewEmailService(sender, zap.NewNop())

	err := svc.SendWelcomeEmail(context.Background(), "a@x.com", "Alice")
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Welcome Message", sender.sent[0].category)
	assert.Contains(t, sender.sent[0].htmlBody, "Alice")
}

func TestEmailService_PropagatesSenderFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("provider down")}
	svc := NewEmailService(sender, zap.NewNop())

	assert.Error(t, svc.SendVerificationEmail(context.Background(), "a@x.com", "123456"))
	assert.Error(t, svc.SendWelcomeEmail(context.Background(), "a@x.com", "Alice"))
	assert.Error(t, svc.SendPasswordResetSuccessEmail(context.Background(), "a@x.com"))
}
