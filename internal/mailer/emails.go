package mailer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// EmailService renders and sends the transactional emails of the account
// lifecycle through a Sender.
type EmailService struct {
	sender Sender
	logger *zap.Logger
}

func NewEmailService(sender Sender, logger *zap.Logger) *EmailService {
	return &EmailService{
		sender: sender,
		logger: logger.Named("EmailService"),
	}
}

// SendVerificationEmail sends the 6-digit verification code after signup.
func (e *EmailService) SendVerificationEmail(ctx context.Context, email, verificationCode string) error {
	body := strings.Replace(verificationEmailTemplate, "{verificationCode}", verificationCode, 1)
	if err := e.sender.Send(ctx, email, "Verify your email", body, "Email Verification"); err != nil {
		e.logger.Error("Failed to send verification email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}

// SendWelcomeEmail sends the welcome message after successful verification.
func (e *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	body := strings.Replace(welcomeEmailTemplate, "{name}", name, 1)
	if err := e.sender.Send(ctx, email, "Welcome Email", body, "Welcome Message"); err != nil {
		e.logger.Error("Failed to send welcome email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

// SendResetPasswordEmail sends the reset link with the token embedded in the URL.
func (e *EmailService) SendResetPasswordEmail(ctx context.Context, email, name, resetURL string) error {
	body := strings.Replace(passwordResetRequestTemplate, "{name}", name, 1)
	body = strings.Replace(body, "{resetURL}", resetURL, 1)
	if err := e.sender.Send(ctx, email, "Reset Password", body, "Password Reset"); err != nil {
		e.logger.Error("Failed to send reset password email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send reset password email: %w", err)
	}
	return nil
}

// SendPasswordResetSuccessEmail confirms that the password was changed.
func (e *EmailService) SendPasswordResetSuccessEmail(ctx context.Context, email string) error {
	if err := e.sender.Send(ctx, email, "Password Reset Successful", passwordResetSuccessTemplate, "Password Reset"); err != nil {
		e.logger.Error("Failed to send password reset success email", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("failed to send password reset success email: %w", err)
	}
	return nil
}
