package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const mailtrapAPIURL = "https://send.api.mailtrap.io/api/send"

// MailtrapService implements the Sender interface using the Mailtrap API.
type MailtrapService struct {
	apiToken  string
	fromEmail string
	fromName  string
	client    *http.Client
	logger    *zap.Logger
}

// NewMailtrapService creates a new MailtrapService.
func NewMailtrapService(apiToken, fromEmail, fromName string, logger *zap.Logger) *MailtrapService {
	return &MailtrapService{
		apiToken:  apiToken,
		fromEmail: fromEmail,
		fromName:  fromName,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("MailtrapService"),
	}
}

type mailtrapRequest struct {
	From     address   `json:"from"`
	To       []address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Category string    `json:"category,omitempty"`
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Send delivers a single email through the Mailtrap API.
func (s *MailtrapService) Send(ctx context.Context, recipient, subject, htmlBody, category string) error {
	s.logger.Info("Attempting to send email", zap.String("toEmail", recipient), zap.String("category", category))

	requestPayload := mailtrapRequest{
		From: address{
			Email: s.fromEmail,
			Name:  s.fromName,
		},
		To: []address{
			{Email: recipient},
		},
		Subject:  subject,
		HTML:     htmlBody,
		Category: category,
	}

	payloadBytes, err := json.Marshal(requestPayload)
	if err != nil {
		s.logger.Error("Failed to marshal Mailtrap request payload", zap.Error(err))
		return fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mailtrapAPIURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error("Failed to create Mailtrap HTTP request", zap.Error(err))
		return fmt.Errorf("failed to create http request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Token", s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("Failed to send request to Mailtrap", zap.Error(err))
		return fmt.Errorf("failed to send request to Mailtrap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Mailtrap API request failed", zap.Int("statusCode", resp.StatusCode))
		return fmt.Errorf("Mailtrap API request failed with status code %d", resp.StatusCode)
	}

	s.logger.Info("Email sent successfully via Mailtrap", zap.String("toEmail", recipient), zap.String("category", category))
	return nil
}
