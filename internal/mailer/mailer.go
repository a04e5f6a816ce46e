package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jordan-levelle/CC-Server/internal/models"
	"github.com/jordan-levelle/CC-Server/internal/repository"
	"go.uber.org/zap"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Sender delivers an email to one or more recipients.
type Sender interface {
	Send(ctx context.Context, to []string, subject, html string) error
}

// Mailer sends transactional email through the Brevo HTTP API and records
// every outbound message in the emails collection.
type Mailer struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	emails     repository.EmailRepository
	logger     *zap.SugaredLogger
	configured bool
}

func New(apiKey, fromEmail, fromName string, emails repository.EmailRepository, logger *zap.SugaredLogger) *Mailer {
	m := &Mailer{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		emails:     emails,
		logger:     logger,
	}
	if apiKey != "" && fromEmail != "" {
		m.apiKey = apiKey
		m.fromEmail = fromEmail
		m.fromName = fromName
		m.configured = true
	}
	return m
}

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) error {
	if len(to) == 0 || subject == "" || html == "" {
		return errors.New("recipient, subject and content are required")
	}
	if !m.configured {
		m.logger.Warnf("mailer not configured, skipping email to %s", strings.Join(to, ", "))
		return nil
	}

	recipients := make([]map[string]string, 0, len(to))
	for _, addr := range to {
		if addr != "" {
			recipients = append(recipients, map[string]string{"email": addr})
		}
	}
	if len(recipients) == 0 {
		return nil
	}

	body, err := json.Marshal(sendEmailReq{
		Sender:      map[string]string{"email": m.fromEmail, "name": m.fromName},
		To:          recipients,
		Subject:     subject,
		HTMLContent: html,
	})
	if err != nil {
		return fmt.Errorf("marshal email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("api-key", m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		m.logger.Warnf("email provider returned status %d", resp.StatusCode)
		return fmt.Errorf("email provider error: status %d", resp.StatusCode)
	}

	if m.emails != nil {
		for _, addr := range to {
			rec := &models.EmailRecord{RecipientEmail: addr, Subject: subject, Content: html}
			if err := m.emails.Create(ctx, rec); err != nil {
				m.logger.Warnf("email audit record failed: %v", err)
			}
		}
	}
	return nil
}
