package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nodepress/demo-control-plane/internal/config"
	emailProvider "github.com/nodepress/demo-control-plane/pkg/email"
	"github.com/nodepress/demo-control-plane/pkg/logger"
)

type emailSender struct {
	sender     emailProvider.Sender
	config     config.EmailConfig
	demoConfig config.DemoConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	config config.EmailConfig,
	demoConfig config.DemoConfig,
) *emailSender {
	return &emailSender{
		sender:     sender,
		config:     config,
		demoConfig: demoConfig,
	}
}

type verificationEmailInput struct {
	Name      string
	VerifyURL string
}

func (s *emailSender) SendVerificationEmail(ctx context.Context, email, name, token string) error {
	subject := "Confirm your demo request"

	templateInput := verificationEmailInput{
		Name:      name,
		VerifyURL: fmt.Sprintf("https://%s/api/v1/demos/verify/%s", s.demoConfig.BaseDomain, token),
	}

	return s.send(email, subject, s.config.Templates.Verification, templateInput)
}

type credentialsEmailInput struct {
	AccessURL     string
	AdminEmail    string
	AdminPassword string
	ExpiresAt     string
}

func (s *emailSender) SendCredentialsEmail(ctx context.Context, email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) error {
	subject := "Your demo environment is ready"

	templateInput := credentialsEmailInput{
		AccessURL:     fmt.Sprintf("https://%s.%s", subdomain, s.demoConfig.BaseDomain),
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		ExpiresAt:     expiresAt.UTC().Format(time.RFC1123),
	}

	return s.send(email, subject, s.config.Templates.Credentials, templateInput)
}

type expirationWarningInput struct {
	AccessURL string
	ExpiresAt string
}

func (s *emailSender) SendExpirationWarning(ctx context.Context, email, subdomain string, expiresAt time.Time) error {
	subject := "Your demo expires soon"

	templateInput := expirationWarningInput{
		AccessURL: fmt.Sprintf("https://%s.%s", subdomain, s.demoConfig.BaseDomain),
		ExpiresAt: expiresAt.UTC().Format(time.RFC1123),
	}

	return s.send(email, subject, s.config.Templates.ExpirationWarning, templateInput)
}

func (s *emailSender) send(to, subject, templateName string, data interface{}) error {
	if !s.config.Enabled {
		logger.Info("email sending disabled, skipping",
			zap.String("to", to),
			zap.String("subject", subject),
		)
		return nil
	}

	sendInput := emailProvider.SendEmailInput{Subject: subject, To: to}

	if err := sendInput.GenerateBodyFromHTML(templateName, data); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
