package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	SendVerificationEmailTaskName = "sendVerificationEmailTask"
	SendCredentialsEmailTaskName  = "sendCredentialsEmailTask"
	SendExpirationWarningTaskName = "sendExpirationWarningTask"
	SendEmailQueueName            = "sendEmailQueue"
)

type SendVerificationEmail struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func NewSendVerificationEmailTask(email, name, token string) (*asynq.Task, error) {
	data := SendVerificationEmail{
		Email: email,
		Name:  name,
		Token: token,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendVerificationEmailTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(SendEmailQueueName),
	), nil
}

type SendCredentialsEmail struct {
	Email         string    `json:"email"`
	Subdomain     string    `json:"subdomain"`
	AdminEmail    string    `json:"admin_email"`
	AdminPassword string    `json:"admin_password"`
	ExpiresAt     time.Time `json:"expires_at"`
}

func NewSendCredentialsEmailTask(email, subdomain, adminEmail, adminPassword string, expiresAt time.Time) (*asynq.Task, error) {
	data := SendCredentialsEmail{
		Email:         email,
		Subdomain:     subdomain,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		ExpiresAt:     expiresAt,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendCredentialsEmailTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(SendEmailQueueName),
	), nil
}

type SendExpirationWarning struct {
	Email     string    `json:"email"`
	Subdomain string    `json:"subdomain"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewSendExpirationWarningTask(email, subdomain string, expiresAt time.Time) (*asynq.Task, error) {
	data := SendExpirationWarning{
		Email:     email,
		Subdomain: subdomain,
		ExpiresAt: expiresAt,
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		SendExpirationWarningTaskName,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue(SendEmailQueueName),
	), nil
}
