// Package mail sends operator notifications over SMTP.
package mail

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// Mail notifier configuration errors
var (
	ErrConfigMissingHost      = errors.New("mail: SMTP host is required")
	ErrConfigMissingFrom      = errors.New("mail: sender address is required")
	ErrConfigMissingRecipient = errors.New("mail: recipient address is required")
)

// Config holds the SMTP notifier configuration.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address
	From string
	// To is the operator address business issues are reported to
	To string
}

// Validate checks required fields and applies defaults.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrConfigMissingHost
	}
	if c.From == "" {
		return ErrConfigMissingFrom
	}
	if c.To == "" {
		return ErrConfigMissingRecipient
	}
	if c.Port == 0 {
		c.Port = 587
	}
	return nil
}

// sender abstracts gomail's dialer for testing.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier sends plain-text notification emails to the configured operator
// address. It implements dropship.Notifier.
type Notifier struct {
	config *Config
	sender sender
	logger *zap.Logger
}

// NewNotifier creates an SMTP notifier from the given configuration.
func NewNotifier(config *Config, logger *zap.Logger) (*Notifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Notifier{
		config: config,
		sender: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}, nil
}

// Notify sends one plain-text message. The send is synchronous but honors
// context cancellation before dialing.
func (n *Notifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.config.From)
	m.SetHeader("To", n.config.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return err
	}
	n.logger.Info("Sent notification email",
		zap.String("to", n.config.To),
		zap.String("subject", subject),
	)
	return nil
}

// Ensure Notifier implements the Notifier interface
var _ dropship.Notifier = (*Notifier)(nil)
