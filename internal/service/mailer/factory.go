package mailer

import (
	"log/slog"

	"github.com/dakflow/dakflow/internal/config"
)

// NewProvider selects the mail transport from configuration.
// A configured Resend API key wins; otherwise mail relays through
// the local SMTP transport.
func NewProvider(cfg *config.Config) (Provider, error) {
	if cfg.ResendAPIKey != "" {
		slog.Info("initializing mail transport", "transport", "resend")
		return NewResendProvider(cfg.ResendAPIKey), nil
	}

	slog.Info("initializing mail transport", "transport", "smtp", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	return NewSMTPProvider(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SendTimeout)
}
