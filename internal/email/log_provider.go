package email

import "craftlink_backend/internal/logger"

// LogProvider writes mail to the log instead of sending it. Used in
// development and in tests.
type LogProvider struct{}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(msg *Message) error {
	logger.Info("email (not sent)", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (p *LogProvider) SendVerification(to, token string) error {
	logger.Info("verification email (not sent)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) SendPasswordReset(to, token string) error {
	logger.Info("password reset email (not sent)", "to", to, "token", token)
	return nil
}

func (p *LogProvider) Close() error {
	return nil
}
