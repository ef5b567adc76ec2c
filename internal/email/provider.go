package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use; services call them from goroutines.
type Provider interface {
	Send(msg *Message) error
	SendVerification(to, token string) error
	SendPasswordReset(to, token string) error
	Close() error
}

// TemplateRenderer turns a named template plus data into an HTML body.
type TemplateRenderer interface {
	Render(name string, data TemplateData) (string, error)
}
