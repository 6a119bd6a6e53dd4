package email

import (
	"fmt"
	"html"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for outbound mail
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Enabled reports whether enough is configured to actually send mail
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromEmail != ""
}

// sendFunc matches smtp.SendMail
type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPEmailService implements EmailService over net/smtp
type SMTPEmailService struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewEmailService creates a new EmailService. With no SMTP host configured
// mails are logged and dropped.
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// SendWelcomeEmail greets a newly registered or enrolled student
func (s *SMTPEmailService) SendWelcomeEmail(toEmail, toName string) error {
	if !s.config.Enabled() {
		s.logger.Debug().
			Str("toEmail", toEmail).
			Msg("SMTP not configured - welcome email not sent")
		return nil
	}

	body := fmt.Sprintf(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Welcome to %s!</h2>
		<p>Hello %s,</p>
		<p>Your account has been created. You can now log in with this email address to see your
		batch, fees, attendance and the latest announcements.</p>
		<p>Best regards,<br>%s</p>
	</div>
</body>
</html>`, html.EscapeString(s.fromName()), html.EscapeString(toName), html.EscapeString(s.fromName()))

	return s.sendHTMLEmail(toEmail, "Welcome to "+s.fromName(), body)
}

func (s *SMTPEmailService) fromName() string {
	if s.config.FromName != "" {
		return s.config.FromName
	}
	return "the tuition center"
}

func (s *SMTPEmailService) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	msg := buildMessage(map[string]string{
		"From":         fmt.Sprintf("%s <%s>", s.fromName(), s.config.FromEmail),
		"To":           toEmail,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}, htmlBody)

	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)
	if err := s.send(addr, auth, s.config.FromEmail, []string{toEmail}, msg); err != nil {
		s.logger.Error().Err(err).Str("server", addr).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// buildMessage renders headers in a stable order followed by the body
func buildMessage(headers map[string]string, body string) []byte {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
