// Package mailer delivers notification e-mails over SMTP with bounded
// retries. Port 465 connects with implicit TLS; port 587 relies on
// STARTTLS when the server offers it.
package mailer

import (
	"regexp"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/config"
)

var htmlTagPattern = regexp.MustCompile("<.*?>")

type Mailer struct {
	dialer *gomail.Dialer
	sender string
	tries  uint64
	delay  backoff.BackOff
	logger *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	dialer.SSL = cfg.SMTPPort == 465

	tries := uint64(cfg.SMTPRetries)
	if tries == 0 {
		tries = 1
	}

	return &Mailer{
		dialer: dialer,
		sender: cfg.SMTPSender,
		tries:  tries,
		delay:  backoff.NewConstantBackOff(cfg.SMTPRetryDelay),
		logger: logger,
	}
}

// Send delivers one message to the first recipient with the rest on Bcc.
// The text body is derived from the HTML body when not supplied. Delivery
// is attempted up to the configured number of tries; exhaustion yields a
// SendError.
func (m *Mailer) Send(to string, bcc []string, subject, htmlBody, textBody string) error {
	if m.sender == "" {
		return apperrors.NewValidation("smtp sender not configured")
	}
	if to == "" {
		return apperrors.NewValidation("missing recipient address")
	}

	if textBody == "" {
		textBody = HTMLToText(htmlBody)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	if len(bcc) > 0 {
		msg.SetHeader("Bcc", bcc...)
	}
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	attempt := 0
	send := func() error {
		attempt++
		if err := m.dialer.DialAndSend(msg); err != nil {
			m.logger.WithFields(logrus.Fields{
				"to":      to,
				"subject": subject,
				"attempt": attempt,
			}).WithError(err).Warn("Mail delivery attempt failed")
			return err
		}
		return nil
	}

	policy := backoff.WithMaxRetries(m.delay, m.tries-1)
	if err := backoff.Retry(send, policy); err != nil {
		m.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).WithError(err).Error("Mail delivery failed after retries")
		return apperrors.NewSend("mail delivery failed", err)
	}
	return nil
}

// HTMLToText strips markup for the plain-text alternative.
func HTMLToText(html string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(html, ""))
}
