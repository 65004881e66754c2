package mailer_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/config"
	"cablestock-service/internal/mailer"
)

func TestHTMLToText(t *testing.T) {
	html := "<h3>Stok Uyarısı</h3>\n<p><b>Mavi</b> renkli kablonun stoğu <b>2</b> (Min: 5).</p>"
	text := mailer.HTMLToText(html)

	assert.NotContains(t, text, "<")
	assert.Contains(t, text, "Stok Uyarısı")
	assert.Contains(t, text, "Mavi")
}

func TestSend_RequiresSender(t *testing.T) {
	cfg := &config.Config{SMTPHost: "localhost", SMTPPort: 587, SMTPRetries: 3}
	m := mailer.New(cfg, logrus.New())

	err := m.Send("to@x.com", nil, "subject", "<p>body</p>", "")

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestSend_RequiresRecipient(t *testing.T) {
	cfg := &config.Config{SMTPHost: "localhost", SMTPPort: 587, SMTPSender: "noreply@x.com", SMTPRetries: 3}
	m := mailer.New(cfg, logrus.New())

	err := m.Send("", nil, "subject", "<p>body</p>", "")

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
}
