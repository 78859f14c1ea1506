package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"kclms/config"
)

// sendgridTransport delivers email through the SendGrid v3 API.
type sendgridTransport struct {
	key       string
	fromName  string
	fromEmail string
}

var _ Transport = (*sendgridTransport)(nil)

func newSendgridTransport(cfg *config.Config) *sendgridTransport {
	return &sendgridTransport{
		key:       cfg.SendgridAPIKey,
		fromName:  cfg.AppName,
		fromEmail: cfg.EmailFrom,
	}
}

func (t *sendgridTransport) Name() string { return "email" }

func (t *sendgridTransport) Enabled() bool { return t.key != "" }

func (t *sendgridTransport) Send(ctx context.Context, msg Message) error {
	if msg.Recipient.Email == "" {
		return fmt.Errorf("recipient has no email address")
	}

	from := sgmail.NewEmail(t.fromName, t.fromEmail)
	to := sgmail.NewEmail(msg.Recipient.Name, msg.Recipient.Email)
	m := sgmail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	for _, a := range msg.Attachments {
		att := sgmail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.ContentType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}

	client := sendgrid.NewSendClient(t.key)
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid rejected message: status %d", resp.StatusCode)
	}
	return nil
}
