package notify

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"kclms/config"
)

const whatsappAPIURL = "https://graph.facebook.com/v18.0"

// whatsappTransport delivers chat messages through the WhatsApp Business
// Cloud API. Only the text body is sent; attachments are email-only.
type whatsappTransport struct {
	token         string
	phoneNumberID string
	client        *resty.Client
}

var _ Transport = (*whatsappTransport)(nil)

func newWhatsAppTransport(cfg *config.Config) *whatsappTransport {
	return &whatsappTransport{
		token:         cfg.WhatsAppAPIToken,
		phoneNumberID: cfg.WhatsAppPhoneNumberID,
		client:        resty.New().SetBaseURL(whatsappAPIURL),
	}
}

func (t *whatsappTransport) Name() string { return "whatsapp" }

func (t *whatsappTransport) Enabled() bool { return t.token != "" && t.phoneNumberID != "" }

func (t *whatsappTransport) Send(ctx context.Context, msg Message) error {
	if msg.Recipient.Phone == "" {
		return fmt.Errorf("recipient has no phone number")
	}

	resp, err := t.client.R().
		SetContext(ctx).
		SetAuthToken(t.token).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"messaging_product": "whatsapp",
			"to":                msg.Recipient.Phone,
			"type":              "text",
			"text": map[string]string{
				"body": msg.TextBody,
			},
		}).
		Post(fmt.Sprintf("/%s/messages", t.phoneNumberID))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("whatsapp API returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
