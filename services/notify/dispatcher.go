package notify

import (
	"context"
	"log"

	"kclms/config"
)

// Channel selects an outbound transport.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Template keys understood by the dispatcher.
const (
	TemplateWelcome             = "welcome"
	TemplateEnrollment          = "enrollment"
	TemplatePaymentConfirmation = "payment_confirmation"
	TemplateCertificate         = "certificate"
)

// Recipient carries the addressing data a transport may need. Email uses
// Email/Name, WhatsApp uses Phone.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Attachment is an optional document handed along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is a fully rendered outbound message.
type Message struct {
	Recipient   Recipient
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Transport delivers rendered messages over one channel.
type Transport interface {
	Name() string
	// Enabled reports whether the transport has the credentials it needs.
	// A disabled transport turns Send into a no-op returning false.
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

// Dispatcher fans templated notifications out to channel transports. It is
// strictly best-effort: every failure path logs and returns false, and no
// failure ever propagates to the caller as an error.
type Dispatcher struct {
	appName    string
	appURL     string
	transports map[Channel]Transport
}

// NewDispatcher wires the production transports from configuration.
func NewDispatcher(cfg *config.Config) *Dispatcher {
	return NewDispatcherWithTransports(cfg.AppName, cfg.AppURL, map[Channel]Transport{
		ChannelEmail:    newSendgridTransport(cfg),
		ChannelWhatsApp: newWhatsAppTransport(cfg),
	})
}

// NewDispatcherWithTransports builds a dispatcher over caller-supplied
// transports. Tests substitute fakes here.
func NewDispatcherWithTransports(appName, appURL string, transports map[Channel]Transport) *Dispatcher {
	return &Dispatcher{
		appName:    appName,
		appURL:     appURL,
		transports: transports,
	}
}

// Send renders templateKey for the given channel and delivers it. Returns
// whether delivery was handed off successfully; callers treat the result as
// informational only.
func (d *Dispatcher) Send(ctx context.Context, channel Channel, to Recipient, templateKey string, data TemplateData, attachments ...Attachment) bool {
	transport, ok := d.transports[channel]
	if !ok {
		log.Printf("[NOTIFY] Unknown channel %q, dropping %s notification", channel, templateKey)
		return false
	}
	if !transport.Enabled() {
		log.Printf("[NOTIFY] %s credentials not configured, skipping %s notification", transport.Name(), templateKey)
		return false
	}

	msg, err := d.buildMessage(channel, to, templateKey, data)
	if err != nil {
		log.Printf("[NOTIFY] Error rendering %s notification: %v", templateKey, err)
		return false
	}
	msg.Attachments = attachments

	if err := transport.Send(ctx, msg); err != nil {
		log.Printf("[NOTIFY] Error sending %s notification via %s: %v", templateKey, transport.Name(), err)
		return false
	}
	return true
}
