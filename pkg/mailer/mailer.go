package mailer

import (
	"context"
	"fmt"

	"studio-booking/pkg/utils"

	"github.com/wneessen/go-mail"
)

// Message is a plaintext email. Recipients in Bcc are hidden from each
// other (used for waiting-list notifications).
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	Body    string
}

// Sender sends emails synchronously. Callers must never treat a send
// failure as fatal to the state change that triggered it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPMailer struct {
	client *mail.Client
	from   string
}

func New(config utils.EmailConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(config.Port),
	}
	if config.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.User),
			mail.WithPassword(config.Password),
		)
	}

	client, err := mail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTPMailer{
		client: client,
		from:   config.From,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	message := mail.NewMsg()

	if err := message.From(m.from); err != nil {
		return &NotificationError{Op: "set from address", Err: err}
	}
	if len(msg.To) > 0 {
		if err := message.To(msg.To...); err != nil {
			return &NotificationError{Op: "set to addresses", Err: err}
		}
	}
	if len(msg.Bcc) > 0 {
		if err := message.Bcc(msg.Bcc...); err != nil {
			return &NotificationError{Op: "set bcc addresses", Err: err}
		}
	}

	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, message); err != nil {
		return &NotificationError{Op: "send email", Err: err}
	}

	return nil
}
