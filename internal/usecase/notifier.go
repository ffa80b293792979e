package usecase

import (
	"context"
	"fmt"

	"studio-booking/internal/data/repository"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

// Notifier is the single boundary between state mutations and email.
// Sending is best effort: a failed send is reported to the support
// address, and if that fails too the failure is recorded in the activity
// log. Errors never propagate to the caller, so a booking mutation is
// never rolled back because a mail server was down.
type Notifier struct {
	sender mailer.Sender
	cfg    utils.StudioConfig
	logs   repository.ActivityLogRepository
	log    *zap.Logger
}

func NewNotifier(sender mailer.Sender, cfg utils.StudioConfig, logs repository.ActivityLogRepository, log *zap.Logger) *Notifier {
	return &Notifier{
		sender: sender,
		cfg:    cfg,
		logs:   logs,
		log:    log.With(zap.String("component", "notifier")),
	}
}

// Send emails the given recipients. op names the operation for support
// reporting, e.g. "booking confirmation".
func (n *Notifier) Send(ctx context.Context, op string, to []string, subject, body string) {
	if len(to) == 0 {
		return
	}

	msg := mailer.Message{
		To:      to,
		Subject: n.cfg.SubjectPrefix + " " + subject,
		Body:    body,
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		n.reportFailure(ctx, &mailer.NotificationError{Op: op, Err: err})
	}
}

// SendBcc emails a group as BCC so recipients do not see each other's
// addresses; the studio address goes in To.
func (n *Notifier) SendBcc(ctx context.Context, op string, bcc []string, subject, body string) {
	if len(bcc) == 0 {
		return
	}

	msg := mailer.Message{
		To:      []string{n.cfg.Email},
		Bcc:     bcc,
		Subject: n.cfg.SubjectPrefix + " " + subject,
		Body:    body,
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		n.reportFailure(ctx, &mailer.NotificationError{Op: op, Err: err})
	}
}

// SendStudio emails the studio address, typically for bookings on events
// flagged email_studio_when_booked. Gated on the send-all-studio-emails
// setting.
func (n *Notifier) SendStudio(ctx context.Context, op, subject, body string) {
	if !n.cfg.SendAllStudioEmails {
		return
	}
	n.Send(ctx, op, []string{n.cfg.Email}, subject, body)
}

func (n *Notifier) reportFailure(ctx context.Context, nerr *mailer.NotificationError) {
	n.log.Error("Failed to send notification email",
		zap.String("operation", nerr.Op),
		zap.Error(nerr.Err),
	)

	support := mailer.Message{
		To:      []string{n.cfg.SupportEmail},
		Subject: n.cfg.SubjectPrefix + " EXCEPTION " + nerr.Op,
		Body:    fmt.Sprintf("Notification email failed during %s:\n\n%v", nerr.Op, nerr.Err),
	}

	if err := n.sender.Send(ctx, support); err == nil {
		return
	}

	// Support mail failed too; the activity log is the last resort.
	msg := fmt.Sprintf("Email notification and support email failed during %s (%v)", nerr.Op, nerr.Err)
	if err := n.logs.Log(ctx, msg); err != nil {
		n.log.Error("Failed to record notification failure in activity log",
			zap.String("operation", nerr.Op),
			zap.Error(err),
		)
	}
}
