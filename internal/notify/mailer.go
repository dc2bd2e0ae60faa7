package notify

import (
	"context"
	"fmt"

	"github.com/dentalcenter/practice-api/pkg/logging"
)

// Mailer composes the practice's transactional emails on top of an
// EmailSender. It satisfies the auth package's ResetMailer.
type Mailer struct {
	sender EmailSender
	logger *logging.Logger
}

func NewMailer(sender EmailSender, logger *logging.Logger) *Mailer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Mailer{sender: sender, logger: logger}
}

// SendPasswordReset emails a reset link. The link is already signed by the
// caller; this only formats and sends.
func (m *Mailer) SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error {
	if m == nil || m.sender == nil {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nWe received a request to reset your Dental Center password.\n\n"+
			"Reset it here: %s\n\nIf you did not request this, you can ignore this email.\n",
		toName, resetLink)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>We received a request to reset your Dental Center password.</p>"+
			`<p><a href="%s">Reset your password</a></p>`+
			"<p>If you did not request this, you can ignore this email.</p>",
		toName, resetLink)

	err := m.sender.Send(ctx, EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: "Reset your Dental Center password",
		Body:    body,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("notify: password reset email: %w", err)
	}
	return nil
}

// SendAppointmentConfirmation emails a booking confirmation to the patient.
func (m *Mailer) SendAppointmentConfirmation(ctx context.Context, toEmail, toName, dentistName, date, timeOfDay string) error {
	if m == nil || m.sender == nil {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour appointment with %s is booked for %s at %s.\n\n"+
			"Please arrive 10 minutes early.\n",
		toName, dentistName, date, timeOfDay)

	err := m.sender.Send(ctx, EmailMessage{
		To:      toEmail,
		ToName:  toName,
		Subject: fmt.Sprintf("Appointment confirmed for %s", date),
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("notify: appointment confirmation email: %w", err)
	}
	return nil
}
