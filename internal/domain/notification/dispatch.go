package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medbook/booking/internal/domain/appointment"
	"github.com/medbook/booking/internal/domain/user"
	"github.com/medbook/booking/internal/platform/notify"
)

// AppointmentFinder resolves the appointment a notification refers to.
type AppointmentFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

// UserFinder resolves the patient of an appointment.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// DispatchResult counts the outcomes of one dispatch pass.
type DispatchResult struct {
	Sent   int
	Failed int
}

// Dispatcher e-mails pending notifications to the patient of their
// appointment. Every notification is attempted once: it ends up sent or
// failed, and failed ones are not picked up again.
type Dispatcher struct {
	repo         Repository
	appointments AppointmentFinder
	users        UserFinder
	sender       notify.EmailSender
	templates    *notify.TemplateEngine
	logger       zerolog.Logger
	now          func() time.Time
}

func NewDispatcher(repo Repository, appointments AppointmentFinder, users UserFinder,
	sender notify.EmailSender, templates *notify.TemplateEngine, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:         repo,
		appointments: appointments,
		users:        users,
		sender:       sender,
		templates:    templates,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// RunOnce processes the notifications pending when it starts. It stops
// early, without error, when ctx is cancelled.
func (d *Dispatcher) RunOnce(ctx context.Context) (DispatchResult, error) {
	var res DispatchResult
	pending, err := d.repo.FindPending(ctx)
	if err != nil {
		return res, fmt.Errorf("find pending notifications: %w", err)
	}

	for _, n := range pending {
		if ctx.Err() != nil {
			break
		}
		log := d.logger.With().Str("notification_id", n.ID.String()).Str("type", string(n.Type)).Logger()

		status := StatusSent
		if err := d.deliver(ctx, n); err != nil {
			log.Warn().Err(err).Msg("notification delivery failed")
			status = StatusFailed
		}

		var sentAt *time.Time
		if status == StatusSent {
			now := d.now()
			sentAt = &now
		}
		if _, err := d.repo.UpdateStatus(ctx, n.ID, status, sentAt); err != nil {
			return res, fmt.Errorf("record status of notification %s: %w", n.ID, err)
		}
		if status == StatusSent {
			res.Sent++
			log.Info().Msg("notification sent")
		} else {
			res.Failed++
		}
	}
	return res, nil
}

func (d *Dispatcher) deliver(ctx context.Context, n *Notification) error {
	appt, err := d.appointments.FindByID(ctx, n.AppointmentID)
	if err != nil {
		return fmt.Errorf("resolve appointment %s: %w", n.AppointmentID, err)
	}
	patient, err := d.users.FindByID(ctx, appt.PatientID)
	if err != nil {
		return fmt.Errorf("resolve patient %s: %w", appt.PatientID, err)
	}

	subject, body, err := d.templates.Render(string(n.Type), map[string]string{
		"patient_name": patient.FirstName + " " + patient.LastName,
		"date":         appt.StartDatetime.Format("2006-01-02"),
		"start":        appt.StartDatetime.Format("15:04"),
		"end":          appt.EndDatetime.Format("15:04"),
	})
	if err != nil {
		return err
	}
	return d.sender.SendEmail(ctx, patient.Email, subject, body)
}
