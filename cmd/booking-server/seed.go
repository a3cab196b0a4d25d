package main

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medbook/booking/internal/domain/appointment"
	"github.com/medbook/booking/internal/domain/auditlog"
	"github.com/medbook/booking/internal/domain/availability"
	"github.com/medbook/booking/internal/domain/notification"
	"github.com/medbook/booking/internal/domain/practitioner"
	"github.com/medbook/booking/internal/domain/user"
	"github.com/medbook/booking/internal/platform/auth"
	"github.com/medbook/booking/internal/platform/db"
)

// seedPassword is the login password of every seeded account.
const seedPassword = "password123"

var specialties = []string{
	"General Practice",
	"Cardiology",
	"Dermatology",
	"Pediatrics",
	"Neurology",
	"Orthopedics",
	"Psychiatry",
	"Ophthalmology",
}

// seedCounts controls how much demo data one seed run inserts.
type seedCounts struct {
	Patients      int
	Practitioners int
	Appointments  int
}

func seedCmd() *cobra.Command {
	var counts seedCounts
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users, practitioners, slots and appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			logger := newLogger(cfg.Env, cfg.LogLevel)

			s := &seeder{
				users:         user.NewService(user.NewRepoPG(pool), auth.NewBcryptHasher(auth.DefaultCost)),
				practitioners: practitioner.NewService(practitioner.NewRepoPG(pool)),
				slots:         availability.NewService(availability.NewRepoPG(pool)),
				appointments:  appointment.NewService(appointment.NewRepoPG(pool)),
				notifications: notification.NewService(notification.NewRepoPG(pool)),
				audit:         auditlog.NewService(auditlog.NewRepoPG(pool)),
				logger:        logger,
				now:           time.Now().UTC(),
			}

			gofakeit.Seed(time.Now().UnixNano())
			if err := db.WithTx(ctx, pool, func(ctx context.Context) error {
				return s.run(ctx, counts)
			}); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Printf("Seeded %d patient(s), %d practitioner(s), %d appointment(s). Password: %s\n",
				counts.Patients, counts.Practitioners, counts.Appointments, seedPassword)
			return nil
		},
	}
	cmd.Flags().IntVar(&counts.Patients, "users", 10, "Number of patient accounts")
	cmd.Flags().IntVar(&counts.Practitioners, "practitioners", 3, "Number of practitioner accounts with profiles")
	cmd.Flags().IntVar(&counts.Appointments, "appointments", 20, "Number of appointments, each with a pending confirmation")
	return cmd
}

// seeder inserts demo data through the services, so seeded rows pass the
// same validation as API input.
type seeder struct {
	users         *user.Service
	practitioners *practitioner.Service
	slots         *availability.Service
	appointments  *appointment.Service
	notifications *notification.Service
	audit         *auditlog.Service
	logger        zerolog.Logger
	now           time.Time
}

func (s *seeder) run(ctx context.Context, counts seedCounts) error {
	if counts.Appointments > 0 && (counts.Patients == 0 || counts.Practitioners == 0) {
		return fmt.Errorf("appointments need at least one patient and one practitioner")
	}

	patients := make([]*user.User, 0, counts.Patients)
	for i := 0; i < counts.Patients; i++ {
		u, err := s.createUser(ctx, i, user.RolePatient)
		if err != nil {
			return err
		}
		patients = append(patients, u)
	}
	s.logger.Info().Int("count", len(patients)).Msg("patients seeded")

	profiles := make([]*practitioner.Practitioner, 0, counts.Practitioners)
	for i := 0; i < counts.Practitioners; i++ {
		u, err := s.createUser(ctx, counts.Patients+i, user.RolePractitioner)
		if err != nil {
			return err
		}
		duration := []int{15, 30, 45, 60}[gofakeit.Number(0, 3)]
		p, err := s.practitioners.Create(ctx, practitioner.CreateInput{
			UserID:          u.ID.String(),
			Specialty:       specialties[gofakeit.Number(0, len(specialties)-1)],
			Title:           "Dr.",
			DefaultDuration: &duration,
		})
		if err != nil {
			return fmt.Errorf("create practitioner: %w", err)
		}
		if err := s.createWeekOfSlots(ctx, p); err != nil {
			return err
		}
		profiles = append(profiles, p)
	}
	s.logger.Info().Int("count", len(profiles)).Msg("practitioners seeded")

	for i := 0; i < counts.Appointments; i++ {
		patient := patients[gofakeit.Number(0, len(patients)-1)]
		p := profiles[gofakeit.Number(0, len(profiles)-1)]

		day := s.workday(gofakeit.Number(1, 14))
		start := day.Add(time.Duration(gofakeit.Number(9, 16)) * time.Hour)
		end := start.Add(time.Duration(p.DefaultDuration) * time.Minute)

		a, err := s.appointments.Create(ctx, appointment.CreateInput{
			PatientID:      patient.ID.String(),
			PractitionerID: p.ID.String(),
			StartDatetime:  start.Format(time.RFC3339),
			EndDatetime:    end.Format(time.RFC3339),
			CreatedBy:      patient.ID.String(),
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		if _, err := s.notifications.Create(ctx, notification.CreateInput{
			AppointmentID: a.ID.String(),
			Type:          string(notification.TypeConfirmation),
		}); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		if _, err := s.audit.Create(ctx, auditlog.CreateInput{
			UserID:  patient.ID.String(),
			Action:  "appointment.create",
			Details: "seeded appointment " + a.ID.String(),
		}); err != nil {
			return fmt.Errorf("create audit log: %w", err)
		}
	}
	s.logger.Info().Int("count", counts.Appointments).Msg("appointments seeded")
	return nil
}

// createUser uses the index as an e-mail prefix so repeated fake addresses
// cannot collide within one run.
func (s *seeder) createUser(ctx context.Context, i int, role user.Role) (*user.User, error) {
	u, err := s.users.Create(ctx, user.CreateInput{
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Email:     fmt.Sprintf("%d.%s", i, gofakeit.Email()),
		Phone:     gofakeit.Phone(),
		Password:  seedPassword,
		Role:      string(role),
	})
	if err != nil {
		return nil, fmt.Errorf("create %s user: %w", role, err)
	}
	return u, nil
}

// createWeekOfSlots opens a 09:00-17:00 slot on each of the next seven
// days, with a weekly recurrence rule on the first one.
func (s *seeder) createWeekOfSlots(ctx context.Context, p *practitioner.Practitioner) error {
	for d := 1; d <= 7; d++ {
		day := s.workday(d)
		in := availability.CreateInput{
			PractitionerID: p.ID.String(),
			StartDatetime:  day.Add(9 * time.Hour).Format(time.RFC3339),
			EndDatetime:    day.Add(17 * time.Hour).Format(time.RFC3339),
		}
		if d == 1 {
			rule := "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"
			in.RecurrenceRule = &rule
		}
		if _, err := s.slots.Create(ctx, in); err != nil {
			return fmt.Errorf("create availability slot: %w", err)
		}
	}
	return nil
}

// workday returns midnight UTC, offset days from the seed start.
func (s *seeder) workday(offset int) time.Time {
	return s.now.Truncate(24 * time.Hour).AddDate(0, 0, offset)
}
