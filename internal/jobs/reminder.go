package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/navarro-barbers/agenda-api/internal/domain/schedule"
	"github.com/navarro-barbers/agenda-api/internal/models"
	"github.com/navarro-barbers/agenda-api/internal/notify"
)

// Store is the slice of the repository the sweep needs.
type Store interface {
	ListPendingReminders(ctx context.Context, date time.Time) ([]models.Appointment, error)
	MarkReminderSent(ctx context.Context, appointmentID uint) error
}

// reminderWindow is how far off the one-hour mark an appointment may be
// and still get this sweep's reminder. Must cover the sweep interval.
const reminderWindow = 5 * time.Minute

// Reminder sweeps every five minutes for confirmed or pending
// appointments roughly one hour away whose reminder was not sent yet.
// It only reads bookings and flips the flag, so it tolerates concurrent
// booking creation and cancellation without any coordination with the
// scheduling path.
type Reminder struct {
	repo   Store
	sender notify.Sender
	log    *zap.Logger
	cron   *cron.Cron
}

func NewReminder(repo Store, sender notify.Sender, log *zap.Logger) *Reminder {
	return &Reminder{
		repo:   repo,
		sender: sender,
		log:    log,
	}
}

func (j *Reminder) Start() {
	j.cron = cron.New()
	j.cron.AddFunc("*/5 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := j.Sweep(ctx, time.Now()); err != nil {
			j.log.Error("reminder sweep failed", zap.Error(err))
		}
	})
	j.cron.Start()
}

func (j *Reminder) Stop() {
	if j.cron != nil {
		j.cron.Stop()
	}
}

// Sweep runs one pass for the given wall-clock time.
func (j *Reminder) Sweep(ctx context.Context, now time.Time) error {
	target := now.Add(time.Hour)

	apps, err := j.repo.ListPendingReminders(ctx, target)
	if err != nil {
		return err
	}

	for _, ap := range apps {
		startMinutes, err := schedule.ToMinutes(ap.StartTime)
		if err != nil {
			continue
		}

		startsAt := time.Date(
			ap.Date.Year(), ap.Date.Month(), ap.Date.Day(),
			startMinutes/60, startMinutes%60, 0, 0,
			now.Location(),
		)

		diff := startsAt.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		if diff > reminderWindow {
			continue
		}

		message := fmt.Sprintf(
			"Hi %s! A reminder of your appointment with %s for %s at %s. Estimated duration: %d minutes.",
			ap.ClientName,
			ap.Barber.Name,
			ap.Service.Name,
			meridiem(ap.StartTime),
			ap.Service.DurationMin,
		)

		result := j.sender.Send(ctx, ap.ClientPhone, message)
		if !result.Success {
			j.log.Warn("reminder delivery failed",
				zap.Uint("appointment_id", ap.ID),
				zap.String("error", result.Error),
			)
			continue
		}

		if err := j.repo.MarkReminderSent(ctx, ap.ID); err != nil {
			j.log.Error("failed to mark reminder sent",
				zap.Uint("appointment_id", ap.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// meridiem renders "14:30" as "2:30 PM" for the client-facing message.
func meridiem(hm string) string {
	minutes, err := schedule.ToMinutes(hm)
	if err != nil {
		return hm
	}

	hour := minutes / 60
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}

	return fmt.Sprintf("%d:%02d %s", (hour+11)%12+1, minutes%60, period)
}
