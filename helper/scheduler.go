package helper

import (
	"context"
	"time"

	"bus_ticketing/logger"
	"bus_ticketing/model"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"
)

// RolloverRunner is the daily schedule sweep.
type RolloverRunner interface {
	Run(ctx context.Context) (model.RolloverReport, error)
}

// StartScheduleRollover runs the rollover once now and then every day at
// 00:00 in loc. Stop the returned scheduler on shutdown.
func StartScheduleRollover(ctx context.Context, r RolloverRunner, loc *time.Location, clock clockwork.Clock) (gocron.Scheduler, error) {
	opts := []gocron.SchedulerOption{gocron.WithLocation(loc)}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	task := func() {
		if _, err := r.Run(ctx); err != nil {
			logger.Log.Error("[SCHEDULER] schedule rollover failed", "error", err)
		}
	}

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(0, 0, 0),
			),
		),
		gocron.NewTask(task),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}

	task()
	s.Start()
	logger.Log.Info("[SCHEDULER] schedule rollover started", "at", "00:00", "zone", loc.String())
	return s, nil
}

// QRExpirer and BookingExpirer are the two halves of the expiry sweep.
type QRExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

type BookingExpirer interface {
	ExpireDeparted(ctx context.Context) (completed, expired int64, err error)
}

// SweepExpired expires stale QR codes and closes bookings whose bus left.
func SweepExpired(ctx context.Context, qr QRExpirer, bookings BookingExpirer) {
	if _, err := qr.ExpireStale(ctx); err != nil {
		logger.Log.Error("[SCHEDULER] QR expiry sweep failed", "error", err)
	}
	completed, expired, err := bookings.ExpireDeparted(ctx)
	if err != nil {
		logger.Log.Error("[SCHEDULER] booking expiry sweep failed", "error", err)
		return
	}
	if completed > 0 || expired > 0 {
		logger.Log.Info("[SCHEDULER] closed departed bookings", "completed", completed, "expired", expired)
	}
}

// StartExpirySweep runs SweepExpired on a five-field cron spec. Overlapping
// runs are skipped.
func StartExpirySweep(ctx context.Context, spec string, qr QRExpirer, bookings BookingExpirer) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(spec, func() { SweepExpired(ctx, qr, bookings) })
	if err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[SCHEDULER] expiry sweep started", "spec", spec)
	return c, nil
}
