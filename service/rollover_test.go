package service

import (
	"context"
	"testing"
	"time"

	"bus_ticketing/model"

	"github.com/jonboulle/clockwork"
)

var ict = time.FixedZone("ICT", 7*3600)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, ict)
}

func TestRolloverCompletesAndSpawnsTomorrow(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 0, 5, 0, 0, ict))
	schedules := newFakeSchedules(model.Schedule{
		DTO:            model.DTO{ID: 1},
		BusId:          7,
		Route:          model.Route{From: "Vientiane", To: "Luang Prabang"},
		DepartureTime:  "08:00",
		ArrivalTime:    "17:00",
		Date:           day(2025, 6, 8),
		PricePerSeat:   150000,
		AvailableSeats: 3,
		Status:         model.ScheduleActive,
	})
	r := NewScheduleRollover(schedules, fakeBuses{7: {DTO: model.DTO{ID: 7}, Capacity: 40}}, clock, ict)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Created != 1 || report.Completed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}

	all := schedules.all()
	if len(all) != 2 {
		t.Fatalf("expected 2 schedules, got %d", len(all))
	}
	if all[0].Status != model.ScheduleCompleted {
		t.Fatalf("expected original to be completed, got %s", all[0].Status)
	}
	next := all[1]
	if next.Status != model.ScheduleActive || next.AvailableSeats != 40 {
		t.Fatalf("unexpected successor %+v", next)
	}
	if !next.Date.Equal(day(2025, 6, 11)) {
		t.Fatalf("expected successor dated tomorrow, got %v", next.Date)
	}
	if next.Route != all[0].Route || next.DepartureTime != "08:00" || next.PricePerSeat != 150000 {
		t.Fatalf("successor did not copy the run: %+v", next)
	}
}

func TestRolloverIsIdempotent(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 0, 0, 0, 0, ict))
	schedules := newFakeSchedules(model.Schedule{
		DTO: model.DTO{ID: 1}, BusId: 7, Date: day(2025, 6, 9), Status: model.ScheduleActive,
	})
	r := NewScheduleRollover(schedules, fakeBuses{7: {Capacity: 30}}, clock, ict)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	before := schedules.all()
	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Found != 0 || report.Created != 0 {
		t.Fatalf("second run mutated state: %+v", report)
	}
	if after := schedules.all(); len(after) != len(before) {
		t.Fatalf("second run created schedules: %d -> %d", len(before), len(after))
	}
}

func TestRolloverLeavesTodayAlone(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 23, 59, 0, 0, ict))
	schedules := newFakeSchedules(model.Schedule{
		DTO: model.DTO{ID: 1}, BusId: 7, Date: day(2025, 6, 10), Status: model.ScheduleActive,
	})
	r := NewScheduleRollover(schedules, fakeBuses{7: {Capacity: 30}}, clock, ict)
	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Found != 0 {
		t.Fatalf("today's schedule must not roll over: %+v", report)
	}
}

func TestRolloverFallsBackToPreviousSeatsForMissingBus(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 1, 0, 0, 0, ict))
	schedules := newFakeSchedules(model.Schedule{
		DTO: model.DTO{ID: 1}, BusId: 99, Date: day(2025, 6, 1), AvailableSeats: 12, Status: model.ScheduleActive,
	})
	r := NewScheduleRollover(schedules, fakeBuses{}, clock, ict)
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	all := schedules.all()
	if len(all) != 2 || all[1].AvailableSeats != 12 {
		t.Fatalf("expected seat fallback to 12, got %+v", all)
	}
}

func TestRolloverContinuesAfterRecordFailure(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 1, 0, 0, 0, ict))
	schedules := newFakeSchedules(
		model.Schedule{DTO: model.DTO{ID: 1}, BusId: 7, Date: day(2025, 6, 5), Status: model.ScheduleActive},
		model.Schedule{DTO: model.DTO{ID: 2}, BusId: 7, Date: day(2025, 6, 5), Status: model.ScheduleActive},
	)
	schedules.failFor[1] = true
	r := NewScheduleRollover(schedules, fakeBuses{7: {Capacity: 20}}, clock, ict)

	report, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Failed != 1 || report.Created != 1 {
		t.Fatalf("expected one failure and one rollover, got %+v", report)
	}
}
