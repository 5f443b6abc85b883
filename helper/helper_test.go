package helper

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"bus_ticketing/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

type countingRollover struct{ runs atomic.Int32 }

func (c *countingRollover) Run(context.Context) (model.RolloverReport, error) {
	c.runs.Add(1)
	return model.RolloverReport{}, nil
}

func TestStartScheduleRolloverRunsImmediately(t *testing.T) {
	r := &countingRollover{}
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC))
	s, err := StartScheduleRollover(context.Background(), r, time.UTC, clock)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Shutdown()
	if got := r.runs.Load(); got != 1 {
		t.Fatalf("expected one run at start, got %d", got)
	}
	if jobs := s.Jobs(); len(jobs) != 1 {
		t.Fatalf("expected one daily job, got %d", len(jobs))
	}
}

type fakeSweep struct {
	qr       int
	bookings int
}

func (f *fakeSweep) ExpireStale(context.Context) (int64, error) {
	f.qr++
	return 2, nil
}

func (f *fakeSweep) ExpireDeparted(context.Context) (int64, int64, error) {
	f.bookings++
	return 1, 1, nil
}

func TestSweepExpiredRunsBothHalves(t *testing.T) {
	f := &fakeSweep{}
	SweepExpired(context.Background(), f, f)
	if f.qr != 1 || f.bookings != 1 {
		t.Fatalf("expected both sweeps to run once, got qr=%d bookings=%d", f.qr, f.bookings)
	}
}

func TestStartExpirySweepRejectsBadSpec(t *testing.T) {
	f := &fakeSweep{}
	if _, err := StartExpirySweep(context.Background(), "not a spec", f, f); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
}

func TestParseTokenRejectsNonHMAC(t *testing.T) {
	secret := []byte("s3cret")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 5, "role": "admin"}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	token, err := ParseToken(signed, secret)
	if err != nil || !token.Valid {
		t.Fatalf("parse: %v", err)
	}
	claim, err := ClaimFromToken(token)
	if err != nil || claim.UserId != 5 || claim.Role != "admin" {
		t.Fatalf("unexpected claim %+v %v", claim, err)
	}

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"userId": 5}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := ParseToken(unsigned, secret); err == nil {
		t.Fatalf("expected none-signed token to be rejected")
	}
	if _, err := ParseToken(signed, []byte("other")); err == nil {
		t.Fatalf("expected wrong secret to be rejected")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("hunter22", hash) || CheckPasswordHash("wrong", hash) {
		t.Fatalf("password check mismatch")
	}
}

func TestStationSlug(t *testing.T) {
	if got := StationSlug("Vientiane Northern Bus Station"); got != "vientiane-northern-bus-station" {
		t.Fatalf("unexpected slug %q", got)
	}
}
