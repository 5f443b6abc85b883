package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedError(t *testing.T) {
	base := New(Expired, "QR code has expired")
	wrapped := fmt.Errorf("verify: %w", base)

	if got := KindOf(wrapped); got != Expired {
		t.Fatalf("expected %s, got %s", Expired, got)
	}
	if !Is(wrapped, Expired) {
		t.Fatalf("Is should match through wrapping")
	}
	if Is(wrapped, NotFound) {
		t.Fatalf("Is should not match a different kind")
	}
}

func TestKindOfPlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != "" {
		t.Fatalf("plain errors carry no kind, got %q", got)
	}
	if Is(nil, NotFound) {
		t.Fatalf("nil error matches no kind")
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(UpstreamFailure, "Failed to generate payment link", cause)
	if err.Error() != "Failed to generate payment link: dial tcp: timeout" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable through Unwrap")
	}
}
