package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:   http.StatusBadRequest,
		KindUnauthorized: http.StatusUnauthorized,
		KindNotFound:     http.StatusNotFound,
		KindConflict:     http.StatusConflict,
		KindTooLarge:     http.StatusRequestEntityTooLarge,
		KindRateLimited:  http.StatusTooManyRequests,
		KindRenderFailed: http.StatusBadGateway,
		KindInternal:     http.StatusInternalServerError,
		Kind("bogus"):    http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := Status(kind); got != want {
			t.Fatalf("Status(%q) = %d, want %d", kind, got, want)
		}
	}
}

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	sentinel := NotFound("token not found")
	err := fmt.Errorf("download: %w", sentinel)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found, got %s", KindOf(err))
	}
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if KindOf(errors.New("boom")) != KindInternal {
		t.Fatalf("plain errors must be internal")
	}
}

func TestMessageHidesInternalCauses(t *testing.T) {
	err := Wrap(KindInternal, "db exploded", errors.New("connection refused"))
	if got := Message(err); got != "Internal server error" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(errors.New("secret detail")); got != "Internal server error" {
		t.Fatalf("unexpected message %q", got)
	}
	render := Wrap(KindRenderFailed, "PDF render failed", errors.New("chrome crashed"))
	if got := Message(render); got != "PDF render failed" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Message(New(KindTooLarge, "")); got != http.StatusText(http.StatusRequestEntityTooLarge) {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestIsComparesKindAndMessage(t *testing.T) {
	a := NotFound("Template not found")
	b := NotFound("Template not found")
	c := NotFound("Invalid or expired token")
	if !errors.Is(a, b) {
		t.Fatalf("expected equal sentinels to match")
	}
	if errors.Is(a, c) {
		t.Fatalf("expected different messages not to match")
	}
}
