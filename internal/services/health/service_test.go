package health

import (
	"context"
	"errors"
	"testing"
)

func TestStatusWithoutChecksIsOK(t *testing.T) {
	if got := NewService().Status(context.Background()); !got["ok"] {
		t.Fatalf("expected ok, got %v", got)
	}
}

func TestStatusReportsFailingCheck(t *testing.T) {
	svc := NewService()
	svc.Register("db", func(context.Context) error { return nil })
	svc.Register("redis", func(context.Context) error { return errors.New("connection refused") })
	svc.Register("skipped", nil)

	if got := svc.Status(context.Background()); got["ok"] {
		t.Fatalf("expected not ok, got %v", got)
	}
}
