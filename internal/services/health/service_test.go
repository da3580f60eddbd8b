package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

func TestCheck(t *testing.T) {
	if got := NewService(nil).Check(context.Background()); !got.OK || got.Database != "" {
		t.Fatalf("memory mode: unexpected status %+v", got)
	}
	if got := NewService(fakePinger{}).Check(context.Background()); !got.OK || got.Database != "ok" {
		t.Fatalf("healthy db: unexpected status %+v", got)
	}
	got := NewService(fakePinger{err: errors.New("connection refused")}).Check(context.Background())
	if got.OK || got.Database != "unreachable" || got.Error != "connection refused" {
		t.Fatalf("failing db: unexpected status %+v", got)
	}
}
