package lifecycle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	for _, name := range []string{"store", "scheduler", "scanner"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("ignored", nil)

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if strings.Join(order, ",") != "scanner,scheduler,store" {
		t.Fatalf("unexpected order: %v", order)
	}
	if err := m.Shutdown(context.Background()); err != nil || len(order) != 3 {
		t.Fatalf("second shutdown must be a no-op")
	}
}

func TestShutdownJoinsErrorsAndRecovers(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	m := New(time.Second, zap.New(core))
	boom := errors.New("boom")
	ran := false
	m.Register("last", func(context.Context) error { ran = true; return nil })
	m.Register("failing", func(context.Context) error { return boom })
	m.Register("panicking", func(context.Context) error { panic("bad hook") })

	err := m.Shutdown(context.Background())
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "panicking: panic: bad hook") {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran {
		t.Fatalf("hooks after a failure must still run")
	}
	if logs.FilterMessage("shutdown hook failed").Len() != 2 {
		t.Fatalf("expected both failures to be logged")
	}
}

func TestShutdownAppliesTimeout(t *testing.T) {
	m := New(10*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if err := m.Shutdown(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}

func TestSignalContextFollowsParent(t *testing.T) {
	m := New(0, nil)
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := m.SignalContext(parent)
	defer stop()

	cancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatalf("signal context must follow its parent")
	}
}
