package worker

import (
	"context"
	"testing"
)

type blockingRunner struct {
	started chan struct{}
}

func (r blockingRunner) Run(ctx context.Context) error {
	close(r.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestStartNotificationWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runner := blockingRunner{started: make(chan struct{})}

	subscribed, unsubscribed := 0, 0
	sub := func() func() {
		subscribed++
		return func() { unsubscribed++ }
	}

	stop := StartNotificationWorker(ctx, runner, nil, sub, sub)
	<-runner.started
	if subscribed != 2 {
		t.Fatalf("expected 2 subscriptions, got %d", subscribed)
	}

	cancel()
	stop()
	stop()
	if unsubscribed != 2 {
		t.Fatalf("expected 2 unsubscribes, got %d", unsubscribed)
	}
}

func TestStartNotificationWorkerWithoutRunner(t *testing.T) {
	called := false
	stop := StartNotificationWorker(context.Background(), nil, nil, func() func() {
		return func() { called = true }
	})
	stop()
	if !called {
		t.Fatalf("expected unsubscribe")
	}
}
