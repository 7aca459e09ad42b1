package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Runner keeps a push connection alive until ctx is done.
type Runner interface {
	Run(ctx context.Context) error
}

// Subscription registers a bus consumer and returns its unsubscribe func.
type Subscription func() func()

// StartNotificationWorker registers the notification consumers and, when
// runner is non-nil, keeps it running in the background. The returned stop
// func waits for the runner to return after ctx is cancelled, then
// unsubscribes every consumer.
func StartNotificationWorker(ctx context.Context, runner Runner, logger *zap.Logger, subs ...Subscription) (stop func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	unsubs := make([]func(), 0, len(subs))
	for _, sub := range subs {
		unsubs = append(unsubs, sub())
	}

	var wg sync.WaitGroup
	if runner != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("realtime worker stopped", zap.Error(err))
				return
			}
			logger.Info("realtime worker stopped")
		}()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			wg.Wait()
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}
}
