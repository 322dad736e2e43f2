package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/crowdinfra/crowdinfra-api/internal/events"
	"github.com/crowdinfra/crowdinfra-api/internal/service"
)

const defaultQueueSize = 256

// NotificationWorker delivers notifications off the request path. Events are
// queued by a dispatcher subscription and handled on one goroutine in
// publication order; when the queue is full the event is dropped and counted.
type NotificationWorker struct {
	notifier *service.NotificationService
	logger   *zap.Logger
	queue    chan events.Event
	dropped  atomic.Int64
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// StartNotificationWorker subscribes the worker to dispatcher and starts draining.
// The worker runs until Stop is called; request or signal cancellation does not
// end it, so events queued at shutdown are still delivered.
func StartNotificationWorker(dispatcher events.Dispatcher, notifier *service.NotificationService, logger *zap.Logger, queueSize int) *NotificationWorker {
	if dispatcher == nil || notifier == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	w := &NotificationWorker{
		notifier: notifier,
		logger:   logger,
		queue:    make(chan events.Event, queueSize),
	}
	for _, eventType := range service.NotifiedEvents {
		dispatcher.Subscribe(eventType, w.enqueue)
	}

	w.wg.Add(1)
	go w.run()
	return w
}

// Stop closes the queue and waits until every queued event has been handled.
func (w *NotificationWorker) Stop() {
	if w == nil {
		return
	}
	w.stopOnce.Do(func() { close(w.queue) })
	w.wg.Wait()
}

// Dropped returns how many events were discarded because the queue was full.
func (w *NotificationWorker) Dropped() int64 {
	if w == nil {
		return 0
	}
	return w.dropped.Load()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) (err error) {
	defer func() {
		// Publishing after Stop hits a closed channel.
		if recover() != nil {
			w.dropped.Add(1)
			err = nil
		}
	}()
	select {
	case w.queue <- event:
	default:
		w.dropped.Add(1)
		w.logger.Warn("notification queue full, event dropped",
			zap.String("event_type", string(event.Type)),
			zap.String("resource_id", event.ResourceID))
	}
	return nil
}

func (w *NotificationWorker) run() {
	defer w.wg.Done()
	for event := range w.queue {
		if err := w.notifier.Handle(context.Background(), event); err != nil {
			w.logger.Warn("notification failed",
				zap.String("event_type", string(event.Type)),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err))
		}
	}
	w.logger.Info("notification worker stopped", zap.Int64("dropped", w.dropped.Load()))
}
