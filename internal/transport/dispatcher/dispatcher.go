// Package dispatcher доставляет сохраненные уведомления в шину событий.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fsdevblog/docswap/internal/domain"
	"github.com/fsdevblog/docswap/internal/transport/events"
	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultPublishTimeout         = 5 * time.Second
	defaultLimitPerIteration      = 100
	defaultWorkers           uint = 4
	defaultMaxAttempts            = 3
	defaultBaseBackoff            = 200 * time.Millisecond
	defaultIdleInterval           = time.Second
)

// Dispatcher публикует уведомления, еще не отправленные в шину событий, и помечает их отправленными.
// Уведомление помечается только после успешной публикации, поэтому возможна повторная доставка.
type Dispatcher struct {
	publisher         Publisher
	svs               Servicer
	observer          Observer
	l                 *logrus.Entry
	limitPerIteration int
	workers           uint
	maxAttempts       int
	baseBackoff       time.Duration
	idleInterval      time.Duration
}

func New(svs Servicer, publisher Publisher, l *logrus.Logger) *Dispatcher {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "notifications",
		"module":    "dispatcher",
	})

	return &Dispatcher{
		publisher:         publisher,
		svs:               svs,
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		workers:           defaultWorkers,
		maxAttempts:       defaultMaxAttempts,
		baseBackoff:       defaultBaseBackoff,
		idleInterval:      defaultIdleInterval,
	}
}

// SetLimitPerIteration устанавливает кол-во уведомлений, обрабатываемых за одну итерацию.
func (d *Dispatcher) SetLimitPerIteration(limit int) *Dispatcher {
	d.limitPerIteration = limit
	return d
}

// SetWorkers устанавливает кол-во воркеров, публикующих уведомления.
func (d *Dispatcher) SetWorkers(workers uint) *Dispatcher {
	d.workers = max(workers, 1)
	return d
}

// SetRetry устанавливает кол-во попыток публикации и базовую паузу между ними.
func (d *Dispatcher) SetRetry(attempts int, baseBackoff time.Duration) *Dispatcher {
	d.maxAttempts = max(attempts, 1)
	d.baseBackoff = baseBackoff
	return d
}

// SetObserver устанавливает получателя статистики публикаций.
func (d *Dispatcher) SetObserver(o Observer) *Dispatcher {
	d.observer = o
	return d
}

// SetIdleInterval устанавливает паузу между итерациями, когда отправлять нечего.
func (d *Dispatcher) SetIdleInterval(interval time.Duration) *Dispatcher {
	d.idleInterval = interval
	return d
}

// Run обрабатывает уведомления в цикле до отмены контекста.
//
// Алгоритм работы:
//  1. Через сервисный слой запрашивается пачка неотправленных уведомлений (SetLimitPerIteration).
//  2. N воркеров (SetWorkers) публикуют уведомления в тему notifications.<Template>,
//     повторяя временные ошибки с экспоненциальной паузой и джиттером.
//  3. Успешно опубликованные уведомления помечаются отправленными.
func (d *Dispatcher) Run(ctx context.Context) {
	d.l.WithFields(logrus.Fields{
		"limitPerIteration": d.limitPerIteration,
		"workers":           d.workers,
	}).Info("Starting")

	for {
		err := d.process(ctx)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNoNotifications) && !errors.Is(err, context.Canceled) {
			d.l.WithError(err).Error("process error")
		}

		select {
		case <-ctx.Done():
			d.l.Info("Got stop signal, exiting...")
			return
		case <-time.After(d.idleInterval):
		}
	}
}

// process выполняет одну итерацию: выборка, публикация и отметка отправленных.
// Возвращает ErrNoNotifications если отправлять нечего.
func (d *Dispatcher) process(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck
	}

	notifications, err := d.produce(ctx)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	results := d.runWorkers(ctx, notifications)

	ids := make([]int64, 0, len(results))
	for _, result := range results {
		if result.Error == nil {
			ids = append(ids, result.Notification.ID)
		}
	}
	if d.observer != nil {
		d.observer.ObserveDispatched(len(ids), len(results)-len(ids))
	}
	if len(ids) == 0 {
		return fmt.Errorf("process: none of %d notifications were published", len(notifications))
	}

	// контекст отдельный от ctx: опубликованные уведомления надо пометить и при остановке.
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultServiceTimeout)
	defer cancel()

	if markErr := d.svs.MarkDispatched(reqCtx, ids); markErr != nil {
		return fmt.Errorf("process: %w", markErr)
	}
	return nil
}

type workerResult struct {
	WorkerID     uint
	Attempts     int
	Notification *domain.Notification
	Error        error
}

// runWorkers публикует уведомления параллельно (fan-out/fan-in) и ожидает конца работы воркеров.
func (d *Dispatcher) runWorkers(ctx context.Context, notifications []domain.Notification) []workerResult {
	taskCh := make(chan *domain.Notification, len(notifications))
	for i := range notifications {
		taskCh <- &notifications[i]
	}
	close(taskCh)

	resultCh := make(chan *workerResult, len(notifications))

	wg := new(sync.WaitGroup)
	for i := range d.workers {
		wg.Add(1)
		go d.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()
	close(resultCh)

	results := make([]workerResult, 0, len(notifications))
	for result := range resultCh {
		l := d.l.WithFields(logrus.Fields{
			"worker":         result.WorkerID,
			"notificationID": result.Notification.ID,
			"attempts":       result.Attempts,
		})
		if result.Error != nil {
			l.WithError(result.Error).Error("publish notification")
		} else {
			l.Debug("Published")
		}
		results = append(results, *result)
	}
	return results
}

func (d *Dispatcher) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.Notification,
	resultCh chan<- *workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- d.publish(ctx, workerID, task)
		}
	}
}

// publish публикует уведомление, повторяя попытку при ошибке. Пауза растет экспоненциально, для
// events.TemporaryError берется не меньше RetryAfter.
func (d *Dispatcher) publish(ctx context.Context, workerID uint, task *domain.Notification) *workerResult {
	event := events.NewNotificationEvent(*task)
	result := &workerResult{WorkerID: workerID, Notification: task}

	for attempt := range d.maxAttempts {
		result.Attempts = attempt + 1

		pubCtx, cancel := context.WithTimeout(ctx, defaultPublishTimeout)
		err := d.publisher.Publish(pubCtx, event.Subject(), event)
		cancel()
		if err == nil {
			result.Error = nil
			return result
		}
		result.Error = err

		if attempt == d.maxAttempts-1 {
			break
		}
		wait := jitter(d.baseBackoff << attempt)
		var tmp *events.TemporaryError
		if errors.As(err, &tmp) {
			wait = max(wait, tmp.RetryAfter)
		}

		select {
		case <-ctx.Done():
			result.Error = ctx.Err()
			return result
		case <-time.After(wait):
		}
	}
	return result
}

// produce получает пачку неотправленных уведомлений. Возвращает ErrNoNotifications, если их нет.
func (d *Dispatcher) produce(ctx context.Context) ([]domain.Notification, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	notifications, err := d.svs.GetUndispatched(produceCtx, d.limitPerIteration)
	if err != nil {
		return nil, fmt.Errorf("produce: %w", err)
	}
	if len(notifications) == 0 {
		return nil, ErrNoNotifications
	}
	return notifications, nil
}

// jitter возвращает случайную паузу в диапазоне [d/2, d].
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + rand.N(half+1) //nolint:gosec
}
