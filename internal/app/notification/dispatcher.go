package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kanbaniq/internal/providers/mailer"
	"kanbaniq/internal/providers/queue"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dispatcher delivers rendered jobs, either by sending them right away or by
// handing them to a queue for the email worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, jobs []Job) error
	Close() error
}

// RetryPolicy retries a failing delivery with exponential backoff.
// Failures wrapping mailer.ErrPermanent are not retried.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Backoff
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, mailer.ErrPermanent) || attempt >= attempts {
			return fmt.Errorf("after %d attempt(s): %w", attempt, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		delay *= 2
	}
}

func (j Job) Message() mailer.Message {
	return mailer.Message{To: j.To, Subject: j.Subject, Text: j.Text, HTML: j.HTML}
}

type DirectDispatcher struct {
	sender      mailer.Sender
	policy      RetryPolicy
	concurrency int
	logger      *zap.SugaredLogger
}

func NewDirectDispatcher(sender mailer.Sender, policy RetryPolicy, concurrency int, logger *zap.Logger) *DirectDispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &DirectDispatcher{
		sender:      sender,
		policy:      policy,
		concurrency: concurrency,
		logger:      logger.Sugar(),
	}
}

// Dispatch sends every job with at most concurrency sends in flight. A failed
// job does not stop the others; all failures are returned joined.
func (d *DirectDispatcher) Dispatch(ctx context.Context, jobs []Job) error {
	errs := make([]error, len(jobs))
	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			err := d.policy.Do(ctx, func(ctx context.Context) error {
				return d.sender.Send(ctx, job.Message())
			})
			if err != nil {
				errs[i] = fmt.Errorf("email %s (%s) to %s: %w", job.ID, job.Kind, job.To, err)
				return nil
			}
			d.logger.Debugw("Email sent", "job_id", job.ID, "kind", job.Kind, "to", job.To)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (d *DirectDispatcher) Close() error {
	return nil
}

type QueueDispatcher struct {
	publisher queue.Publisher
	logger    *zap.SugaredLogger
}

func NewQueueDispatcher(publisher queue.Publisher, logger *zap.Logger) *QueueDispatcher {
	return &QueueDispatcher{
		publisher: publisher,
		logger:    logger.Sugar(),
	}
}

// Dispatch publishes each job keyed by recipient, so one recipient's emails
// land on one partition in order.
func (d *QueueDispatcher) Dispatch(ctx context.Context, jobs []Job) error {
	var errs []error
	for _, job := range jobs {
		payload, err := json.Marshal(job)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode email %s: %w", job.ID, err))
			continue
		}
		if err := d.publisher.Publish(ctx, job.To, payload); err != nil {
			errs = append(errs, fmt.Errorf("enqueue email %s to %s: %w", job.ID, job.To, err))
			continue
		}
		d.logger.Debugw("Email queued", "job_id", job.ID, "kind", job.Kind, "to", job.To)
	}
	return errors.Join(errs...)
}

func (d *QueueDispatcher) Close() error {
	return d.publisher.Close()
}
