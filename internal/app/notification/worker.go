package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"kanbaniq/internal/providers/mailer"
	"kanbaniq/internal/providers/queue"
	"kanbaniq/internal/providers/redis"
	"kanbaniq/internal/utils"

	"go.uber.org/zap"
)

const sentMarkerTTL = 24 * time.Hour

// Worker drains the email queue. Each job is sent at most once per marker
// lifetime; jobs that cannot be delivered go to the dead-letter destination.
type Worker struct {
	consumer queue.Consumer
	dlq      queue.Publisher
	sender   mailer.Sender
	policy   RetryPolicy
	redisP   *redis.RedisProvider
	logger   *zap.SugaredLogger
}

func NewWorker(
	consumer queue.Consumer,
	dlq queue.Publisher,
	sender mailer.Sender,
	policy RetryPolicy,
	redisP *redis.RedisProvider,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		consumer: consumer,
		dlq:      dlq,
		sender:   sender,
		policy:   policy,
		redisP:   redisP,
		logger:   logger.Sugar(),
	}
}

// Run consumes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Infow("Email worker started")
	err := w.consumer.Consume(ctx, w.Handle)
	w.logger.Infow("Email worker stopped", "error", err)
	return err
}

// Handle processes one queued message. A nil return acknowledges it.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		return w.deadLetter(ctx, msg, fmt.Errorf("malformed payload: %w", err))
	}
	if job.ID == "" || job.To == "" {
		return w.deadLetter(ctx, msg, fmt.Errorf("malformed payload: missing id or recipient"))
	}

	marker := utils.EmailSentKey(job.ID)
	fresh, err := w.redisP.SetNX(ctx, marker, time.Now().Unix(), sentMarkerTTL).Result()
	if err != nil {
		// Without Redis a duplicate is possible; losing the email is worse.
		w.logger.Warnw("Sent-marker unavailable, sending anyway", "job_id", job.ID, "error", err)
		fresh = true
	}
	if !fresh {
		w.logger.Infow("Skipping already sent email", "job_id", job.ID, "kind", job.Kind)
		return nil
	}

	err = w.policy.Do(ctx, func(ctx context.Context) error {
		return w.sender.Send(ctx, job.Message())
	})
	if err == nil {
		w.logger.Infow("Email sent", "job_id", job.ID, "kind", job.Kind, "to", job.To)
		return nil
	}

	w.redisP.Invalidate(context.WithoutCancel(ctx), marker)
	if ctx.Err() != nil {
		// Shutting down: leave the message for redelivery.
		return ctx.Err()
	}
	return w.deadLetter(ctx, msg, err)
}

func (w *Worker) deadLetter(ctx context.Context, msg queue.Message, reason error) error {
	w.logger.Errorw("Routing email job to dead-letter queue", "key", msg.Key, "error", reason)
	if err := w.dlq.Publish(ctx, msg.Key, msg.Value); err != nil {
		return fmt.Errorf("dead-letter publish failed: %w", err)
	}
	return nil
}

// Close flushes the dead-letter publisher before the consumer, since both may
// share one NATS connection.
func (w *Worker) Close() error {
	derr := w.dlq.Close()
	if err := w.consumer.Close(); err != nil {
		return err
	}
	return derr
}
