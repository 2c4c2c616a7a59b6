package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"kanbaniq/internal/providers/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []mailer.Message
	calls    map[string]int
	failFor  map[string]error
	failN    map[string]int
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func newFakeSender() *fakeSender {
	return &fakeSender{calls: map[string]int{}, failFor: map[string]error{}, failN: map[string]int{}}
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[msg.To]++
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	if f.failN[msg.To] > 0 {
		f.failN[msg.To]--
		return errors.New("smtp: 451 try again later")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) callsTo(to string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[to]
}

type fakePublisher struct {
	mu       sync.Mutex
	keys     []string
	payloads [][]byte
	err      error
	closed   bool
}

func (p *fakePublisher) Publish(ctx context.Context, key string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func jobTo(to string) Job {
	return Job{ID: "job-" + to, Kind: KindTaskCreated, To: to, Subject: "subject", Text: "body"}
}

func TestRetryPolicy(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()
	policy := RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := policy.Do(ctx, func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("temporary")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := policy.Do(ctx, func(context.Context) error {
			calls++
			return errors.New("still down")
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Contains(t, err.Error(), "after 3 attempt(s)")
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		calls := 0
		err := policy.Do(ctx, func(context.Context) error {
			calls++
			return fmt.Errorf("%w: mailbox unavailable", mailer.ErrPermanent)
		})
		assert.ErrorIs(t, err, mailer.ErrPermanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryPolicy{MaxAttempts: 5, Backoff: time.Hour}
		calls := 0
		err := slow.Do(ctx, func(context.Context) error {
			calls++
			cancel()
			return errors.New("down")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestDirectDispatcherIsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)
	sender := newFakeSender()
	sender.failFor["broken@example.com"] = errors.New("connection refused")
	sender.failN["flaky@example.com"] = 1

	d := NewDirectDispatcher(sender, RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond}, 2, zap.NewNop())
	err := d.Dispatch(context.Background(), []Job{
		jobTo("ok@example.com"),
		jobTo("broken@example.com"),
		jobTo("flaky@example.com"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken@example.com")
	assert.NotContains(t, err.Error(), "flaky@example.com")
	assert.Len(t, sender.sent, 2)
	assert.Equal(t, 2, sender.callsTo("broken@example.com"))
	assert.Equal(t, 2, sender.callsTo("flaky@example.com"))
}

func TestDirectDispatcherBoundsConcurrency(t *testing.T) {
	defer goleak.VerifyNone(t)
	sender := newFakeSender()
	sender.delay = 20 * time.Millisecond

	jobs := make([]Job, 0, 8)
	for i := 0; i < 8; i++ {
		jobs = append(jobs, jobTo(fmt.Sprintf("user%d@example.com", i)))
	}
	d := NewDirectDispatcher(sender, RetryPolicy{MaxAttempts: 1}, 3, zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), jobs))
	assert.Len(t, sender.sent, 8)
	assert.LessOrEqual(t, sender.maxSeen.Load(), int32(3))
}

func TestQueueDispatcherKeysByRecipient(t *testing.T) {
	defer goleak.VerifyNone(t)
	pub := &fakePublisher{}
	d := NewQueueDispatcher(pub, zap.NewNop())

	require.NoError(t, d.Dispatch(context.Background(), []Job{jobTo("a@example.com"), jobTo("b@example.com")}))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, pub.keys)

	var decoded Job
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, "job-a@example.com", decoded.ID)

	pub.err = errors.New("broker down")
	err := d.Dispatch(context.Background(), []Job{jobTo("c@example.com")})
	assert.ErrorContains(t, err, "broker down")

	require.NoError(t, d.Close())
	assert.True(t, pub.closed)
}
