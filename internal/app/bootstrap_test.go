package app

import (
	"testing"

	"kanbaniq/internal/app/notification"
	"kanbaniq/internal/config"
	"kanbaniq/internal/providers/mailer"
	"kanbaniq/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewSender(t *testing.T) {
	cfg := &config.Config{MailDriver: config.MailDriverLog}
	assert.IsType(t, &mailer.LogSender{}, NewSender(cfg, zap.NewNop()))

	cfg = &config.Config{MailDriver: config.MailDriverSMTP, SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPFrom: "noreply@example.com"}
	assert.IsType(t, &mailer.SMTPSender{}, NewSender(cfg, zap.NewNop()))
}

func TestNewDispatcherDirect(t *testing.T) {
	cfg := &config.Config{
		EmailDispatch:    config.DispatchDirect,
		MailDriver:       config.MailDriverLog,
		EmailConcurrency: 2,
		EmailMaxAttempts: 1,
	}
	d, pingers, err := NewDispatcher(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notification.DirectDispatcher{}, d)
	assert.Empty(t, pingers)
	require.NoError(t, d.Close())
}

func TestNewDispatcherKafkaAddsPinger(t *testing.T) {
	cfg := &config.Config{
		EmailDispatch:   config.DispatchKafka,
		KafkaEmailTopic: "kanbaniq.emails",
	}
	d, pingers, err := NewDispatcher(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notification.QueueDispatcher{}, d)
	require.Len(t, pingers, 1)
	assert.Equal(t, "Kafka", pingers[0].Name())
	require.NoError(t, d.Close())
}

func TestNewVerifierHS256(t *testing.T) {
	cfg := &config.Config{AuthMode: config.AuthModeHS256, AuthHS256Secret: "secret", FirebaseProjectID: "kanbaniq"}
	v, err := NewVerifier(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, v)
	v.Close()
}

func TestNewEmailWorkerRequiresQueue(t *testing.T) {
	cfg := &config.Config{EmailDispatch: config.DispatchDirect}
	_, _, err := NewEmailWorker(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "EMAIL_DISPATCH")
}

func TestBootstrapRejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{AuthMode: "basic", MailDriver: config.MailDriverLog, EmailDispatch: config.DispatchDirect}
	_, err := Bootstrap(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestCloseReleasesDatabaseLast(t *testing.T) {
	conn := testutil.NewDB(t)
	a := &Application{logger: zap.NewNop()}
	require.NoError(t, a.trackDB(conn))

	var order []string
	a.closers = append(a.closers, func() error {
		sqlDB, err := conn.DB()
		require.NoError(t, err)
		if sqlDB.Ping() == nil {
			order = append(order, "dispatcher")
		}
		return nil
	})

	a.Close()

	assert.Equal(t, []string{"dispatcher"}, order, "later resources close while the pool is still open")
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
	assert.Nil(t, a.closers)
}
