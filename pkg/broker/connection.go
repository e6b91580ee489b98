package broker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/chimera-labs/chimera/pkg/chimeraerrors"
	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/resilience"
	"github.com/chimera-labs/chimera/pkg/types"
)

const (
	defaultHeartbeat          = 600 * time.Second
	defaultBlockedConnTimeout = 300 * time.Second
	defaultConnectMaxAttempts = 5
	defaultConnectBaseDelay   = time.Second
	defaultConnectMaxDelay    = 60 * time.Second
)

// ConnectionManager maintains at most one open broker connection per
// process (spec.md §4.1). A failed connect() attempt never leaves the
// manager holding a half-initialized connection: it is either a live
// *amqp.Connection or nil.
type ConnectionManager struct {
	cfg types.Config

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewConnectionManager(cfg types.Config) *ConnectionManager {
	return &ConnectionManager{cfg: cfg}
}

// Connect dials the broker, retrying with exponential backoff (base 1s,
// cap 60s) up to defaultConnectMaxAttempts times before surfacing a
// connection error; that error is marked retryable so a caller may try
// Connect again later.
func (m *ConnectionManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectLocked(ctx)
}

func (m *ConnectionManager) connectLocked(ctx context.Context) error {
	amqpCfg := amqp.Config{
		Heartbeat: defaultHeartbeat,
	}

	attempt := 0
	backOff := backoff.WithContext(resilience.ExponentialBackOff(resilience.RetryPolicy{
		MaxAttempts: defaultConnectMaxAttempts,
		BaseDelay:   defaultConnectBaseDelay,
		MaxDelay:    defaultConnectMaxDelay,
	}), ctx)

	var lastErr error
	operation := func() error {
		attempt++
		conn, err := amqp.DialConfig(m.dsn(), amqpCfg)
		if err != nil {
			lastErr = err
			log.Errorf(fmt.Sprintf("broker connect attempt %d/%d failed", attempt, defaultConnectMaxAttempts), err)
			return err
		}
		m.conn = conn
		m.watchBlocked(conn)
		log.Info(fmt.Sprintf("broker connection established after %d attempt(s)", attempt))
		return nil
	}

	if err := backoff.Retry(operation, backOff); err != nil {
		m.conn = nil
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return chimeraerrors.Wrap(chimeraerrors.KindSystem, "broker.connect_failed",
			"exhausted connection attempts to broker", lastErr).WithRetryable(true)
	}
	return nil
}

// Get returns the current connection, reconnecting first if it has been
// closed (spec.md §4.1).
func (m *ConnectionManager) Get(ctx context.Context) (*amqp.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil && !m.conn.IsClosed() {
		return m.conn, nil
	}
	if err := m.connectLocked(ctx); err != nil {
		return nil, err
	}
	return m.conn, nil
}

// Close is idempotent.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil || m.conn.IsClosed() {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// watchBlocked closes conn if the broker reports it blocked (flow-control,
// usually for running low on disk/memory) for longer than
// defaultBlockedConnTimeout, so Get()'s IsClosed() check treats a stuck
// connection as disconnected rather than hanging callers indefinitely
// (spec.md §4.1 "blocked-connection timeout ... causes the connection to be
// treated as closed").
func (m *ConnectionManager) watchBlocked(conn *amqp.Connection) {
	notify := conn.NotifyBlocked(make(chan amqp.Blocking, 1))
	go func() {
		timer := time.NewTimer(0)
		if !timer.Stop() {
			<-timer.C
		}
		for blocking := range notify {
			if !blocking.Active {
				timer.Stop()
				continue
			}
			timer.Reset(defaultBlockedConnTimeout)
			go func() {
				<-timer.C
				if !conn.IsClosed() {
					log.Warn("broker connection blocked past timeout, closing")
					_ = conn.Close()
				}
			}()
		}
	}()
}

func (m *ConnectionManager) dsn() string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(m.cfg.BrokerUser, m.cfg.BrokerPass),
		Host:   fmt.Sprintf("%s:%d", m.cfg.BrokerHost, m.cfg.BrokerPort),
		Path:   m.cfg.BrokerVHost,
	}
	return u.String()
}
