package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"hebeos_todo/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when the backend cannot be reached after the
// retry budget is exhausted.
var ErrUnavailable = errors.New("redis unavailable")

const (
	maxConnectAttempts = 5
	connectBackoffStep = 50 * time.Millisecond
	maxConnectBackoff  = time.Second
)

// Manager hands out ready Redis clients. In shared mode one client is created
// lazily on first use and reused for every operation; a stale client found on
// reuse is rebuilt under the same lock, so concurrent callers cannot
// double-connect. In per-operation mode every Acquire dials fresh and the
// release func closes the client.
type Manager struct {
	opts   *redis.Options
	shared bool

	mu     sync.Mutex
	client *redis.Client
}

// NewManager parses the connection URL (redis://...) up front so a bad URL
// fails at startup rather than on first request.
func NewManager(url string, shared bool) (*Manager, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Manager{opts: opts, shared: shared}, nil
}

// Acquire returns a connected client and a release func the caller must
// invoke when done with it.
func (m *Manager) Acquire(ctx context.Context) (*redis.Client, func(), error) {
	if !m.shared {
		c, err := m.connect(ctx)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		if err := m.client.Ping(ctx).Err(); err == nil {
			return m.client, func() {}, nil
		}
		logger.Warn("shared redis connection stale, reconnecting")
		_ = m.client.Close()
		m.client = nil
	}

	c, err := m.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	m.client = c
	return m.client, func() {}, nil
}

// connect dials with a retry delay that grows linearly with the attempt
// count, capped at maxConnectBackoff.
func (m *Manager) connect(ctx context.Context) (*redis.Client, error) {
	var lastErr error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		c := redis.NewClient(m.opts)
		err := c.Ping(ctx).Err()
		if err == nil {
			return c, nil
		}
		lastErr = err
		_ = c.Close()
		logger.Error("redis connect failed", "attempt", attempt, "error", lastErr)

		delay := time.Duration(attempt) * connectBackoffStep
		if delay > maxConnectBackoff {
			delay = maxConnectBackoff
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// Ping checks backend reachability, for health endpoints.
func (m *Manager) Ping(ctx context.Context) error {
	client, release, err := m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return client.Ping(ctx).Err()
}

// Close releases the shared client, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.client == nil {
		return nil
	}
	err := m.client.Close()
	m.client = nil
	return err
}
