package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hebeos_todo/internal/db"
	"hebeos_todo/internal/domain"
	"hebeos_todo/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"
)

const (
	opTimeout = 5 * time.Second
	scanCount = 100
)

var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "todo_store_operations_total",
		Help: "Todo store operations by outcome",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(storeOps)
}

type TodoRepository struct {
	manager *db.Manager
	ids     idSource
}

func NewTodoRepository(manager *db.Manager) *TodoRepository {
	return &TodoRepository{manager: manager}
}

// List enumerates every record under the namespace and fetches each one.
// Entries deleted between the scan and the read, and entries whose value does
// not parse, are skipped. Only a failed scan fails the call.
func (r *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, release, err := r.manager.Acquire(ctx)
	if err != nil {
		storeOps.WithLabelValues("list", "error").Inc()
		return nil, err
	}
	defer release()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := client.Scan(ctx, cursor, KeyPattern(), scanCount).Result()
		if err != nil {
			storeOps.WithLabelValues("list", "error").Inc()
			return nil, fmt.Errorf("scan todos: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	todos := make([]domain.Todo, 0, len(keys))
	for _, key := range keys {
		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			// deleted mid-scan or unreadable; drop the entry
			if !errors.Is(err, redis.Nil) {
				logger.Warn("todo fetch failed, skipping", "key", key, "error", err)
			}
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal(data, &rec); err != nil {
			logger.Warn("corrupt todo skipped", "key", key, "error", err)
			continue
		}
		todos = append(todos, todoFromRecord(key, rec))
	}

	storeOps.WithLabelValues("list", "ok").Inc()
	return todos, nil
}

// Create mints a fresh id, sets created_at to the same value and writes the
// record. There is no existence check; a fresh id is always treated as a
// fresh key.
func (r *TodoRepository) Create(ctx context.Context, t domain.Todo) (domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, release, err := r.manager.Acquire(ctx)
	if err != nil {
		storeOps.WithLabelValues("create", "error").Inc()
		return domain.Todo{}, err
	}
	defer release()

	id := r.ids.next()
	t.ID = id
	t.CreatedAt = id

	data, err := json.Marshal(t)
	if err != nil {
		storeOps.WithLabelValues("create", "error").Inc()
		return domain.Todo{}, fmt.Errorf("encode todo: %w", err)
	}
	if err := client.Set(ctx, EncodeKey(id), data, 0).Err(); err != nil {
		storeOps.WithLabelValues("create", "error").Inc()
		return domain.Todo{}, fmt.Errorf("store todo: %w", err)
	}

	storeOps.WithLabelValues("create", "ok").Inc()
	return t, nil
}

// Update merges partial fields over the stored record and writes it back.
// The id always comes from the caller's path value and created_at keeps its
// stored value no matter what the partial contains. Last write wins; there is
// no compare-and-swap.
func (r *TodoRepository) Update(ctx context.Context, id string, partial map[string]any) (domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, release, err := r.manager.Acquire(ctx)
	if err != nil {
		storeOps.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, err
	}
	defer release()

	key := EncodeKey(id)
	data, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		storeOps.WithLabelValues("update", "miss").Inc()
		return domain.Todo{}, ErrNotFound
	}
	if err != nil {
		storeOps.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, fmt.Errorf("fetch todo: %w", err)
	}

	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		storeOps.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	createdAt := asString(rec["created_at"])
	for k, v := range partial {
		if k == "id" || k == "created_at" {
			continue
		}
		rec[k] = v
	}
	rec["id"] = id
	if createdAt == "" {
		createdAt = id
	}
	rec["created_at"] = createdAt

	out, err := json.Marshal(rec)
	if err != nil {
		storeOps.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, fmt.Errorf("encode todo: %w", err)
	}
	if err := client.Set(ctx, key, out, 0).Err(); err != nil {
		storeOps.WithLabelValues("update", "error").Inc()
		return domain.Todo{}, fmt.Errorf("store todo: %w", err)
	}

	storeOps.WithLabelValues("update", "ok").Inc()
	return todoFromRecord(key, rec), nil
}

// Delete removes the record unconditionally. Deleting an absent id is not an
// error.
func (r *TodoRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, release, err := r.manager.Acquire(ctx)
	if err != nil {
		storeOps.WithLabelValues("delete", "error").Inc()
		return err
	}
	defer release()

	if err := client.Del(ctx, EncodeKey(id)).Err(); err != nil {
		storeOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("delete todo: %w", err)
	}
	storeOps.WithLabelValues("delete", "ok").Inc()
	return nil
}

// todoFromRecord normalizes a stored record. The id comes from the key, then
// from the record itself, then from the clock (legacy records may predate the
// id field). A missing created_at is backfilled from the id, which is itself
// a creation timestamp.
func todoFromRecord(key string, rec map[string]any) domain.Todo {
	id := DecodeKey(key)
	if id == "" {
		id = asString(rec["id"])
	}
	if id == "" {
		id = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}

	createdAt := asString(rec["created_at"])
	if createdAt == "" {
		createdAt = id
	}

	return domain.Todo{
		ID:        id,
		Title:     asString(rec["title"]),
		Content:   asString(rec["content"]),
		Deadline:  asString(rec["deadline"]),
		CreatedAt: createdAt,
		Completed: domain.Truthy(rec["completed"]),
	}
}

// asString reads a record field that should be a string but may be a number
// in records written by older clients.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
