package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "audio-scribe/internal/app/errors"
	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
)

// ErrJobNotFound is returned when a job id has no status record, either
// because it never existed or because its record expired.
var ErrJobNotFound = apperrors.New("job not found")

// Job is one queued transcription request.
type Job struct {
	ID         string        `json:"id"`
	Input      handler.Input `json:"input"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
}

// JobStatus is the stored state of an async job. Output is the engine
// payload byte for byte, exactly as the worker produced it.
type JobStatus struct {
	ID            string             `json:"id"`
	Status        string             `json:"status"`
	Output        json.RawMessage    `json:"output,omitempty"`
	Error         *handler.ErrorInfo `json:"error,omitempty"`
	DelayTime     int64              `json:"delayTime,omitempty"`
	ExecutionTime int64              `json:"executionTime,omitempty"`
}

// JobQueue is the async job transport. The Redis implementation backs the
// serve process; tests use in-memory fakes.
type JobQueue interface {
	Enqueue(ctx context.Context, job *Job) error
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)
	MarkInProgress(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id string, output []byte, executionMS int64) error
	MarkFailed(ctx context.Context, id string, errInfo *handler.ErrorInfo, executionMS int64) error
	Status(ctx context.Context, id string) (*JobStatus, error)
	Cancel(ctx context.Context, id string) (bool, error)
	Purge(ctx context.Context) (int64, error)
	Depth(ctx context.Context) (int64, error)
	Close() error
}

const (
	defaultListKey = "scribe:queue"
	jobKeyPrefix   = "scribe:job:"
	defaultTTL     = 24 * time.Hour
)

// RedisQueue implements JobQueue on a Redis list plus one hash per job.
type RedisQueue struct {
	rdb     *redis.Client
	listKey string
	ttl     time.Duration
}

// RedisConfig configures the queue connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int

	// ListKey overrides the queue list key, mainly for tests sharing a
	// Redis instance.
	ListKey string

	// TTL bounds how long finished job records stay readable.
	TTL time.Duration
}

// NewRedisQueue connects and verifies the Redis instance is reachable.
func NewRedisQueue(ctx context.Context, cfg RedisConfig) (*RedisQueue, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %v", cfg.Addr, err)
	}

	listKey := cfg.ListKey
	if listKey == "" {
		listKey = defaultListKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisQueue{rdb: rdb, listKey: listKey, ttl: ttl}, nil
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}

func (q *RedisQueue) jobKey(id string) string {
	return jobKeyPrefix + id
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *Job) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %v", err)
	}

	key := q.jobKey(job.ID)
	if err := q.rdb.HSet(ctx, key,
		"status", model.StatusInQueue,
		"payload", string(payload),
		"enqueued_ms", job.EnqueuedAt.UnixMilli(),
	).Err(); err != nil {
		return fmt.Errorf("failed to store job record: %v", err)
	}
	q.rdb.Expire(ctx, key, q.ttl)

	if err := q.rdb.LPush(ctx, q.listKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %v", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job. A nil job with a nil
// error means the timeout elapsed, or the popped job was cancelled in the
// meantime.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	vals, err := q.rdb.BRPop(ctx, timeout, q.listKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	// BRPop answers [key, value].
	if len(vals) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of %d values", len(vals))
	}

	var job Job
	if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
		return nil, fmt.Errorf("failed to decode queued job: %v", err)
	}

	status, err := q.rdb.HGet(ctx, q.jobKey(job.ID), "status").Result()
	if err == nil && status == model.StatusCancelled {
		return nil, nil
	}
	return &job, nil
}

func (q *RedisQueue) MarkInProgress(ctx context.Context, id string) error {
	key := q.jobKey(id)
	now := time.Now().UnixMilli()

	delay := int64(0)
	if enqueued, err := q.rdb.HGet(ctx, key, "enqueued_ms").Int64(); err == nil && enqueued > 0 {
		delay = now - enqueued
	}

	return q.rdb.HSet(ctx, key,
		"status", model.StatusInProgress,
		"started_ms", now,
		"delay_ms", delay,
	).Err()
}

func (q *RedisQueue) MarkCompleted(ctx context.Context, id string, output []byte, executionMS int64) error {
	key := q.jobKey(id)
	if err := q.rdb.HSet(ctx, key,
		"status", model.StatusCompleted,
		"output", string(output),
		"exec_ms", executionMS,
	).Err(); err != nil {
		return err
	}
	return q.rdb.Expire(ctx, key, q.ttl).Err()
}

func (q *RedisQueue) MarkFailed(ctx context.Context, id string, errInfo *handler.ErrorInfo, executionMS int64) error {
	key := q.jobKey(id)
	fields := []interface{}{
		"status", model.StatusFailed,
		"exec_ms", executionMS,
	}
	if errInfo != nil {
		fields = append(fields,
			"error_kind", errInfo.Kind,
			"error_message", errInfo.Message,
			"error_engine", errInfo.Engine,
		)
	}
	if err := q.rdb.HSet(ctx, key, fields...).Err(); err != nil {
		return err
	}
	return q.rdb.Expire(ctx, key, q.ttl).Err()
}

func (q *RedisQueue) Status(ctx context.Context, id string) (*JobStatus, error) {
	fields, err := q.rdb.HGetAll(ctx, q.jobKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrJobNotFound
	}

	st := &JobStatus{ID: id, Status: fields["status"]}
	if out := fields["output"]; out != "" {
		st.Output = json.RawMessage(out)
	}
	if kind := fields["error_kind"]; kind != "" {
		st.Error = &handler.ErrorInfo{
			Kind:    kind,
			Message: fields["error_message"],
			Engine:  fields["error_engine"],
		}
	}
	if v := fields["delay_ms"]; v != "" {
		st.DelayTime, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := fields["exec_ms"]; v != "" {
		st.ExecutionTime, _ = strconv.ParseInt(v, 10, 64)
	}
	return st, nil
}

// Cancel removes a queued job. Jobs already running or finished are not
// cancellable; Cancel reports false for them.
func (q *RedisQueue) Cancel(ctx context.Context, id string) (bool, error) {
	key := q.jobKey(id)
	fields, err := q.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if len(fields) == 0 {
		return false, ErrJobNotFound
	}
	if fields["status"] != model.StatusInQueue {
		return false, nil
	}

	if payload := fields["payload"]; payload != "" {
		q.rdb.LRem(ctx, q.listKey, 1, payload)
	}
	if err := q.rdb.HSet(ctx, key, "status", model.StatusCancelled).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Purge cancels every queued job and empties the list.
func (q *RedisQueue) Purge(ctx context.Context) (int64, error) {
	payloads, err := q.rdb.LRange(ctx, q.listKey, 0, -1).Result()
	if err != nil {
		return 0, err
	}

	for _, payload := range payloads {
		var job Job
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			continue
		}
		q.rdb.HSet(ctx, q.jobKey(job.ID), "status", model.StatusCancelled)
	}

	if err := q.rdb.Del(ctx, q.listKey).Err(); err != nil {
		return 0, err
	}
	return int64(len(payloads)), nil
}

func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.listKey).Result()
}

var _ JobQueue = (*RedisQueue)(nil)
