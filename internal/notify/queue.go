package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is the outbound notification queue. Enqueue must be non-blocking from
// the pipeline's perspective: the core's responsibility ends at a successful
// enqueue, not at delivery. Implementations must be safe for concurrent use.
type Queue interface {
	EnqueueEmail(ctx context.Context, job EmailJob) error
	EnqueueSlack(ctx context.Context, job SlackJob) error
}

const (
	emailQueueKey = "notify:email"
	slackQueueKey = "notify:slack"
)

// JobKind identifies which queue a dequeued payload came from.
type JobKind string

const (
	KindEmail JobKind = "email"
	KindSlack JobKind = "slack"
)

// RedisQueue implements Queue using go-redis/v9 lists.
type RedisQueue struct {
	client *redis.Client
}

// NewRedisQueue creates a RedisQueue from a Redis URL.
func NewRedisQueue(redisURL string) (*RedisQueue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &RedisQueue{client: redis.NewClient(opts)}, nil
}

func (q *RedisQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *RedisQueue) Close() error {
	return q.client.Close()
}

func (q *RedisQueue) EnqueueEmail(ctx context.Context, job EmailJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}
	if err := q.client.RPush(ctx, emailQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue email job: %w", err)
	}
	return nil
}

func (q *RedisQueue) EnqueueSlack(ctx context.Context, job SlackJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal slack job: %w", err)
	}
	if err := q.client.RPush(ctx, slackQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue slack job: %w", err)
	}
	return nil
}

// Dequeue blocks up to timeout for the next job from either queue. The third
// return value is false when the timeout elapsed with nothing to do.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (JobKind, []byte, bool, error) {
	res, err := q.client.BLPop(ctx, timeout, emailQueueKey, slackQueueKey).Result()
	if err == redis.Nil {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("dequeue notification job: %w", err)
	}
	// BLPop returns [key, value].
	if len(res) != 2 {
		return "", nil, false, fmt.Errorf("dequeue notification job: unexpected reply length %d", len(res))
	}
	kind := KindEmail
	if res[0] == slackQueueKey {
		kind = KindSlack
	}
	return kind, []byte(res[1]), true, nil
}
