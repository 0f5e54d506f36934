package mq

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type redisQueue struct {
	cli          *redis.Client
	stream       string
	maxLen       int64
	maxLenApprox bool
}

// NewRedis appends events to a Redis stream, trimmed to roughly maxLen entries.
func NewRedis(url, stream string, maxLen int64, approx bool) (Queue, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	if stream == "" {
		stream = "arcadehub:events"
	}
	return newRedisClient(redis.NewClient(opt), stream, maxLen, approx), nil
}

func newRedisClient(cli *redis.Client, stream string, maxLen int64, approx bool) *redisQueue {
	return &redisQueue{cli: cli, stream: stream, maxLen: maxLen, maxLenApprox: approx}
}

func (q *redisQueue) Close() error { return q.cli.Close() }

func (q *redisQueue) PublishEvent(evt map[string]any) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// single 'data' field with a JSON body keeps consumers schema-agnostic
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{Stream: q.stream, Values: map[string]any{"data": string(b)}}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = q.maxLenApprox
	}
	return q.cli.XAdd(ctx, args).Err()
}
