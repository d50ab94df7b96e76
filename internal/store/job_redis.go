package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
)

// RedisJobs keeps job records in a Redis hash per job, expiring after ttl.
type RedisJobs struct {
	client *redis.Client
	keyNS  string
	ttl    time.Duration
}

func NewRedisJobs(redisURL string, ttl time.Duration) (*RedisJobs, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisJobs{client: c, keyNS: "autosplit:job", ttl: ttl}, nil
}

func (s *RedisJobs) key(jobID string) string { return fmt.Sprintf("%s:%s", s.keyNS, jobID) }

func (s *RedisJobs) Put(ctx context.Context, job Job) error {
	m := map[string]interface{}{
		"remote_id":  job.RemoteID,
		"status":     job.Status,
		"created_at": job.CreatedAt.Format(time.RFC3339Nano),
		"file_id":    job.FileID,
		"filename":   job.Filename,
		"error":      job.ErrorMessage,
	}
	if job.Result != nil {
		b, err := json.Marshal(job.Result)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		m["result"] = string(b)
	}
	if len(job.Original) > 0 {
		m["original"] = base64.StdEncoding.EncodeToString(job.Original)
	}
	k := s.key(job.ID)
	if err := s.client.HSet(ctx, k, m).Err(); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, k, s.ttl).Err()
	}
	return nil
}

func (s *RedisJobs) Get(ctx context.Context, jobID string) (Job, bool, error) {
	res, err := s.client.HGetAll(ctx, s.key(jobID)).Result()
	if err != nil {
		return Job{}, false, err
	}
	if len(res) == 0 {
		return Job{}, false, nil
	}
	job := Job{
		ID:           jobID,
		RemoteID:     res["remote_id"],
		Status:       res["status"],
		FileID:       res["file_id"],
		Filename:     res["filename"],
		ErrorMessage: res["error"],
	}
	if v := res["created_at"]; v != "" {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			job.CreatedAt = t
		}
	}
	if v := res["result"]; v != "" {
		var r llamaindex.SplitResult
		if err := json.Unmarshal([]byte(v), &r); err == nil {
			job.Result = &r
		}
	}
	if v := res["original"]; v != "" {
		if b, err := base64.StdEncoding.DecodeString(v); err == nil {
			job.Original = b
		}
	}
	return job, true, nil
}

func (s *RedisJobs) Ping(ctx context.Context) error { return s.client.Ping(ctx).Err() }

func (s *RedisJobs) Close() error { return s.client.Close() }
