package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/videoscribe/videoscribe/pkg/config"
	"github.com/videoscribe/videoscribe/pkg/models"
)

const redisIndexKey = "videoscribe:jobs:index"

// RedisStore keeps job records in redis with a TTL, indexed by creation
// time in a sorted set so listings come back newest first.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	ctx    context.Context
}

// NewRedisStore connects and verifies the redis backend.
func NewRedisStore(cfg config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{
		client: client,
		ttl:    time.Duration(cfg.TTLHours) * time.Hour,
		ctx:    ctx,
	}, nil
}

func redisKey(jobID string) string {
	return "videoscribe:job:" + jobID
}

// Save serializes the record and refreshes its index entry.
func (rs *RedisStore) Save(job *models.TranscriptionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", job.JobID, err)
	}

	if err := rs.client.Set(rs.ctx, redisKey(job.JobID), data, rs.ttl).Err(); err != nil {
		return fmt.Errorf("save job to redis: %w", err)
	}

	err = rs.client.ZAdd(rs.ctx, redisIndexKey, redis.Z{
		Score:  float64(job.CreatedAt.Unix()),
		Member: job.JobID,
	}).Err()
	if err != nil {
		return fmt.Errorf("index job in redis: %w", err)
	}
	return nil
}

// Get fetches and deserializes one record.
func (rs *RedisStore) Get(jobID string) (*models.TranscriptionJob, error) {
	data, err := rs.client.Get(rs.ctx, redisKey(jobID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	if err != nil {
		return nil, fmt.Errorf("read job from redis: %w", err)
	}

	var job models.TranscriptionJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("parse job record %s: %w", jobID, err)
	}
	return &job, nil
}

// Update is read-modify-write; the ledger has a single writer so no
// transaction is needed.
func (rs *RedisStore) Update(jobID string, updateFn func(*models.TranscriptionJob)) error {
	job, err := rs.Get(jobID)
	if err != nil {
		return err
	}
	updateFn(job)
	job.UpdatedAt = time.Now()
	return rs.Save(job)
}

// List walks the index newest-first, dropping entries whose record has
// expired.
func (rs *RedisStore) List() ([]*models.TranscriptionJob, error) {
	jobIDs, err := rs.client.ZRevRange(rs.ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read job index: %w", err)
	}

	jobs := make([]*models.TranscriptionJob, 0, len(jobIDs))
	for _, jobID := range jobIDs {
		job, err := rs.Get(jobID)
		if err != nil {
			rs.client.ZRem(rs.ctx, redisIndexKey, jobID)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Delete removes the record and its index entry.
func (rs *RedisStore) Delete(jobID string) error {
	deleted, err := rs.client.Del(rs.ctx, redisKey(jobID)).Result()
	if err != nil {
		return fmt.Errorf("delete job from redis: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	rs.client.ZRem(rs.ctx, redisIndexKey, jobID)
	return nil
}

// Close shuts the redis connection down.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
