// Package scheduler queues and delivers the next-day follow-up email
// that confirms an applicant's CV is under review. Pending sends live in
// redis so they survive restarts, keyed by applicant email: scheduling
// the same address twice replaces the earlier entry instead of stacking
// a second email.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey      = "followup:queue"
	payloadPrefix = "followup:payload:"
)

// Entry is one pending follow-up email.
type Entry struct {
	Email  string
	Name   string
	SendAt time.Time
}

// Registry stores pending follow-up emails in a redis sorted set scored
// by the send time.
type Registry struct {
	client *redis.Client
}

// NewRegistry wraps an established redis client.
func NewRegistry(client *redis.Client) *Registry {
	return &Registry{client: client}
}

// Schedule records a pending follow-up for email at sendAt. An existing
// entry for the same address is replaced.
func (r *Registry) Schedule(ctx context.Context, email, name string, sendAt time.Time) error {
	if err := r.client.ZAdd(ctx, queueKey, redis.Z{
		Score:  float64(sendAt.Unix()),
		Member: email,
	}).Err(); err != nil {
		return fmt.Errorf("failed to queue follow-up: %w", err)
	}
	if err := r.client.HSet(ctx, payloadPrefix+email,
		"name", name,
		"send_at", strconv.FormatInt(sendAt.Unix(), 10),
	).Err(); err != nil {
		return fmt.Errorf("failed to store follow-up payload: %w", err)
	}
	return nil
}

// Due returns every entry whose send time is at or before now, oldest
// first. Entries are left in the queue until Remove is called, so a
// failed send is retried on the next poll.
func (r *Registry) Due(ctx context.Context, now time.Time) ([]Entry, error) {
	emails, err := r.client.ZRangeByScore(ctx, queueKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read follow-up queue: %w", err)
	}

	entries := make([]Entry, 0, len(emails))
	for _, email := range emails {
		fields, err := r.client.HGetAll(ctx, payloadPrefix+email).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to read follow-up payload for %s: %w", email, err)
		}
		entry := Entry{Email: email, Name: fields["name"]}
		if raw, ok := fields["send_at"]; ok {
			if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
				entry.SendAt = time.Unix(unix, 0).UTC()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Remove drops the entry for email from the queue.
func (r *Registry) Remove(ctx context.Context, email string) error {
	if err := r.client.ZRem(ctx, queueKey, email).Err(); err != nil {
		return fmt.Errorf("failed to dequeue follow-up: %w", err)
	}
	if err := r.client.Del(ctx, payloadPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to drop follow-up payload: %w", err)
	}
	return nil
}

// Contains reports whether a follow-up is pending for email.
func (r *Registry) Contains(ctx context.Context, email string) (bool, error) {
	err := r.client.ZScore(ctx, queueKey, email).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check follow-up queue: %w", err)
	}
	return true, nil
}
