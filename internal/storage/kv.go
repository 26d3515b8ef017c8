// Package storage provides the string key-value store backing cart
// persistence. The cart survives process restarts only when a durable
// implementation (Redis) is configured; the in-memory implementation covers
// development and tests.
package storage

import "context"

// KV is a string-keyed, string-valued store. Get reports presence separately
// from errors so callers never conflate "absent" with "failed".
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
