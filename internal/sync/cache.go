// Copyright (c) 2026 Mirrordex. All rights reserved.

package sync

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// VocabularyCache remembers which IDs of a shared vocabulary (tags,
// creators) have already been converged, so repeated syncs skip the
// database round trip for members seen before.
//
// A cache miss is always safe: the stores are idempotent, the cache only
// saves work.
type VocabularyCache interface {

	// Seen reports whether the ID was marked before. Errors degrade to a
	// miss so storage problems never block a sync.
	Seen(context context.Context, key, id string) bool

	// Mark records the ID as converged.
	Mark(context context.Context, key, id string)
}

// # Redis Implementation

// redisVocabulary keeps vocabulary sets in Redis so they survive restarts
// and are shared between daemon replicas.
type redisVocabulary struct {
	client *redis.Client
}

// NewRedisVocabulary builds a Redis backed [VocabularyCache].
func NewRedisVocabulary(client *redis.Client) VocabularyCache {
	return &redisVocabulary{client: client}
}

func (v *redisVocabulary) Seen(context context.Context, key, id string) bool {
	seen, err := v.client.SIsMember(context, key, id).Result()
	if err != nil {
		return false
	}
	return seen
}

func (v *redisVocabulary) Mark(context context.Context, key, id string) {
	_ = v.client.SAdd(context, key, id).Err()
}

// # In-Memory Implementation

// memoryVocabulary is the per-process fallback used when no Redis URL is
// configured. Safe for concurrent use.
type memoryVocabulary struct {
	mu   sync.Mutex
	sets map[string]map[string]bool
}

// NewMemoryVocabulary builds an in-process [VocabularyCache].
func NewMemoryVocabulary() VocabularyCache {
	return &memoryVocabulary{sets: make(map[string]map[string]bool)}
}

func (v *memoryVocabulary) Seen(_ context.Context, key, id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sets[key][id]
}

func (v *memoryVocabulary) Mark(_ context.Context, key, id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.sets[key] == nil {
		v.sets[key] = make(map[string]bool)
	}
	v.sets[key][id] = true
}
