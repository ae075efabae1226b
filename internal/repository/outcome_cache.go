package repository

import (
	"context"
	"encoding/json"
	"time"

	"HorizonSim/internal/domain/models"
	"HorizonSim/internal/domain/repository"
	pkgcache "HorizonSim/pkg/cache"
)

// CachedOutcomeStore memoizes fan-simulation results in the layered cache.
// Entries are JSON strings so the memory and Redis tiers behave identically.
// Misses and backend errors both read as "absent": the flow just recomputes.
type CachedOutcomeStore struct {
	cache pkgcache.Service
	ttl   time.Duration
}

func NewCachedOutcomeStore(cache pkgcache.Service, ttl time.Duration) *CachedOutcomeStore {
	return &CachedOutcomeStore{cache: cache, ttl: ttl}
}

func (s *CachedOutcomeStore) Get(ctx context.Context, key string) ([]models.PathOutcome, bool) {
	var raw string
	if err := s.cache.Get(ctx, key, &raw); err != nil {
		return nil, false
	}
	var outcomes []models.PathOutcome
	if err := json.Unmarshal([]byte(raw), &outcomes); err != nil {
		return nil, false
	}
	return outcomes, true
}

func (s *CachedOutcomeStore) Set(ctx context.Context, key string, outcomes []models.PathOutcome) {
	raw, err := json.Marshal(outcomes)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, string(raw), s.ttl)
}

var _ repository.OutcomeCache = (*CachedOutcomeStore)(nil)
