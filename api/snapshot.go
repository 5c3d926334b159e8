package api

import (
	"context"
	"sync"
	"time"

	"github.com/uqurreshi34-dev/cryptopulse-frontend/internal/datasource"
)

// DefaultSnapshotTTL bounds how long a dashboard snapshot is served
// before the next request triggers an upstream refetch.
const DefaultSnapshotTTL = 30 * time.Second

// snapshotStore caches the dashboard dataset between requests. All
// handlers read through it, so a burst of page loads costs one upstream
// round-trip: the mutex is held across the refetch and concurrent
// callers reuse the result.
type snapshotStore struct {
	mu  sync.Mutex
	agg *datasource.Aggregator
	ttl time.Duration

	data      *datasource.DashboardData
	fetchedAt time.Time

	now func() time.Time
}

func newSnapshotStore(agg *datasource.Aggregator, ttl time.Duration) *snapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &snapshotStore{
		agg: agg,
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached snapshot, refetching when it has expired.
// When a refetch fails but an older snapshot exists, the stale data is
// served instead of the error.
func (s *snapshotStore) Get(ctx context.Context) (*datasource.DashboardData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data != nil && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.data, nil
	}

	data, err := s.agg.FetchDashboard(ctx)
	if err != nil {
		if s.data != nil {
			return s.data, nil
		}
		return nil, err
	}

	s.data = data
	s.fetchedAt = s.now()
	return data, nil
}

// Invalidate marks the cached snapshot expired so the next Get
// refetches. The data itself is kept as the stale fallback.
func (s *snapshotStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
}
