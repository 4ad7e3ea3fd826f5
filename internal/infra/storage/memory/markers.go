package memory

import (
	"context"
	"sync"
)

// MarkerStore is the single-instance fallback when redis is not
// configured. Markers are lost on restart, which only costs one skipped
// refresh after the first poll.
type MarkerStore struct {
	mu sync.Mutex
	m  map[int64]string
}

func NewMarkerStore() *MarkerStore {
	return &MarkerStore{m: map[int64]string{}}
}

func (s *MarkerStore) Marker(_ context.Context, groupID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[groupID], nil
}

func (s *MarkerStore) SetMarker(_ context.Context, groupID int64, marker string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[groupID] = marker
	return nil
}
