package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"ratedesk/internal/domain/day"
	"ratedesk/internal/domain/grid"
)

type mockSource struct {
	mu       sync.Mutex
	loadFunc func(ctx context.Context, groupID int64, from, to day.Day) (*grid.Data, error)
	loads    int
}

func (m *mockSource) LoadGrid(ctx context.Context, groupID int64, from, to day.Day) (*grid.Data, error) {
	m.mu.Lock()
	m.loads++
	m.mu.Unlock()
	if m.loadFunc != nil {
		return m.loadFunc(ctx, groupID, from, to)
	}
	data := grid.NewData()
	data.Window = grid.Window{From: from, To: to}
	return data, nil
}

func TestLoadInstallsSnapshot(t *testing.T) {
	s := New(42, fixedClock("2025-06-01T10:00:00Z"))
	source := &mockSource{
		loadFunc: func(_ context.Context, _ int64, from, to day.Day) (*grid.Data, error) {
			data := grid.NewData()
			data.Window = grid.Window{From: from, To: to}
			data.Units = []grid.Unit{{ID: 1, Name: "Seaside 1"}}
			return data, nil
		},
	}
	loader := NewLoader(source, nil)

	if err := loader.Load(context.Background(), s, day.MustParse("2025-06-01"), day.MustParse("2025-06-30")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Units()) != 1 {
		t.Error("snapshot was not installed")
	}
}

func TestSupersededLoadIsDiscarded(t *testing.T) {
	s := New(42, fixedClock("2025-06-01T10:00:00Z"))
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	source := &mockSource{
		loadFunc: func(ctx context.Context, _ int64, from, to day.Day) (*grid.Data, error) {
			data := grid.NewData()
			data.Window = grid.Window{From: from, To: to}
			if from.Equal(day.MustParse("2025-06-01")) {
				close(firstStarted)
				select {
				case <-release:
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				data.Units = []grid.Unit{{ID: 1, Name: "stale"}}
				return data, nil
			}
			data.Units = []grid.Unit{{ID: 2, Name: "fresh"}}
			return data, nil
		},
	}
	loader := NewLoader(source, nil)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = loader.Load(context.Background(), s, day.MustParse("2025-06-01"), day.MustParse("2025-06-30"))
	}()
	<-firstStarted

	if err := loader.Load(context.Background(), s, day.MustParse("2025-07-01"), day.MustParse("2025-07-31")); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	close(release)
	wg.Wait()

	if !errors.Is(firstErr, context.Canceled) {
		t.Errorf("superseded load must report cancellation, got %v", firstErr)
	}
	units := s.Units()
	if len(units) != 1 || units[0].Name != "fresh" {
		t.Errorf("stale response must never be applied, have %+v", units)
	}
}

func TestLateStaleResponseDoesNotEvictCurrentLoad(t *testing.T) {
	s := New(42, fixedClock("2025-06-01T10:00:00Z"))
	aStarted := make(chan struct{})
	cStarted := make(chan struct{})
	releaseA := make(chan struct{})
	releaseC := make(chan struct{})
	source := &mockSource{
		loadFunc: func(_ context.Context, _ int64, from, to day.Day) (*grid.Data, error) {
			data := grid.NewData()
			data.Window = grid.Window{From: from, To: to}
			switch {
			case from.Equal(day.MustParse("2025-06-01")):
				// Ignores cancellation and returns long after being
				// superseded, like a response already on the wire.
				close(aStarted)
				<-releaseA
				data.Units = []grid.Unit{{ID: 1, Name: "from-A"}}
			case from.Equal(day.MustParse("2025-07-01")):
				data.Units = []grid.Unit{{ID: 2, Name: "from-B"}}
			default:
				close(cStarted)
				<-releaseC
				data.Units = []grid.Unit{{ID: 3, Name: "from-C"}}
			}
			return data, nil
		},
	}
	loader := NewLoader(source, nil)

	var wgA sync.WaitGroup
	var errA error
	wgA.Add(1)
	go func() {
		defer wgA.Done()
		errA = loader.Load(context.Background(), s, day.MustParse("2025-06-01"), day.MustParse("2025-06-30"))
	}()
	<-aStarted

	if err := loader.Load(context.Background(), s, day.MustParse("2025-07-01"), day.MustParse("2025-07-31")); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	var wgC sync.WaitGroup
	var errC error
	wgC.Add(1)
	go func() {
		defer wgC.Done()
		errC = loader.Load(context.Background(), s, day.MustParse("2025-08-01"), day.MustParse("2025-08-31"))
	}()
	<-cStarted

	// The first load resolves only now, after a later load completed and
	// another one is in flight.
	close(releaseA)
	wgA.Wait()
	close(releaseC)
	wgC.Wait()

	if !errors.Is(errA, context.Canceled) {
		t.Errorf("late stale load must report cancellation, got %v", errA)
	}
	if errC != nil {
		t.Fatalf("current load must not be discarded, got %v", errC)
	}
	units := s.Units()
	if len(units) != 1 || units[0].Name != "from-C" {
		t.Errorf("session must hold the current load's snapshot, have %+v", units)
	}
}

func TestLoadPropagatesSourceError(t *testing.T) {
	s := New(42, fixedClock("2025-06-01T10:00:00Z"))
	wantErr := errors.New("inventory: GET /groups/42/units: connection refused")
	source := &mockSource{
		loadFunc: func(context.Context, int64, day.Day, day.Day) (*grid.Data, error) {
			return nil, wantErr
		},
	}
	loader := NewLoader(source, nil)

	err := loader.Load(context.Background(), s, day.MustParse("2025-06-01"), day.MustParse("2025-06-30"))
	if !errors.Is(err, wantErr) {
		t.Errorf("want source error, got %v", err)
	}
	if len(s.Units()) != 0 {
		t.Error("failed load must not touch the session")
	}
}

func TestObserverFiresOnInstall(t *testing.T) {
	s := New(42, fixedClock("2025-06-01T10:00:00Z"))
	fired := 0
	s.Subscribe(func() { fired++ })
	loader := NewLoader(&mockSource{}, nil)

	if err := loader.Load(context.Background(), s, day.MustParse("2025-06-01"), day.MustParse("2025-06-10")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fired == 0 {
		t.Error("observers must be notified after a snapshot install")
	}
}
