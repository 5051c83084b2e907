package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock forecast fetcher ---

type fakeForecasts struct {
	conditions map[string]string
	delays     map[string]time.Duration
	failing    map[string]error
	hang       map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeForecasts) FetchForecast(ctx context.Context, code string) (ForecastSnapshot, error) {
	f.mu.Lock()
	f.calls = append(f.calls, code)
	f.mu.Unlock()

	if f.hang[code] {
		<-ctx.Done()
		return ForecastSnapshot{}, ctx.Err()
	}
	if d := f.delays[code]; d > 0 {
		time.Sleep(d)
	}
	if err := f.failing[code]; err != nil {
		return ForecastSnapshot{}, err
	}
	return ForecastSnapshot{Condition: f.conditions[code], ObservedAt: "17/10/2026, 08.00.00"}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func zoneFixture() []ZoneStation {
	return []ZoneStation{
		{Name: "neglasari", Code: "d1", Zone: ZoneDownstream, Contribution: "Sangat kecil"},
		{Name: "ciawi", Code: "u1", Zone: ZoneUpstream, Contribution: "Sangat besar"},
		{Name: "parung", Code: "m1", Zone: ZoneMidstream, Contribution: "Sedang"},
		{Name: "caringin", Code: "u2", Zone: ZoneUpstream, Contribution: "Besar"},
		{Name: "serpong", Code: "d2", Zone: ZoneDownstream, Contribution: "Kecil"},
	}
}

func rowNames(g ZoneGroup) []string {
	names := make([]string, 0, len(g.Rows))
	for _, r := range g.Rows {
		names = append(names, r.Station)
	}
	return names
}

// --- tests ---

func TestBuildZoneView_FixedZoneAndCatalogOrder(t *testing.T) {
	f := &fakeForecasts{
		conditions: map[string]string{"u1": "Cerah", "u2": "Hujan Lebat", "m1": "Berawan", "d1": "Hujan Ringan", "d2": "Cerah"},
		// The first catalog entries finish last.
		delays: map[string]time.Duration{"d1": 40 * time.Millisecond, "u1": 30 * time.Millisecond},
	}

	view := BuildZoneView(context.Background(), zoneFixture(), f, ZoneViewOptions{Logger: discardLogger()})

	require.Len(t, view.Zones, 3)
	assert.Equal(t, ZoneUpstream, view.Zones[0].Zone)
	assert.Equal(t, ZoneMidstream, view.Zones[1].Zone)
	assert.Equal(t, ZoneDownstream, view.Zones[2].Zone)

	assert.Equal(t, []string{"ciawi", "caringin"}, rowNames(view.Zones[0]))
	assert.Equal(t, []string{"parung"}, rowNames(view.Zones[1]))
	assert.Equal(t, []string{"neglasari", "serpong"}, rowNames(view.Zones[2]))
	assert.Len(t, f.calls, 5)
}

func TestBuildZoneView_AlertFlag(t *testing.T) {
	f := &fakeForecasts{conditions: map[string]string{"u1": "Cerah", "u2": "Hujan Lebat"}}
	stations := zoneFixture()[1:4:4]

	view := BuildZoneView(context.Background(), stations, f, ZoneViewOptions{Logger: discardLogger()})

	up := view.Zones[0].Rows
	require.Len(t, up, 2)
	assert.Equal(t, ZoneRow{
		Station: "ciawi", Code: "u1", UpdatedAt: "17/10/2026, 08.00.00",
		Condition: "Cerah", Contribution: "Sangat besar", Alert: false, Available: true,
	}, up[0])
	assert.Equal(t, "Hujan Lebat", up[1].Condition)
	assert.True(t, up[1].Alert)
}

func TestBuildZoneView_FailedFetchYieldsPlaceholder(t *testing.T) {
	f := &fakeForecasts{
		conditions: map[string]string{"u1": "Cerah", "u2": "Hujan Petir", "m1": "Berawan", "d1": "Cerah", "d2": "Cerah"},
		failing:    map[string]error{"u2": errors.New("status 503")},
		hang:       map[string]bool{"m1": true},
	}

	var mu sync.Mutex
	outcomes := map[string]error{}
	opts := ZoneViewOptions{
		FetchTimeout: 50 * time.Millisecond,
		Logger:       discardLogger(),
		Observe: func(st ZoneStation, err error, _ time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			outcomes[st.Code] = err
		},
	}

	start := time.Now()
	view := BuildZoneView(context.Background(), zoneFixture(), f, opts)
	assert.Less(t, time.Since(start), 2*time.Second)

	caringin := view.Zones[0].Rows[1]
	assert.Equal(t, ZoneRow{Station: "caringin", Code: "u2", Contribution: "Besar"}, caringin)

	parung := view.Zones[1].Rows[0]
	assert.False(t, parung.Available)
	assert.Empty(t, parung.Condition)
	assert.Empty(t, parung.UpdatedAt)
	assert.False(t, parung.Alert)

	assert.True(t, view.Zones[0].Rows[0].Available)
	assert.True(t, view.Zones[2].Rows[0].Available)
	assert.True(t, view.Zones[2].Rows[1].Available)

	require.Len(t, outcomes, 5)
	require.ErrorIs(t, outcomes["m1"], context.DeadlineExceeded)
	require.Error(t, outcomes["u2"])
	assert.NoError(t, outcomes["u1"])
}

func TestBuildZoneView_EmptyZonesStillPresent(t *testing.T) {
	f := &fakeForecasts{}
	stations := []ZoneStation{{Name: "ciawi", Code: "u1", Zone: ZoneUpstream}}

	view := BuildZoneView(context.Background(), stations, f, ZoneViewOptions{Logger: discardLogger()})

	require.Len(t, view.Zones, 3)
	assert.Len(t, view.Zones[0].Rows, 1)
	assert.NotNil(t, view.Zones[1].Rows)
	assert.Empty(t, view.Zones[1].Rows)
	assert.Empty(t, view.Zones[2].Rows)
}

func TestBuildZoneView_OrderStableAcrossRuns(t *testing.T) {
	f := &fakeForecasts{
		delays: map[string]time.Duration{"u1": 5 * time.Millisecond, "d2": 1 * time.Millisecond},
	}
	want := BuildZoneView(context.Background(), zoneFixture(), f, ZoneViewOptions{Logger: discardLogger()})
	for range 10 {
		got := BuildZoneView(context.Background(), zoneFixture(), f, ZoneViewOptions{Logger: discardLogger()})
		assert.Equal(t, want, got)
	}
}

func TestParseZone(t *testing.T) {
	z, err := ParseZone(" hilir ")
	require.NoError(t, err)
	assert.Equal(t, ZoneDownstream, z)

	_, err = ParseZone("HILIRAN")
	require.Error(t, err)
}
