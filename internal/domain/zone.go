package domain

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ZoneRow is one weather station line in the zone view.
type ZoneRow struct {
	Station      string `json:"station"`
	Code         string `json:"code"`
	UpdatedAt    string `json:"update"`
	Condition    string `json:"weather"`
	Contribution string `json:"contribution"`
	Alert        bool   `json:"alert"`
	Available    bool   `json:"available"` // false when the forecast fetch failed
}

// ZoneGroup is the rows of one zone in catalog order.
type ZoneGroup struct {
	Zone Zone      `json:"zone"`
	Rows []ZoneRow `json:"rows"`
}

// ZoneView is every zone in HULU, TENGAH, HILIR order.
type ZoneView struct {
	Zones []ZoneGroup `json:"zones"`
}

// ZoneViewOptions tunes BuildZoneView.
type ZoneViewOptions struct {
	// FetchTimeout bounds each station's forecast fetch. Zero means no
	// per-fetch deadline beyond ctx.
	FetchTimeout time.Duration

	// Observe, when set, is called once per fetch with its outcome.
	Observe func(st ZoneStation, err error, elapsed time.Duration)

	Logger *slog.Logger
}

// BuildZoneView groups stations by zone and attaches a live forecast to each.
// Fetches run concurrently; a failed fetch yields a row with empty condition
// and update and Available=false instead of failing the view.
func BuildZoneView(ctx context.Context, stations []ZoneStation, fetcher ForecastFetcher, opts ZoneViewOptions) ZoneView {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	snapshots := make([]ForecastSnapshot, len(stations))
	ok := make([]bool, len(stations))

	var g errgroup.Group
	for i, st := range stations {
		g.Go(func() error {
			snap, err := fetchOne(ctx, fetcher, st, opts)
			if err != nil {
				logger.Warn("forecast fetch failed, emitting placeholder",
					"station", st.Name,
					"code", st.Code,
					"zone", st.Zone.String(),
					"error", err,
				)
				return nil
			}
			snapshots[i] = snap
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	view := ZoneView{Zones: make([]ZoneGroup, 0, len(Zones))}
	for _, z := range Zones {
		group := ZoneGroup{Zone: z, Rows: []ZoneRow{}}
		for i, st := range stations {
			if st.Zone != z {
				continue
			}
			group.Rows = append(group.Rows, newZoneRow(st, snapshots[i], ok[i]))
		}
		view.Zones = append(view.Zones, group)
	}
	return view
}

func fetchOne(ctx context.Context, fetcher ForecastFetcher, st ZoneStation, opts ZoneViewOptions) (ForecastSnapshot, error) {
	if opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.FetchTimeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := fetcher.FetchForecast(ctx, st.Code)
	if opts.Observe != nil {
		opts.Observe(st, err, time.Since(start))
	}
	return snap, err
}

func newZoneRow(st ZoneStation, snap ForecastSnapshot, available bool) ZoneRow {
	row := ZoneRow{
		Station:      st.Name,
		Code:         st.Code,
		Contribution: st.Contribution,
		Available:    available,
	}
	if available {
		row.Condition = snap.Condition
		row.UpdatedAt = snap.ObservedAt
		row.Alert = IsAlertCondition(snap.Condition)
	}
	return row
}
