package domain

import (
	"context"
	"fmt"
	"strings"
)

// CanonicalStation is the authoritative identity of a water-level post.
type CanonicalStation struct {
	Name     string   `yaml:"name" json:"name"`
	Weight   int      `yaml:"weight" json:"weight"`     // lower = further upstream
	Location string   `yaml:"location" json:"location"` // free text, shown as-is
	Aliases  []string `yaml:"aliases" json:"aliases,omitempty"`
}

// Zone is a basin-position cluster used to group weather stations.
type Zone int

const (
	ZoneUpstream Zone = iota
	ZoneMidstream
	ZoneDownstream
)

// Zones lists every zone in display order.
var Zones = []Zone{ZoneUpstream, ZoneMidstream, ZoneDownstream}

// String returns the dashboard label for the zone.
func (z Zone) String() string {
	switch z {
	case ZoneUpstream:
		return "HULU"
	case ZoneMidstream:
		return "TENGAH"
	case ZoneDownstream:
		return "HILIR"
	default:
		return fmt.Sprintf("Zone(%d)", int(z))
	}
}

// ParseZone maps a dashboard label (case-insensitive) to a Zone.
func ParseZone(s string) (Zone, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HULU":
		return ZoneUpstream, nil
	case "TENGAH":
		return ZoneMidstream, nil
	case "HILIR":
		return ZoneDownstream, nil
	default:
		return 0, fmt.Errorf("unknown zone %q", s)
	}
}

// MarshalText encodes the zone as its dashboard label.
func (z Zone) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText decodes a dashboard label.
func (z *Zone) UnmarshalText(b []byte) error {
	parsed, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// ZoneStation is a BMKG forecast location assigned to a basin zone.
type ZoneStation struct {
	Name         string `yaml:"station" json:"station"`
	Code         string `yaml:"code" json:"code"` // BMKG administrative code
	Zone         Zone   `yaml:"cluster" json:"cluster"`
	Contribution string `yaml:"andil" json:"andil"` // ordinal label, e.g. "Sangat besar"
}

// RawObservation is one scraped telemetry list item before identity resolution.
type RawObservation struct {
	RawName   string
	UpdatedAt string
	Reading   string
	Status    string
}

// ResolvedObservation is a RawObservation bound to its canonical station.
type ResolvedObservation struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	UpdatedAt string `json:"update"`
	Reading   string `json:"reading"`
	Status    string `json:"status"`
	Weight    int    `json:"weight"`
	RawName   string `json:"raw_name"`
}

// ForecastSnapshot is the current BMKG condition for one location.
type ForecastSnapshot struct {
	Condition  string `json:"weather"`
	ObservedAt string `json:"update"`
}

// NewForecastSnapshot stamps a condition label with the current WIB time.
func NewForecastSnapshot(condition string) ForecastSnapshot {
	return ForecastSnapshot{
		Condition:  strings.TrimSpace(condition),
		ObservedAt: FormatObservedAt(clock.Now()),
	}
}

// ForecastFetcher retrieves the current forecast for a BMKG location code.
type ForecastFetcher interface {
	FetchForecast(ctx context.Context, code string) (ForecastSnapshot, error)
}
