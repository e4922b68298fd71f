// Package prayer decides which fasting boundary comes next.
//
// Given the current instant and the first two rows of a monthly time table,
// Resolve reports whether we are counting down to Sahur (İmsak) or to İftar
// (Akşam), how long remains, and how far the current period has progressed.
// Everything is evaluated in Europe/Istanbul, the zone the upstream data is
// published in, regardless of the host's local zone.
package prayer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
)

// ZoneName is the civil time zone all rows are interpreted in.
const ZoneName = "Europe/Istanbul"

// preDawnReferenceHour anchors the progress bar before İmsak. The real
// previous boundary (yesterday's Akşam) is not loaded, so yesterday 18:00 is
// used for scaling only.
const preDawnReferenceHour = 18

// User-visible labels.
const (
	LabelSahur  = "SAHURA KALAN VAKİT"
	LabelIftar  = "İFTARA KALAN VAKİT"
	LabelNoData = "Veri Yok"

	infoTodayIftar    = "Bugünün İftarı"
	infoTomorrowSahur = "Yarının Sahuru"
	infoTomorrowIftar = "Yarının İftarı"
)

// ErrNoData is returned when the rows on hand cannot produce a boundary,
// e.g. after sunset with no row for tomorrow.
var ErrNoData = errors.New("no prayer time data for the next boundary")

// Phase identifies which part of the day now falls in.
type Phase int

const (
	PhaseNoData      Phase = iota
	PhasePreDawn           // before today's İmsak
	PhaseFasting           // between today's İmsak and Akşam
	PhasePostSunset        // after today's Akşam
)

func (p Phase) String() string {
	switch p {
	case PhasePreDawn:
		return "pre-dawn"
	case PhaseFasting:
		return "fasting"
	case PhasePostSunset:
		return "post-sunset"
	default:
		return "no-data"
	}
}

// Boundary is the result of one resolution.
type Boundary struct {
	Phase       Phase
	Label       string
	InfoLabel   string // e.g. "Yarının Sahuru"; empty when Info is empty
	Info        string // "HH:MM" as published upstream
	Target      time.Time
	PeriodStart time.Time
	Remaining   time.Duration
	Progress    float64 // in [0, 1]
}

// InfoText renders the secondary line, e.g. "Yarının Sahuru: 05:28".
func (b Boundary) InfoText() string {
	if b.Info == "" {
		return ""
	}
	return b.InfoLabel + ": " + b.Info
}

var zone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		// Binaries embed time/tzdata; this only trips in a broken toolchain.
		panic(fmt.Sprintf("prayer: load %s: %v", ZoneName, err))
	}
	return loc
}

// Zone returns the Europe/Istanbul location.
func Zone() *time.Location {
	return zone
}

// Resolve maps (now, today, tomorrow) to the next boundary. tomorrow may be
// nil. Comparisons are half-open: now == İmsak counts as fasting.
// When no boundary can be produced it returns a PhaseNoData boundary and
// ErrNoData.
func Resolve(now time.Time, today api.TimeRow, tomorrow *api.TimeRow) (Boundary, error) {
	now = now.In(zone)

	imsak, err := parseTimeStr(today.Imsak, now, zone)
	if err != nil {
		return Boundary{}, fmt.Errorf("today's İmsak: %w", err)
	}
	aksam, err := parseTimeStr(today.Aksam, now, zone)
	if err != nil {
		return Boundary{}, fmt.Errorf("today's Akşam: %w", err)
	}

	var b Boundary
	switch {
	case now.Before(imsak):
		yesterday := now.AddDate(0, 0, -1)
		b = Boundary{
			Phase:       PhasePreDawn,
			Label:       LabelSahur,
			InfoLabel:   infoTodayIftar,
			Info:        today.Aksam,
			Target:      imsak,
			PeriodStart: time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), preDawnReferenceHour, 0, 0, 0, zone),
		}

	case now.Before(aksam):
		b = Boundary{
			Phase:       PhaseFasting,
			Label:       LabelIftar,
			Target:      aksam,
			PeriodStart: imsak,
		}
		if tomorrow != nil {
			b.InfoLabel = infoTomorrowSahur
			b.Info = tomorrow.Imsak
		}

	default:
		if tomorrow == nil {
			return Boundary{Phase: PhaseNoData, Label: LabelNoData}, ErrNoData
		}
		nextImsak, err := parseTimeStr(tomorrow.Imsak, now.AddDate(0, 0, 1), zone)
		if err != nil {
			return Boundary{}, fmt.Errorf("tomorrow's İmsak: %w", err)
		}
		b = Boundary{
			Phase:       PhasePostSunset,
			Label:       LabelSahur,
			InfoLabel:   infoTomorrowIftar,
			Info:        tomorrow.Aksam,
			Target:      nextImsak,
			PeriodStart: aksam,
		}
	}

	b.Remaining = b.Target.Sub(now)
	b.Progress = progress(now, b.PeriodStart, b.Target)
	return b, nil
}

// progress returns clamp((now-start)/(target-start), 0, 1).
func progress(now, start, target time.Time) float64 {
	total := target.Sub(start)
	if total <= 0 {
		return 1
	}
	f := float64(now.Sub(start)) / float64(total)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// parseTimeStr parses a time string like "05:30" or "05:30 (TRT)" into a
// time.Time on the calendar date of date, in loc.
func parseTimeStr(raw string, date time.Time, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, " "); idx != -1 {
		s = s[:idx]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time format: %q", raw)
	}

	var hour, min int
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return time.Time{}, fmt.Errorf("invalid hour in %q: %w", raw, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &min); err != nil {
		return time.Time{}, fmt.Errorf("invalid minute in %q: %w", raw, err)
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 {
		return time.Time{}, fmt.Errorf("time out of range: %q", raw)
	}

	date = date.In(loc)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, min, 0, 0, loc), nil
}
