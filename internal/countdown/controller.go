// Package countdown owns the state behind the live Sahur/İftar countdown:
// which city is shown, which load is current, and which timer may still
// tick. Rendering is left to the caller.
package countdown

import (
	"errors"
	"time"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/prayer"
)

// Interval is the tick cadence.
const Interval = time.Second

// Status is the coarse state of the countdown.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFailed
	StatusNoData
	StatusCounting
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusFailed:
		return "failed"
	case StatusNoData:
		return "no-data"
	case StatusCounting:
		return "counting"
	default:
		return "idle"
	}
}

// Action tells the caller what to do after a tick.
type Action int

const (
	ActionContinue Action = iota // schedule the next tick
	ActionStop                   // do not schedule another tick
	ActionReload                 // Begin a new load for the same city
)

// Load identifies one data load. Only the most recent Load is honoured.
type Load struct {
	Gen    uint64
	CityID string
}

// Frame is a snapshot for rendering.
type Frame struct {
	Status   Status
	CityID   string
	Today    api.TimeRow
	Boundary prayer.Boundary
	Err      error
}

// Controller is not safe for concurrent use; callers serialise access
// (the Bubble Tea update loop, or Run).
type Controller struct {
	cityID string

	loadGen     uint64
	timerGen    uint64
	timerActive bool

	status     Status
	table      api.MonthlyTable
	fetchDate  string
	lastTarget time.Time
	boundary   prayer.Boundary
	err        error

	now func() time.Time
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{now: time.Now}
}

// Begin starts a load for cityID, superseding any load in flight and
// cancelling the running timer.
func (c *Controller) Begin(cityID string) Load {
	c.loadGen++
	c.stopTimer()

	c.cityID = cityID
	c.status = StatusLoading
	c.table = nil
	c.fetchDate = ""
	c.lastTarget = time.Time{}
	c.boundary = prayer.Boundary{}
	c.err = nil

	return Load{Gen: c.loadGen, CityID: cityID}
}

// Finish records the result of load gen. Results of superseded loads are
// dropped. ok reports whether a timer was started; the returned timer
// generation must accompany every Tick.
func (c *Controller) Finish(gen uint64, table api.MonthlyTable, err error) (timerGen uint64, ok bool) {
	if gen != c.loadGen {
		return 0, false
	}

	if err != nil {
		c.status = StatusFailed
		c.err = err
		return 0, false
	}

	c.table = table
	c.fetchDate = dateKey(c.now())
	c.status = StatusCounting
	c.timerGen++
	c.timerActive = true
	return c.timerGen, true
}

// Tick evaluates the countdown at now. Ticks from a cancelled timer return
// ActionStop without touching state.
func (c *Controller) Tick(timerGen uint64, now time.Time) (Frame, Action) {
	if !c.timerActive || timerGen != c.timerGen {
		return c.Frame(), ActionStop
	}

	// Rows are positional: a new calendar day means index 0 is stale.
	if dateKey(now) != c.fetchDate {
		c.stopTimer()
		return c.Frame(), ActionReload
	}
	if !c.lastTarget.IsZero() && !now.Before(c.lastTarget) {
		c.stopTimer()
		return c.Frame(), ActionReload
	}

	today, ok := c.table.Today()
	if !ok {
		c.stopTimer()
		c.status = StatusNoData
		c.boundary = prayer.Boundary{Phase: prayer.PhaseNoData, Label: prayer.LabelNoData}
		return c.Frame(), ActionStop
	}

	b, err := prayer.Resolve(now, today, c.table.Tomorrow())
	switch {
	case errors.Is(err, prayer.ErrNoData):
		c.stopTimer()
		c.status = StatusNoData
		c.boundary = b
		return c.Frame(), ActionStop
	case err != nil:
		c.stopTimer()
		c.status = StatusFailed
		c.err = err
		return c.Frame(), ActionStop
	case b.Remaining <= 0:
		c.stopTimer()
		return c.Frame(), ActionReload
	}

	c.boundary = b
	c.lastTarget = b.Target
	c.status = StatusCounting
	return c.Frame(), ActionContinue
}

// Stop cancels the running timer. Pending ticks become no-ops.
func (c *Controller) Stop() {
	c.stopTimer()
}

// Frame returns the current snapshot.
func (c *Controller) Frame() Frame {
	f := Frame{
		Status:   c.status,
		CityID:   c.cityID,
		Boundary: c.boundary,
		Err:      c.err,
	}
	if today, ok := c.table.Today(); ok {
		f.Today = today
	}
	return f
}

// CityID returns the city of the current load.
func (c *Controller) CityID() string {
	return c.cityID
}

// TimerActive reports whether a timer is running.
func (c *Controller) TimerActive() bool {
	return c.timerActive
}

func (c *Controller) stopTimer() {
	c.timerActive = false
	c.timerGen++
}

func dateKey(t time.Time) string {
	return t.In(prayer.Zone()).Format("2006-01-02")
}
