package monitor

import (
	"context"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/rs/xid"

	"github.com/projectdiscovery/hostwatch/pkg/neigh"
	"github.com/projectdiscovery/hostwatch/pkg/types"
)

// State is the monitor's view of the target's connectivity.
type State int

const (
	StateUnknown State = iota
	StatePresent
	StateAbsent
)

func (s State) String() string {
	switch s {
	case StatePresent:
		return "present"
	case StateAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// Callback is the external notification hook. It receives the target's
// identifying fields when the target is present, and all-empty fields as
// the absent signal. Failures are logged and never retried.
type Callback func(ctx context.Context, ip, mac, hostname string) error

// Sweeper refreshes the neighbor table for the target's prefix.
type Sweeper interface {
	Sweep(ctx context.Context, prefix string) (*neigh.Snapshot, error)
}

// Strategy evaluates presence from the refreshed evidence.
type Strategy interface {
	Evaluate(ctx context.Context, snapshot *neigh.Snapshot) (bool, error)
}

// Options tunes the poll loop.
type Options struct {
	// ID presets the monitor instance id; a fresh xid is generated when
	// empty.
	ID string
	// Interval is the sleep between ticks.
	Interval time.Duration
	// OnChangeOnly fires the callback only on state transitions instead
	// of every tick.
	OnChangeOnly bool
	// NotifyInitialAbsent also fires on the very first Unknown->Absent
	// transition in change-only mode. Off by default: a target that was
	// never seen produces no "gone" notification.
	NotifyInitialAbsent bool
}

// DefaultInterval between ticks.
const DefaultInterval = time.Second

// Monitor owns the target descriptor and presence state and drives the
// sweep/evaluate/notify cycle until its context is cancelled. The loop is
// not re-entrant: a slow tick delays the next one, it never overlaps it.
type Monitor struct {
	id       string
	target   *types.Target
	sweeper  Sweeper
	strategy Strategy
	callback Callback
	options  Options

	state State
}

// New creates a monitor for target. The callback may be nil.
func New(target *types.Target, sweeper Sweeper, strategy Strategy, callback Callback, options Options) *Monitor {
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}
	if options.ID == "" {
		options.ID = xid.New().String()
	}
	return &Monitor{
		id:       options.ID,
		target:   target,
		sweeper:  sweeper,
		strategy: strategy,
		callback: callback,
		options:  options,
		state:    StateUnknown,
	}
}

// ID returns the monitor instance id.
func (m *Monitor) ID() string {
	return m.id
}

// State returns the last observed presence state.
func (m *Monitor) State() State {
	return m.state
}

// Run executes the poll loop until ctx is cancelled. There is no terminal
// state; cancellation is the only way out.
func (m *Monitor) Run(ctx context.Context) error {
	gologger.Info().Msgf("monitor %s watching %s every %s", m.id, m.target.Fullname(), m.options.Interval)

	for {
		m.tick(ctx)

		select {
		case <-ctx.Done():
			gologger.Info().Msgf("monitor %s stopped", m.id)
			return nil
		case <-time.After(m.options.Interval):
		}
	}
}

// tick runs one cycle: refresh the sweep, evaluate the strategy, apply
// the transition and fire the callback if the policy says so.
func (m *Monitor) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	snapshot, err := m.sweeper.Sweep(ctx, m.target.Prefix())
	if err != nil {
		// degrade to an empty table for this tick instead of crashing
		// the loop
		gologger.Warning().Msgf("sweep failed, treating neighbor table as empty: %v", err)
		snapshot = neigh.NewSnapshot(nil)
	}

	present, err := m.strategy.Evaluate(ctx, snapshot)
	if err != nil {
		gologger.Warning().Msgf("presence evaluation failed: %v", err)
		present = false
	}

	// a cancellation that interrupted the sweep or the evaluation must
	// not turn into a spurious absent notification during shutdown
	if ctx.Err() != nil {
		return
	}

	if present {
		gologger.Info().Msgf("%s is on the network", m.target.Fullname())
		m.transition(ctx, StatePresent)
	} else {
		gologger.Info().Msgf("%s is not on the network", m.target.Fullname())
		m.transition(ctx, StateAbsent)
	}
}

func (m *Monitor) transition(ctx context.Context, next State) {
	prev := m.state
	m.state = next

	if !m.shouldFire(prev, next) {
		return
	}
	if m.callback == nil {
		return
	}

	var err error
	if next == StatePresent {
		err = m.callback(ctx, m.target.IP, m.target.MAC, m.target.Hostname)
	} else {
		err = m.callback(ctx, "", "", "")
	}
	if err != nil {
		gologger.Warning().Msgf("notification callback failed: %v", err)
	}
}

func (m *Monitor) shouldFire(prev, next State) bool {
	if !m.options.OnChangeOnly {
		return true
	}
	if next == prev {
		return false
	}
	if prev == StateUnknown && next == StateAbsent {
		return m.options.NotifyInitialAbsent
	}
	return true
}
