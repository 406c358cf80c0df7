package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/projectdiscovery/gologger"
	errorutil "github.com/projectdiscovery/utils/errors"
	"github.com/rs/xid"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/projectdiscovery/hostwatch/pkg/monitor"
	"github.com/projectdiscovery/hostwatch/pkg/notify"
	"github.com/projectdiscovery/hostwatch/pkg/probe"
	"github.com/projectdiscovery/hostwatch/pkg/strategy"
	"github.com/projectdiscovery/hostwatch/pkg/sweep"
	"github.com/projectdiscovery/hostwatch/pkg/types"
)

// Runner contains the internal logic of the program
type Runner struct {
	options *Options
	target  *types.Target
	kind    strategy.Kind
}

// NewRunner validates the options and prepares the monitored target
func NewRunner(options *Options) (*Runner, error) {
	kind, err := strategy.ParseKind(options.Strategy)
	if err != nil {
		return nil, err
	}

	target := types.NewTarget(options.TargetIP, options.TargetMAC, options.TargetHostname)
	if target.IP == "" && target.MAC == "" && target.Hostname == "" {
		return nil, fmt.Errorf("no target identity given, set at least one of -ip, -mac, -hostname")
	}
	if target.Prefix() == "" {
		gologger.Warning().Msgf("no usable IP to derive a sweep prefix from, subnet sweeps are disabled")
	}

	return &Runner{options: options, target: target, kind: kind}, nil
}

// Run executes the presence monitor until the context is cancelled
func (r *Runner) Run(ctx context.Context) error {
	r.logHostInfo()

	prober := probe.NewProber(time.Duration(r.options.ProbeTimeout) * time.Millisecond)
	sweeper := sweep.NewSweeper(prober, r.options.Concurrency)

	strat, err := strategy.New(r.kind, r.target, sweeper)
	if err != nil {
		return errorutil.NewWithErr(err).Msgf("failed to build %s strategy", r.options.Strategy)
	}

	monitorID := xid.New().String()
	mon := monitor.New(r.target, sweeper, strat, r.callback(monitorID), monitor.Options{
		ID:                  monitorID,
		Interval:            time.Duration(r.options.Interval) * time.Second,
		OnChangeOnly:        r.options.OnChangeOnly,
		NotifyInitialAbsent: r.options.NotifyInitialAbsent,
	})

	gologger.Info().Msgf("using %s strategy with monitor id %s", au.Cyan(string(r.kind)), monitorID)
	return mon.Run(ctx)
}

// callback wires the monitor to the push notifier. Without an api key the
// monitor still runs, state changes are just logged.
func (r *Runner) callback(monitorID string) monitor.Callback {
	if r.options.NotifyKey == "" {
		gologger.Info().Msgf("no notify key configured, presence changes will only be logged")
		return nil
	}

	notifier := notify.NewWebhook(notify.WebhookOptions{
		URL:      r.options.NotifyURL,
		APIKey:   r.options.NotifyKey,
		Device:   r.options.NotifyDevice,
		Channel:  r.options.NotifyChannel,
		Cooldown: time.Duration(r.options.NotifyCooldown) * time.Second,
		Silent:   r.options.SilentNotify,
	})

	return func(ctx context.Context, ip, mac, hostname string) error {
		return notifier.Notify(ctx, notify.Event{
			Title: "Network Callback",
			Body:  fmt.Sprintf("IP: %s MAC: %s Hostname: %s (monitor %s)", ip, mac, hostname, monitorID),
		})
	}
}

// logHostInfo reports the machine the monitor runs on
func (r *Runner) logHostInfo() {
	info, err := host.Info()
	if err != nil {
		gologger.Verbose().Msgf("could not read host info: %v", err)
		return
	}
	uptime := time.Duration(info.Uptime) * time.Second
	gologger.Info().Msgf("running on %s (%s %s, up %s)", au.Cyan(info.Hostname), info.Platform, info.PlatformVersion, uptime)
}
