package probe

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/projectdiscovery/gologger"
)

// DefaultTimeout is the per-probe reply timeout.
const DefaultTimeout = 100 * time.Millisecond

// graceTimeout is added on top of the reply timeout before the probe
// process is killed, to cover process startup and teardown.
const graceTimeout = 500 * time.Millisecond

// Result is the outcome of a single echo probe. Output carries the raw
// text printed by the probe command; Err is set only when the probe
// mechanism itself failed (command missing, killed, not startable). An
// unreachable host is a normal outcome and produces no error.
type Result struct {
	Output string
	Err    error
}

// Failed reports whether the probe mechanism errored.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Prober issues single-attempt echo probes by spawning the system ping
// command, one process per call.
type Prober struct {
	timeout time.Duration
}

// NewProber creates a Prober with the given reply timeout. A zero or
// negative timeout falls back to DefaultTimeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{timeout: timeout}
}

// Probe sends one echo request to address and returns the raw command
// output. When resolveName is set the probe also requests reverse-name
// resolution, so a responder's hostname appears in the output text. The
// spawned process is always reaped before returning, success or not.
func (p *Prober) Probe(ctx context.Context, address string, resolveName bool) Result {
	cctx, cancel := context.WithTimeout(ctx, p.timeout+graceTimeout)
	defer cancel()

	name, args := probeCommand(address, p.timeout, resolveName)
	cmd := exec.CommandContext(cctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run waits for the child, so the process is reaped on every path,
	// including a context kill.
	runErr := cmd.Run()

	switch {
	case stderr.Len() > 0:
		gologger.Verbose().Msgf("probe %s reported: %s", address, stderr.String())
		return Result{Output: stderr.String()}
	case stdout.Len() > 0:
		return Result{Output: stdout.String()}
	case runErr != nil:
		return Result{Err: runErr}
	default:
		return Result{}
	}
}
