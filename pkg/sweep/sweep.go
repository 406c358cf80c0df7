package sweep

import (
	"context"
	"fmt"
	"net"

	"github.com/projectdiscovery/mapcidr"
	syncutil "github.com/projectdiscovery/utils/sync"

	"github.com/projectdiscovery/hostwatch/pkg/neigh"
	"github.com/projectdiscovery/hostwatch/pkg/probe"
)

// DefaultConcurrency fans every host of a /24 out at once; a sweep is one
// full-batch burst, not a rolling scan.
const DefaultConcurrency = 254

// Prober issues a single echo probe against one address.
type Prober interface {
	Probe(ctx context.Context, address string, resolveName bool) probe.Result
}

// Sweeper probes every host address of a /24 prefix concurrently. Probing
// is what forces the OS to populate its neighbor table for reachable
// hosts; the table is otherwise filled lazily and may be stale or empty.
type Sweeper struct {
	prober      Prober
	concurrency int
	capture     func(ctx context.Context) (*neigh.Snapshot, error)
}

// NewSweeper creates a Sweeper backed by the given prober.
func NewSweeper(prober Prober, concurrency int) *Sweeper {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Sweeper{
		prober:      prober,
		concurrency: concurrency,
		capture:     neigh.Capture,
	}
}

// Hosts expands a three-octet prefix (e.g. "192.168.0.") into the 254 host
// addresses of the corresponding /24, excluding the network and broadcast
// addresses. An empty prefix yields no hosts rather than a degenerate
// range.
func Hosts(prefix string) ([]string, error) {
	if prefix == "" {
		return nil, nil
	}

	cidr := prefix + "0/24"
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid sweep prefix %q: %w", prefix, err)
	}

	ips, err := mapcidr.IPAddresses(cidr)
	if err != nil {
		return nil, fmt.Errorf("failed to expand CIDR %s: %w", cidr, err)
	}

	hosts := make([]string, 0, len(ips))
	for _, ipStr := range ips {
		ip := net.ParseIP(ipStr)
		if ip == nil {
			continue
		}
		if isNetworkOrBroadcast(ip, network) {
			continue
		}
		hosts = append(hosts, ipStr)
	}
	return hosts, nil
}

// ProbeAll probes every host of the prefix concurrently and returns one
// result per host, in address order. The call does not return until the
// whole batch has completed; individual probe failures are swallowed into
// their results and never abort the batch.
func (s *Sweeper) ProbeAll(ctx context.Context, prefix string, resolveName bool) ([]probe.Result, error) {
	hosts, err := Hosts(prefix)
	if err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, nil
	}

	awg, err := syncutil.New(syncutil.WithSize(s.concurrency))
	if err != nil {
		return nil, fmt.Errorf("failed to create adaptive waitgroup: %w", err)
	}

	results := make([]probe.Result, len(hosts))
	var ctxErr error
loop:
	for i, host := range hosts {
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break loop
		default:
		}

		awg.Add()
		go func(i int, host string) {
			defer awg.Done()
			results[i] = s.prober.Probe(ctx, host, resolveName)
		}(i, host)
	}
	// join the whole batch before returning, even on cancellation; the
	// context kills in-flight probe processes promptly
	awg.Wait()
	if ctxErr != nil {
		return nil, ctxErr
	}

	return results, nil
}

// Sweep refreshes the neighbor table for a prefix: probe every host, wait
// for the full batch, then capture the table and keep only the lines
// mentioning the prefix. A capture failure degrades the whole sweep for
// this cycle and is returned to the caller.
func (s *Sweeper) Sweep(ctx context.Context, prefix string) (*neigh.Snapshot, error) {
	if prefix == "" {
		return neigh.NewSnapshot(nil), nil
	}

	if _, err := s.ProbeAll(ctx, prefix, false); err != nil {
		return nil, err
	}

	snapshot, err := s.capture(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Filter(prefix), nil
}

// isNetworkOrBroadcast checks if an IP is the network or broadcast address
func isNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if ip.Equal(network.IP) {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		broadcast := make(net.IP, len(network.IP))
		copy(broadcast, network.IP)
		for i := range broadcast {
			broadcast[i] |= ^network.Mask[i]
		}
		return ip.Equal(broadcast)
	}
	return false
}
