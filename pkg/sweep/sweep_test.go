package sweep

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/projectdiscovery/hostwatch/pkg/neigh"
	"github.com/projectdiscovery/hostwatch/pkg/probe"
)

// fakeProber records every probed address.
type fakeProber struct {
	mu      sync.Mutex
	calls   []string
	resolve bool
}

func (f *fakeProber) Probe(_ context.Context, address string, resolveName bool) probe.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, address)
	f.resolve = resolveName
	return probe.Result{Output: "Reply from " + address}
}

func (f *fakeProber) addresses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	sort.Strings(out)
	return out
}

func TestHosts(t *testing.T) {
	tests := []struct {
		name      string
		prefix    string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "empty prefix yields no hosts",
			prefix:    "",
			wantCount: 0,
			wantErr:   false,
		},
		{
			name:      "regular /24 prefix",
			prefix:    "192.168.0.",
			wantCount: 254,
			wantErr:   false,
		},
		{
			name:    "malformed prefix",
			prefix:  "not-an-ip.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hosts, err := Hosts(tt.prefix)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Hosts(%q) error = %v, wantErr %v", tt.prefix, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(hosts) != tt.wantCount {
				t.Fatalf("Hosts(%q) returned %d hosts, want %d", tt.prefix, len(hosts), tt.wantCount)
			}
		})
	}
}

func TestHostsRange(t *testing.T) {
	hosts, err := Hosts("192.168.0.")
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		seen[host] = struct{}{}
	}

	// exactly .1 through .254, no network or broadcast address
	for i := 1; i <= 254; i++ {
		addr := "192.168.0." + strconv.Itoa(i)
		if _, ok := seen[addr]; !ok {
			t.Errorf("missing host %s", addr)
		}
	}
	if _, ok := seen["192.168.0.0"]; ok {
		t.Error("network address must not be swept")
	}
	if _, ok := seen["192.168.0.255"]; ok {
		t.Error("broadcast address must not be swept")
	}
}

func TestProbeAllFullBatch(t *testing.T) {
	prober := &fakeProber{}
	sweeper := NewSweeper(prober, 0)

	results, err := sweeper.ProbeAll(context.Background(), "192.168.0.", true)
	if err != nil {
		t.Fatal(err)
	}

	// the call must not return before every probe has completed
	if len(results) != 254 {
		t.Fatalf("got %d results, want 254", len(results))
	}
	if got := prober.addresses(); len(got) != 254 {
		t.Fatalf("issued %d probes, want 254", len(got))
	}
	for _, result := range results {
		if result.Failed() || result.Output == "" {
			t.Fatal("found an unfinished result in the batch")
		}
	}
	if !prober.resolve {
		t.Error("resolveName was not passed through to the prober")
	}
}

func TestProbeAllEmptyPrefix(t *testing.T) {
	prober := &fakeProber{}
	sweeper := NewSweeper(prober, 0)

	results, err := sweeper.ProbeAll(context.Background(), "", false)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for an empty prefix, want 0", len(results))
	}
	if len(prober.addresses()) != 0 {
		t.Errorf("issued %d probes for an empty prefix, want 0", len(prober.addresses()))
	}
}

func TestSweepFiltersSnapshot(t *testing.T) {
	prober := &fakeProber{}
	sweeper := NewSweeper(prober, 0)
	sweeper.capture = func(context.Context) (*neigh.Snapshot, error) {
		return neigh.NewSnapshot([]string{
			"192.168.0.1 dev eth0 REACHABLE",
			"10.0.0.7 dev eth1 REACHABLE",
			"192.168.0.99 dev eth0 STALE",
		}), nil
	}

	snapshot, err := sweeper.Sweep(context.Background(), "192.168.0.")
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Len() != 2 {
		t.Fatalf("snapshot kept %d lines, want 2", snapshot.Len())
	}
	if snapshot.Contains("10.0.0.7") {
		t.Error("snapshot kept a line outside the sweep prefix")
	}
}

func TestSweepEmptyPrefix(t *testing.T) {
	prober := &fakeProber{}
	captured := false
	sweeper := NewSweeper(prober, 0)
	sweeper.capture = func(context.Context) (*neigh.Snapshot, error) {
		captured = true
		return neigh.NewSnapshot(nil), nil
	}

	snapshot, err := sweeper.Sweep(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if snapshot.Len() != 0 {
		t.Errorf("empty prefix produced %d lines", snapshot.Len())
	}
	if len(prober.addresses()) != 0 {
		t.Error("empty prefix must not issue probes")
	}
	if captured {
		t.Error("empty prefix must not capture the neighbor table")
	}
}

func TestSweepCaptureFailure(t *testing.T) {
	prober := &fakeProber{}
	sweeper := NewSweeper(prober, 0)
	sweeper.capture = func(context.Context) (*neigh.Snapshot, error) {
		return nil, errors.New("arp command not found")
	}

	if _, err := sweeper.Sweep(context.Background(), "192.168.0."); err == nil {
		t.Fatal("expected error when the neighbor table capture fails")
	}
}
