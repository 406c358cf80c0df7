// Package strategy decides whether the monitored target is currently on
// the network. All variants match by plain substring containment against
// raw probe or neighbor-table text; this is loose on purpose (a bound IP
// "192.168.0.1" also matches inside "192.168.0.100") and kept as the
// documented behavior.
package strategy

import (
	"context"
	"fmt"

	stringsutil "github.com/projectdiscovery/utils/strings"

	"github.com/projectdiscovery/hostwatch/pkg/neigh"
	"github.com/projectdiscovery/hostwatch/pkg/probe"
	"github.com/projectdiscovery/hostwatch/pkg/types"
)

// Kind selects a presence strategy variant.
type Kind string

const (
	KindIP       Kind = "ip"
	KindMAC      Kind = "mac"
	KindHostname Kind = "hostname"
)

// ParseKind parses a strategy name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindIP, KindMAC, KindHostname:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (must be ip, mac or hostname)", s)
}

// Strategy answers "is the target present" from the available evidence.
// The snapshot argument is the neighbor-table capture of the current
// sweep; a strategy is free to ignore it and gather its own evidence.
type Strategy interface {
	Evaluate(ctx context.Context, snapshot *neigh.Snapshot) (bool, error)
}

// ProbeSweeper is the slice of pkg/sweep the hostname strategy needs to
// run its own name-resolving probe burst.
type ProbeSweeper interface {
	ProbeAll(ctx context.Context, prefix string, resolveName bool) ([]probe.Result, error)
}

// New builds the strategy variant for kind, bound to the target's
// identifying fields at construction time.
func New(kind Kind, target *types.Target, sweeper ProbeSweeper) (Strategy, error) {
	switch kind {
	case KindIP:
		return &IPPresence{ip: target.IP}, nil
	case KindMAC:
		return &MACPresence{mac: target.MAC}, nil
	case KindHostname:
		return &HostnamePresence{
			hostname: target.Hostname,
			prefix:   target.Prefix(),
			sweeper:  sweeper,
		}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", kind)
}

// IPPresence reports the target present when its IP string appears in the
// neighbor-table snapshot.
type IPPresence struct {
	ip string
}

func (s *IPPresence) Evaluate(_ context.Context, snapshot *neigh.Snapshot) (bool, error) {
	// no criterion configured means "not present", not an error
	if s.ip == "" {
		return false, nil
	}
	return snapshot.Contains(s.ip), nil
}

// MACPresence reports the target present when its normalized hardware
// address appears in the neighbor-table snapshot.
type MACPresence struct {
	mac string
}

func (s *MACPresence) Evaluate(_ context.Context, snapshot *neigh.Snapshot) (bool, error) {
	if s.mac == "" {
		return false, nil
	}
	return snapshot.Contains(s.mac), nil
}

// HostnamePresence ignores the passive snapshot: neighbor tables rarely
// carry resolvable names. It runs its own name-resolving probe burst over
// the prefix and matches the hostname (case-sensitively) against any of
// the raw probe outputs.
type HostnamePresence struct {
	hostname string
	prefix   string
	sweeper  ProbeSweeper
}

func (s *HostnamePresence) Evaluate(ctx context.Context, _ *neigh.Snapshot) (bool, error) {
	if s.hostname == "" || s.prefix == "" {
		return false, nil
	}

	results, err := s.sweeper.ProbeAll(ctx, s.prefix, true)
	if err != nil {
		return false, fmt.Errorf("hostname sweep failed: %w", err)
	}

	for _, result := range results {
		if result.Failed() {
			continue
		}
		if stringsutil.ContainsAny(result.Output, s.hostname) {
			return true, nil
		}
	}
	return false, nil
}
