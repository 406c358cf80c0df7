// Package neigh captures the operating system's neighbor table (the
// IP-to-hardware-address resolution cache) as raw text. The cache is
// populated lazily by the OS; callers that need fresh entries must probe
// the hosts first (see pkg/sweep).
package neigh

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	stringsutil "github.com/projectdiscovery/utils/strings"
)

// Snapshot is one immutable capture of the neighbor table, kept as raw
// lines. No structure is parsed out of them; presence checks are plain
// substring containment.
type Snapshot struct {
	lines []string
}

// NewSnapshot wraps pre-captured table lines, mostly useful in tests.
func NewSnapshot(lines []string) *Snapshot {
	return &Snapshot{lines: lines}
}

// Capture dumps the current neighbor table by invoking the platform's
// table-dump command. The returned snapshot is valid for one sweep cycle
// and should be discarded afterwards.
func Capture(ctx context.Context) (*Snapshot, error) {
	output, err := dumpNeighborTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to dump neighbor table: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return &Snapshot{lines: lines}, scanner.Err()
}

// Lines returns the captured table lines.
func (s *Snapshot) Lines() []string {
	return s.lines
}

// Len returns the number of captured lines.
func (s *Snapshot) Len() int {
	return len(s.lines)
}

// Contains reports whether any captured line contains sub. An empty
// needle never matches.
func (s *Snapshot) Contains(sub string) bool {
	if sub == "" {
		return false
	}
	for _, line := range s.lines {
		if stringsutil.ContainsAny(line, sub) {
			return true
		}
	}
	return false
}

// Filter returns a new snapshot restricted to lines containing prefix.
func (s *Snapshot) Filter(prefix string) *Snapshot {
	var filtered []string
	for _, line := range s.lines {
		if stringsutil.ContainsAny(line, prefix) {
			filtered = append(filtered, line)
		}
	}
	return &Snapshot{lines: filtered}
}
