package neigh

import "testing"

func TestSnapshotContains(t *testing.T) {
	snapshot := NewSnapshot([]string{
		"192.168.0.1 dev eth0 lladdr aa-bb-cc-dd-ee-ff REACHABLE",
		"192.168.0.100 dev eth0 lladdr 11-22-33-44-55-66 STALE",
	})

	tests := []struct {
		name string
		sub  string
		want bool
	}{
		{
			name: "ip match",
			sub:  "192.168.0.100",
			want: true,
		},
		{
			name: "mac match",
			sub:  "aa-bb-cc-dd-ee-ff",
			want: true,
		},
		{
			name: "no match",
			sub:  "10.0.0.1",
			want: false,
		},
		{
			name: "empty needle never matches",
			sub:  "",
			want: false,
		},
		{
			// substring containment is the documented matching rule, so
			// a shorter ip also matches inside a longer one
			name: "loose substring match",
			sub:  "192.168.0.1",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapshot.Contains(tt.sub); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.sub, got, tt.want)
			}
		})
	}
}

func TestSnapshotFilter(t *testing.T) {
	snapshot := NewSnapshot([]string{
		"192.168.0.1 dev eth0 REACHABLE",
		"10.0.0.1 dev eth1 REACHABLE",
		"192.168.0.44 dev eth0 STALE",
	})

	filtered := snapshot.Filter("192.168.0.")
	if filtered.Len() != 2 {
		t.Fatalf("Filter() kept %d lines, want 2", filtered.Len())
	}
	for _, line := range filtered.Lines() {
		if line == "10.0.0.1 dev eth1 REACHABLE" {
			t.Errorf("Filter() kept line outside prefix: %q", line)
		}
	}
}
