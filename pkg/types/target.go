package types

import (
	"strings"
)

// Target identifies the host being monitored. Any subset of the fields may
// be set; strategies that find their criterion missing report the host as
// not present instead of failing.
type Target struct {
	IP       string
	MAC      string
	Hostname string
}

// NewTarget builds a Target descriptor. The hardware address is normalized
// once here (lower-case, dash-delimited) and never re-derived elsewhere.
func NewTarget(ip, mac, hostname string) *Target {
	return &Target{
		IP:       strings.TrimSpace(ip),
		MAC:      NormalizeMAC(mac),
		Hostname: strings.TrimSpace(hostname),
	}
}

// NormalizeMAC converts a hardware address to its canonical lower-case,
// dash-delimited form. Normalization is idempotent.
func NormalizeMAC(mac string) string {
	mac = strings.TrimSpace(mac)
	if mac == "" {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(mac), ":", "-")
}

// Prefix returns the /24 sweep prefix derived from the target IP: the first
// three octets plus a trailing dot (e.g. "192.168.0."). It is empty when no
// IP is set; callers must treat an empty prefix as "cannot sweep".
func (t *Target) Prefix() string {
	if t.IP == "" {
		return ""
	}
	parts := strings.Split(t.IP, ".")
	if len(parts) < 4 {
		return ""
	}
	return strings.Join(parts[:3], ".") + "."
}

// Fullname returns a tab-separated "ip mac hostname" label used in logs.
func (t *Target) Fullname() string {
	return strings.Join([]string{t.IP, t.MAC, t.Hostname}, "\t")
}
