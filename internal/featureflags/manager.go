// Package featureflags evaluates on/off and percentage-rollout flags.
package featureflags

import (
	"hash/fnv"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Flags read by the application.
const (
	// UserCache serves user lookups through Redis.
	UserCache = "user_cache"
	// LiveFeed exposes the websocket feed stream.
	LiveFeed = "live_feed"
)

// rule is a parsed flag value. percent is 0..100; on/off map to 100 and 0.
type rule struct {
	raw     string
	percent int
}

// Manager holds flags parsed from a list such as "user_cache=on,live_feed=25%".
// Malformed entries are skipped. A nil Manager reports every flag off.
type Manager struct {
	rules map[string]rule
}

// NewManager parses a comma-separated key=value list.
func NewManager(raw string) *Manager {
	m := &Manager{rules: make(map[string]rule)}
	for _, entry := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		m.rules[key] = rule{raw: value, percent: parsePercent(value)}
	}
	return m
}

// parsePercent returns -1 for values that are neither a switch nor N%.
func parsePercent(value string) int {
	switch value {
	case "on", "true", "1":
		return 100
	case "off", "false", "0":
		return 0
	}
	pct, found := strings.CutSuffix(value, "%")
	if !found {
		return -1
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return -1
	}
	return min(max(n, 0), 100)
}

// Enabled reports whether name is on for subject (a client address or user
// id). Partial rollouts hash name and subject into one of 100 buckets, so a
// subject always gets the same answer; an empty subject is never in a
// partial rollout.
func (m *Manager) Enabled(name, subject string) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	switch {
	case !ok || r.percent <= 0:
		return false
	case r.percent >= 100:
		return true
	case subject == "":
		return false
	default:
		return rolloutBucket(name, subject) < r.percent
	}
}

// On reports whether a flag is fully on.
func (m *Manager) On(name string) bool {
	return m.Enabled(name, "")
}

// Raw returns the configured values by flag name.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string)
	if m == nil {
		return out
	}
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Names returns the configured flag names, sorted.
func (m *Manager) Names() []string {
	return slices.Sorted(maps.Keys(m.Raw()))
}

// Snapshot evaluates every configured flag for subject.
func (m *Manager) Snapshot(subject string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range m.Names() {
		out[name] = m.Enabled(name, subject)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name)))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % 100)
}
