package intercept

import (
	"strings"
	"sync"

	"github.com/bimmerbailey/quell/internal/config"
)

// Stats counts suppression decisions: a running total, a distinct count
// keyed by normalized message text, and a bounded FIFO buffer of the most
// recent suppressed messages. Safe for concurrent use; reset only by Clear.
type Stats struct {
	mu        sync.Mutex
	total     int
	unique    map[string]int
	recent    []string
	maxRecent int
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalSuppressed int      `json:"total_suppressed"`
	UniqueCount     int      `json:"unique_count"`
	Recent          []string `json:"recent"`
}

// NewStats creates a Stats with the given recent-buffer bound. Zero or
// negative bounds fall back to the default.
func NewStats(maxRecent int) *Stats {
	if maxRecent <= 0 {
		maxRecent = config.DefaultMaxRecentSuppressed
	}
	return &Stats{
		unique:    make(map[string]int),
		maxRecent: maxRecent,
	}
}

// Record counts one suppressed message. The oldest recent entry is evicted
// once the buffer is full.
func (s *Stats) Record(message string) {
	key := normalizeKey(message)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	s.unique[key]++
	s.recent = append(s.recent, message)
	if len(s.recent) > s.maxRecent {
		s.recent = s.recent[1:]
	}
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	recent := make([]string, len(s.recent))
	copy(recent, s.recent)
	return Snapshot{
		TotalSuppressed: s.total,
		UniqueCount:     len(s.unique),
		Recent:          recent,
	}
}

// Clear resets all counters and the recent buffer.
func (s *Stats) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.unique = make(map[string]int)
	s.recent = nil
}

// maxKeyLen bounds the normalized distinct-count key so near-identical
// messages with long variable tails collapse into one bucket.
const maxKeyLen = 120

// normalizeKey derives the distinct-count key for a message: trimmed,
// whitespace-collapsed, lowercased, and truncated.
func normalizeKey(message string) string {
	key := strings.ToLower(strings.Join(strings.Fields(message), " "))
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	return key
}
