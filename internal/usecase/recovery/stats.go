package recovery

import (
	"sort"
	"sync"
	"time"

	"talentboard/internal/domain/failure"
)

// Pattern aggregates occurrences of one failure kind within one operation.
type Pattern struct {
	Kind      failure.Kind
	Operation string
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
}

// Statistics is a point-in-time snapshot of the pattern store.
type Statistics struct {
	TotalErrors int

	// Patterns is sorted by descending occurrence count; ties break on
	// operation then kind name for a stable order.
	Patterns []Pattern
}

type patternKey struct {
	kind      failure.Kind
	operation string
}

// patternStore holds per-pattern counters for the life of the process.
// All access goes through the mutex; entries are created on first occurrence
// and only removed by clear.
type patternStore struct {
	mu       sync.Mutex
	patterns map[patternKey]*Pattern
	total    int
}

func newPatternStore() *patternStore {
	return &patternStore{patterns: make(map[patternKey]*Pattern)}
}

// record increments the pattern for kind+operation, creating it on first use.
func (s *patternStore) record(kind failure.Kind, operation string) {
	now := time.Now()
	key := patternKey{kind: kind, operation: operation}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if p, ok := s.patterns[key]; ok {
		p.Count++
		p.LastSeen = now
		return
	}
	s.patterns[key] = &Pattern{
		Kind:      kind,
		Operation: operation,
		Count:     1,
		FirstSeen: now,
		LastSeen:  now,
	}
}

// snapshot copies the store into a Statistics value. Repeated snapshots
// without intervening records are identical.
func (s *patternStore) snapshot() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	patterns := make([]Pattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		patterns = append(patterns, *p)
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Count != patterns[j].Count {
			return patterns[i].Count > patterns[j].Count
		}
		if patterns[i].Operation != patterns[j].Operation {
			return patterns[i].Operation < patterns[j].Operation
		}
		return patterns[i].Kind.String() < patterns[j].Kind.String()
	})

	return Statistics{TotalErrors: s.total, Patterns: patterns}
}

// clear resets all counters and patterns.
func (s *patternStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = make(map[patternKey]*Pattern)
	s.total = 0
}

// size returns the number of distinct patterns currently tracked.
func (s *patternStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.patterns)
}
