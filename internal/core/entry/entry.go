// Package entry contains the check-in entry model and the pure rules around it.
// Nothing in this package performs I/O.
package entry

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Origin distinguishes authoritative entries from locally synthesized ones.
type Origin string

const (
	// OriginServer marks an entry returned by the remote analysis service.
	OriginServer Origin = "server"
	// OriginOffline marks a placeholder created when a submission failed.
	OriginOffline Origin = "offline"
)

// NeutralSentiment is the score given to offline placeholders.
const NeutralSentiment = 0.5

// OfflineIDPrefix prefixes every locally generated entry ID.
const OfflineIDPrefix = "offline-"

// Entry is one check-in record.
type Entry struct {
	ID             string
	Timestamp      time.Time
	SentimentScore float64
	AnomalyFlag    bool
	UserText       string
	Origin         Origin
}

// IsOffline reports whether the entry is a local placeholder.
func (e Entry) IsOffline() bool {
	return e.Origin == OriginOffline
}

// NewOffline builds the placeholder stored when a submission could not reach
// the remote service. The ID is a UUIDv7 so placeholders sort by creation time
// and never collide, even when two are created in the same millisecond.
func NewOffline(userText string, now time.Time) (Entry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Entry{}, fmt.Errorf("failed to generate offline id: %w", err)
	}
	return Entry{
		ID:             OfflineIDPrefix + id.String(),
		Timestamp:      now.UTC(),
		SentimentScore: NeutralSentiment,
		AnomalyFlag:    false,
		UserText:       strings.TrimSpace(userText),
		Origin:         OriginOffline,
	}, nil
}

// MarkServer tags every entry as authoritative.
// The input slice is not modified.
func MarkServer(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Origin = OriginServer
		out[i] = e
	}
	return out
}

// SortByTimestamp returns a copy ordered by timestamp, oldest first.
// Ties keep their store order.
func SortByTimestamp(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Recent returns the newest n entries by timestamp, newest first.
// n <= 0 returns all entries.
func Recent(entries []Entry, n int) []Entry {
	sorted := SortByTimestamp(entries)
	if n > 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}
	return sorted
}

// CountOffline returns how many entries are local placeholders.
func CountOffline(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.IsOffline() {
			n++
		}
	}
	return n
}

// SentimentLabel buckets a score the way the check-in form reports it.
func SentimentLabel(score float64) string {
	switch {
	case score > 0.6:
		return "positive"
	case score < 0.4:
		return "concerning"
	default:
		return "neutral"
	}
}
