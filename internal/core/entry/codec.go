package entry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order. The analysis service emits naive
// ISO-8601 timestamps (no zone), which are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 instant as written by the service or by
// this client.
func ParseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// slotRecord is the persisted shape of one entry in the local slot.
// Offline is the marker written by older clients before Origin existed.
type slotRecord struct {
	ID             string  `json:"id"`
	Timestamp      string  `json:"timestamp"`
	SentimentScore float64 `json:"sentiment_score"`
	AnomalyFlag    bool    `json:"anomaly_flag"`
	UserText       string  `json:"user_text,omitempty"`
	Origin         Origin  `json:"origin,omitempty"`
	Offline        bool    `json:"offline,omitempty"`
}

// EncodeSlot serializes the full entry list for the local slot.
func EncodeSlot(entries []Entry) ([]byte, error) {
	records := make([]slotRecord, len(entries))
	for i, e := range entries {
		origin := e.Origin
		if origin == "" {
			origin = OriginServer
		}
		records[i] = slotRecord{
			ID:             e.ID,
			Timestamp:      e.Timestamp.UTC().Format(time.RFC3339Nano),
			SentimentScore: e.SentimentScore,
			AnomalyFlag:    e.AnomalyFlag,
			UserText:       e.UserText,
			Origin:         origin,
		}
	}
	return json.Marshal(records)
}

// DecodeSlot parses a local slot payload. Any structural problem makes the
// whole payload malformed; callers treat that as an empty store.
func DecodeSlot(data []byte) ([]Entry, error) {
	var records []slotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for i, r := range records {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("decode slot: entry %d has no id", i)
		}
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("decode slot: entry %s: %w", r.ID, err)
		}

		origin := r.Origin
		switch {
		case origin == "" && r.Offline:
			origin = OriginOffline
		case origin == "":
			origin = OriginServer
		case origin != OriginServer && origin != OriginOffline:
			return nil, fmt.Errorf("decode slot: entry %s has unknown origin %q", r.ID, origin)
		}

		entries = append(entries, Entry{
			ID:             r.ID,
			Timestamp:      ts,
			SentimentScore: r.SentimentScore,
			AnomalyFlag:    r.AnomalyFlag,
			UserText:       r.UserText,
			Origin:         origin,
		})
	}
	return entries, nil
}
