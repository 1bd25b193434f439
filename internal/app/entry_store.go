package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/example/checkin/internal/core/entry"
	"github.com/example/checkin/internal/ports/secondary"
)

// DefaultSlotName is the slot holding the entry list.
const DefaultSlotName = "dailyEntries"

// EntryStore is a typed accessor over the persisted entry slot.
// It reads and writes the whole list; it never merges or deduplicates.
type EntryStore struct {
	slots  secondary.SlotStore
	slot   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewEntryStore creates an EntryStore over the named slot.
func NewEntryStore(slots secondary.SlotStore, slotName string, logger *slog.Logger) *EntryStore {
	if slotName == "" {
		slotName = DefaultSlotName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EntryStore{
		slots:  slots,
		slot:   slotName,
		logger: logger.With("component", "entry_store", "slot", slotName),
	}
}

// Load returns the persisted entries in store order.
// A missing, unreadable or malformed slot yields an empty list.
func (s *EntryStore) Load(ctx context.Context) []entry.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the slot with entries.
func (s *EntryStore) Save(ctx context.Context, entries []entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, entries)
}

// Append adds e to the end of the persisted list.
func (s *EntryStore) Append(ctx context.Context, e entry.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load(ctx)
	entries = append(entries, e)
	return s.save(ctx, entries)
}

func (s *EntryStore) load(ctx context.Context) []entry.Entry {
	payload, found, err := s.slots.Read(ctx, s.slot)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read entry slot, treating as empty", "error", err)
		return []entry.Entry{}
	}
	if !found || len(payload) == 0 {
		return []entry.Entry{}
	}

	entries, err := entry.DecodeSlot(payload)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding malformed persisted data", "error", err, "bytes", len(payload))
		return []entry.Entry{}
	}
	return entries
}

func (s *EntryStore) save(ctx context.Context, entries []entry.Entry) error {
	payload, err := entry.EncodeSlot(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}
	if err := s.slots.Write(ctx, s.slot, payload); err != nil {
		return fmt.Errorf("failed to write entry slot: %w", err)
	}
	return nil
}
