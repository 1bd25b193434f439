package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSlotFileStore_ReadMissing(t *testing.T) {
	store, err := NewSlotFileStore(filepath.Join(t.TempDir(), "not-yet"))
	if err != nil {
		t.Fatalf("NewSlotFileStore failed: %v", err)
	}

	payload, found, err := store.Read(context.Background(), "dailyEntries")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if found || payload != nil {
		t.Errorf("expected missing slot, got found=%v payload=%q", found, payload)
	}
}

func TestSlotFileStore_WriteReplaces(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	store, _ := NewSlotFileStore(dir)

	if err := store.Write(ctx, "dailyEntries", []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := store.Write(ctx, "dailyEntries", []byte(`[]`)); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	payload, found, err := store.Read(ctx, "dailyEntries")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !found || string(payload) != "[]" {
		t.Errorf("expected last write, got found=%v payload=%q", found, payload)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(files) != 1 || files[0].Name() != "dailyEntries.json" {
		names := make([]string, 0, len(files))
		for _, f := range files {
			names = append(names, f.Name())
		}
		t.Errorf("expected only dailyEntries.json, got %v", names)
	}
}

func TestSlotFileStore_RejectsPathNames(t *testing.T) {
	store, _ := NewSlotFileStore(t.TempDir())

	for _, name := range []string{"", "..", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			err := store.Write(context.Background(), name, []byte("x"))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "invalid slot name") {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestNewSlotFileStore_RequiresDir(t *testing.T) {
	if _, err := NewSlotFileStore(""); err == nil {
		t.Error("expected error for empty directory")
	}
}
