package quantum

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"quantum-fen/internal/store"
)

// TabPrefix namespaces tab records in the shared store.
const TabPrefix = "TAB_"

// NewTabID returns a fresh, process-unique tab key.
func NewTabID() string {
	return TabPrefix + uuid.NewString()
}

// IsTabKey reports whether key holds a tab record.
func IsTabKey(key string) bool {
	return strings.HasPrefix(key, TabPrefix)
}

// Record maps slot name to the value one tab has observed.
type Record map[string]string

// Encode serialises r as a JSON object.
func (r Record) Encode() string {
	if len(r) == 0 {
		return "{}"
	}
	data, err := json.Marshal(map[string]string(r))
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeRecord parses a stored record.
func DecodeRecord(raw string) (Record, error) {
	r := Record{}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decode tab record: %w", err)
	}
	return r, nil
}

// loadRecord reads one tab's record; missing or corrupt records read as empty.
func loadRecord(ctx context.Context, st store.Store, tabID string, logger *slog.Logger) (Record, error) {
	raw, ok, err := st.Get(ctx, tabID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Record{}, nil
	}
	r, err := DecodeRecord(raw)
	if err != nil {
		logger.Debug("ignoring corrupt tab record", "tab", tabID, "error", err)
		return Record{}, nil
	}
	return r, nil
}

// Sweep deletes tab records that hold no slots. Tabs that closed without
// cleaning up leave these behind.
func Sweep(ctx context.Context, st store.Store) (int, error) {
	keys, err := st.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep: %w", err)
	}
	removed := 0
	for _, key := range keys {
		if !IsTabKey(key) {
			continue
		}
		raw, ok, err := st.Get(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("sweep %s: %w", key, err)
		}
		if !ok {
			continue
		}
		r, err := DecodeRecord(raw)
		if err != nil || len(r) > 0 {
			continue
		}
		if err := st.Remove(ctx, key); err != nil {
			return removed, fmt.Errorf("sweep %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}
