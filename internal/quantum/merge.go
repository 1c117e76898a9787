package quantum

import (
	"context"
	"fmt"

	"quantum-fen/internal/store"
)

// Merge computes the global slot view from every tab record in st. Records
// are visited in store order and the first one holding a slot wins. Slots
// for which active returns false are skipped; a nil active accepts all.
// Corrupt records contribute nothing.
func Merge(ctx context.Context, st store.Store, active func(name string) bool) (map[string]string, error) {
	keys, err := st.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	result := make(map[string]string)
	for _, key := range keys {
		if !IsTabKey(key) {
			continue
		}
		raw, ok, err := st.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", key, err)
		}
		if !ok {
			// Removed between Keys and Get by a closing tab.
			continue
		}
		r, err := DecodeRecord(raw)
		if err != nil {
			continue
		}
		for name, value := range r {
			if _, seen := result[name]; seen {
				continue
			}
			if active != nil && !active(name) {
				continue
			}
			result[name] = value
		}
	}
	return result, nil
}
