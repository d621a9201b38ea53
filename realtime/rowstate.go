package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
)

// RowState menyimpan salinan lokal satu baris beserta versi terakhir yang diterapkan.
// Patch dengan versi lebih lama dari yang dipegang ditolak; field nil tidak menimpa nilai lama.
type RowState struct {
	mu      sync.RWMutex
	version uint64
	row     map[string]any
}

func NewRowState(version uint64, row map[string]any) *RowState {
	s := &RowState{version: version, row: make(map[string]any, len(row))}
	for k, v := range row {
		s.row[k] = v
	}
	return s
}

// Merge mengembalikan false bila patch lebih lama dari versi saat ini.
func (s *RowState) Merge(version uint64, patch map[string]any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version < s.version {
		return false
	}
	s.version = version
	for k, v := range patch {
		if v == nil {
			continue
		}
		s.row[k] = v
	}
	return true
}

func (s *RowState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *RowState) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.row))
	for k, v := range s.row {
		out[k] = v
	}
	return out
}

// String mengembalikan field sebagai string; angka JSON dikonversi tanpa desimal nol.
func (s *RowState) String(field string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch v := s.row[field].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

// RowMap mengubah model gorm menjadi map dengan key sesuai tag json.
func RowMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
