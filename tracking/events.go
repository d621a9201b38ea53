package tracking

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event adalah satu riwayat pelacakan dengan bentuk yang sudah seragam.
type Event struct {
	Status      string `json:"status"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Location    string `json:"location"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp mengembalikan zero time bila format tidak dikenali.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// NormalizeEvents menyeragamkan riwayat dari provider lalu mengurutkannya dari yang
// terbaru. Event tanpa timestamp yang valid diletakkan di akhir dengan urutan asli.
func NormalizeEvents(raw []map[string]any) []Event {
	type keyed struct {
		ev Event
		at int64
	}

	items := make([]keyed, 0, len(raw))
	for _, r := range raw {
		ev := Event{
			Status:      firstString(r, "status", "description", "note"),
			Description: firstString(r, "description", "note", "status"),
			Timestamp:   firstString(r, "timestamp", "updated_at", "date"),
			Location:    firstString(r, "location", "location_name"),
		}

		var at int64
		if t := ParseTimestamp(ev.Timestamp); !t.IsZero() {
			at = t.UnixMilli()
		}
		items = append(items, keyed{ev: ev, at: at})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].at > items[j].at
	})

	out := make([]Event, len(items))
	for i, it := range items {
		out[i] = it.ev
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch val := v.(type) {
		case string:
			s = val
		case fmt.Stringer:
			s = val.String()
		case float64, int, int64, bool:
			s = fmt.Sprint(val)
		default:
			continue
		}
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
