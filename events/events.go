// Package events menerbitkan perubahan status order ke broker untuk layanan lain
// (notifikasi, gudang).
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/sepatu-storefront/status"
)

const (
	TypeStatusChanged = "status.changed"
	producerName      = "storefront-api"
)

// StatusChanged dikirim setiap kali status tampilan order/submission berubah.
type StatusChanged struct {
	EventID    string         `json:"event_id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Producer   string         `json:"producer"`
	Table      string         `json:"table"`
	RecordID   string         `json:"record_id"`
	OwnerID    string         `json:"owner_id,omitempty"`
	RawStatus  string         `json:"raw_status"`
	Display    status.Display `json:"display_status"`
	Previous   status.Display `json:"previous_display_status,omitempty"`
	Version    uint64         `json:"version"`
}

func NewStatusChanged(table, recordID, ownerID, raw string, prev status.Display, version uint64) StatusChanged {
	return StatusChanged{
		EventID:    uuid.NewString(),
		Type:       TypeStatusChanged,
		OccurredAt: time.Now().UTC(),
		Producer:   producerName,
		Table:      table,
		RecordID:   recordID,
		OwnerID:    ownerID,
		RawStatus:  raw,
		Display:    status.Normalize(raw),
		Previous:   prev,
		Version:    version,
	}
}

// StatusPublisher tidak boleh memblokir pemanggil terlalu lama.
type StatusPublisher interface {
	PublishStatus(ctx context.Context, ev StatusChanged) error
	Close() error
}

// NopPublisher dipakai ketika KAFKA_BROKERS kosong.
type NopPublisher struct{}

func (NopPublisher) PublishStatus(context.Context, StatusChanged) error { return nil }
func (NopPublisher) Close() error                                       { return nil }
