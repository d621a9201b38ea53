package tracking

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/sepatu-storefront/metrics"
)

var (
	ErrUntrackable    = errors.New("resi belum dapat dilacak")
	ErrUnknownCourier = errors.New("kurir tidak didukung")
)

// Tracking adalah payload "data" dari endpoint pelacakan.
type Tracking struct {
	Waybill     string  `json:"waybill"`
	Courier     Courier `json:"courier"`
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Destination any     `json:"destination"`
	History     []Event `json:"history"`
}

type Service struct {
	provider Provider
	cache    Cache
}

func NewService(provider Provider, cache Cache) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{provider: provider, cache: cache}
}

// Track memeriksa resi dan kurir sebelum memanggil provider. Resi yang tidak lolos
// CanTrack tidak pernah dikirim ke provider.
func (s *Service) Track(ctx context.Context, waybill string, courier Courier) (*Tracking, error) {
	waybill = strings.TrimSpace(waybill)
	if !CanTrack(waybill) {
		metrics.TrackingRequestsTotal.WithLabelValues("untrackable").Inc()
		return nil, ErrUntrackable
	}
	if courier == CourierNone {
		metrics.TrackingRequestsTotal.WithLabelValues("unknown_courier").Inc()
		return nil, ErrUnknownCourier
	}

	if cached, ok := s.cache.Get(ctx, courier, waybill); ok {
		metrics.TrackingRequestsTotal.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	res, err := s.provider.Track(ctx, waybill, courier)
	if err != nil {
		metrics.TrackingRequestsTotal.WithLabelValues("provider_error").Inc()
		return nil, err
	}

	t := &Tracking{
		Waybill:     waybill,
		Courier:     courier,
		Status:      res.Status,
		Message:     res.Message,
		Destination: res.Destination,
		History:     NormalizeEvents(res.History),
	}
	s.cache.Set(ctx, courier, waybill, t)
	metrics.TrackingRequestsTotal.WithLabelValues("ok").Inc()
	return t, nil
}
