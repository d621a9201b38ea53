package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls  int
	result *Result
	err    error
}

func (f *fakeProvider) Track(ctx context.Context, waybill string, courier Courier) (*Result, error) {
	f.calls++
	return f.result, f.err
}

type memoryCache struct {
	items map[string]*Tracking
}

func (m *memoryCache) Get(_ context.Context, c Courier, w string) (*Tracking, bool) {
	t, ok := m.items[cacheKey(c, w)]
	return t, ok
}

func (m *memoryCache) Set(_ context.Context, c Courier, w string, t *Tracking) {
	m.items[cacheKey(c, w)] = t
}

func TestServiceTrack_GuardsSkipProvider(t *testing.T) {
	p := &fakeProvider{}
	svc := NewService(p, nil)

	_, err := svc.Track(context.Background(), "Sedang dikemas", CourierJNE)
	assert.ErrorIs(t, err, ErrUntrackable)

	_, err = svc.Track(context.Background(), "123", CourierJNE)
	assert.ErrorIs(t, err, ErrUntrackable)

	_, err = svc.Track(context.Background(), "JNE0011223344", CourierNone)
	assert.ErrorIs(t, err, ErrUnknownCourier)

	assert.Zero(t, p.calls)
}

func TestServiceTrack_NormalizesAndCaches(t *testing.T) {
	p := &fakeProvider{result: &Result{
		Status:  "on_process",
		Message: "ok",
		History: []map[string]any{
			{"note": "a", "updated_at": "2024-05-01T10:00:00Z"},
			{"note": "b", "updated_at": "2024-05-03T10:00:00Z"},
		},
	}}
	cache := &memoryCache{items: map[string]*Tracking{}}
	svc := NewService(p, cache)

	got, err := svc.Track(context.Background(), " SC0012345678 ", CourierSiCepat)
	require.NoError(t, err)
	assert.Equal(t, "SC0012345678", got.Waybill)
	assert.Equal(t, "b", got.History[0].Status)

	_, err = svc.Track(context.Background(), "SC0012345678", CourierSiCepat)
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestServiceTrack_ProviderError(t *testing.T) {
	p := &fakeProvider{err: &ProviderError{StatusCode: 404, Message: "Waybill tidak ditemukan"}}
	svc := NewService(p, NopCache{})

	_, err := svc.Track(context.Background(), "JP123456", CourierJNT)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProvider))
	assert.Equal(t, "Waybill tidak ditemukan", err.Error())
}
