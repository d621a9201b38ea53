package realtime

import (
	"context"
	"sync"
)

// Keyed adalah item list yang punya kunci unik (id keranjang, produk favorit).
type Keyed interface {
	Key() string
}

// CommitFunc menjalankan mutasi ke database untuk perubahan optimistis.
type CommitFunc func(ctx context.Context) error

// OptimisticList langsung mengubah list lokal lalu menjalankan commit di background.
// Bila commit gagal perubahan dibatalkan, kecuali sudah ada snapshot yang lebih baru
// dari Replace; snapshot itu dianggap kebenaran.
type OptimisticList[T Keyed] struct {
	mu         sync.Mutex
	items      []T
	generation uint64
	wg         sync.WaitGroup
}

func NewOptimisticList[T Keyed](items []T) *OptimisticList[T] {
	l := &OptimisticList[T]{}
	l.items = append(l.items, items...)
	return l
}

func (l *OptimisticList[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Replace memasang snapshot otoritatif dari database.
func (l *OptimisticList[T]) Replace(items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items[:0:0], items...)
	l.generation++
}

// Remove menghapus item secara lokal sebelum commit selesai. Channel hasil menerima
// error commit (nil bila sukses) lalu ditutup.
func (l *OptimisticList[T]) Remove(ctx context.Context, key string, commit CommitFunc) <-chan error {
	l.mu.Lock()
	idx := l.indexOf(key)
	var removed T
	if idx >= 0 {
		removed = l.items[idx]
		l.items = append(l.items[:idx], l.items[idx+1:]...)
	}
	gen := l.generation
	l.mu.Unlock()

	return l.run(ctx, commit, func() {
		if idx < 0 || l.generation != gen || l.indexOf(key) >= 0 {
			return
		}
		l.insertAt(idx, removed)
	})
}

// Toggle menambah item bila belum ada, atau menghapusnya bila sudah ada.
func (l *OptimisticList[T]) Toggle(ctx context.Context, item T, commit CommitFunc) <-chan error {
	key := item.Key()

	l.mu.Lock()
	idx := l.indexOf(key)
	var removed T
	if idx >= 0 {
		removed = l.items[idx]
		l.items = append(l.items[:idx], l.items[idx+1:]...)
	} else {
		l.items = append(l.items, item)
	}
	gen := l.generation
	l.mu.Unlock()

	return l.run(ctx, commit, func() {
		if l.generation != gen {
			return
		}
		if idx >= 0 {
			if l.indexOf(key) < 0 {
				l.insertAt(idx, removed)
			}
			return
		}
		if i := l.indexOf(key); i >= 0 {
			l.items = append(l.items[:i], l.items[i+1:]...)
		}
	})
}

// Wait menunggu semua commit yang sedang berjalan.
func (l *OptimisticList[T]) Wait() {
	l.wg.Wait()
}

func (l *OptimisticList[T]) run(ctx context.Context, commit CommitFunc, revert func()) <-chan error {
	result := make(chan error, 1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(result)

		err := commit(ctx)
		if err != nil {
			l.mu.Lock()
			revert()
			l.mu.Unlock()
		}
		result <- err
	}()
	return result
}

func (l *OptimisticList[T]) indexOf(key string) int {
	for i, it := range l.items {
		if it.Key() == key {
			return i
		}
	}
	return -1
}

func (l *OptimisticList[T]) insertAt(idx int, item T) {
	if idx > len(l.items) {
		idx = len(l.items)
	}
	l.items = append(l.items, item)
	copy(l.items[idx+1:], l.items[idx:])
	l.items[idx] = item
}
