package internal

import "sync"

// AtomicMap is a typed wrapper over sync.Map, used as the series store while
// segments are decoded.
type AtomicMap[K comparable, V any] struct {
	m sync.Map
}

func (a *AtomicMap[K, V]) Load(key K) (value V, ok bool) {
	v, ok := a.m.Load(key)
	if !ok {
		return
	}
	value = v.(V)
	return
}

func (a *AtomicMap[K, V]) Store(key K, value V) {
	a.m.Store(key, value)
}

func (a *AtomicMap[K, V]) Range() func(func(key K, value V) bool) {
	return func(yield func(key K, value V) bool) {
		a.m.Range(func(key, value any) bool {
			return yield(key.(K), value.(V))
		})
	}
}
