package cache

import (
	"context"
	"errors"
	"path"
	"sort"
	"strconv"
	"sync"
	"time"
)

// memoryStore is a concurrency-safe in-memory Store used across the package
// tests. Failure flags simulate an unreachable or flaky backend.
type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	expiry  map[string]time.Time
	scans   int
	deletes int

	failGet    bool
	failSet    bool
	failDelete bool
	failScan   bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		data:   make(map[string][]byte),
		expiry: make(map[string]time.Time),
	}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failGet {
		return nil, false, errors.New("memory store: get unavailable")
	}

	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	if deadline, has := m.expiry[key]; has && time.Now().After(deadline) {
		delete(m.data, key)
		delete(m.expiry, key)
		return nil, false, nil
	}
	return value, true, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet {
		return errors.New("memory store: set unavailable")
	}

	m.data[key] = value
	if ttl > 0 {
		m.expiry[key] = time.Now().Add(ttl)
	}
	return nil
}

func (m *memoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deletes++
	if m.failDelete {
		return errors.New("memory store: delete unavailable")
	}

	for _, key := range keys {
		delete(m.data, key)
		delete(m.expiry, key)
	}
	return nil
}

func (m *memoryStore) Scan(_ context.Context, pattern string, cursor string, count int64) ([]string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans++
	if m.failScan {
		return nil, "", errors.New("memory store: scan unavailable")
	}
	if count <= 0 {
		count = 100
	}

	all := make([]string, 0, len(m.data))
	for key := range m.data {
		if ok, _ := path.Match(pattern, key); ok {
			all = append(all, key)
		}
	}
	sort.Strings(all)

	// Keyset pagination mirroring DatabaseStore.Scan: resume strictly after
	// the cursor key so deletions between pages cannot shift the window.
	start := 0
	if cursor != "" && cursor != ScanCursorStart {
		start = sort.SearchStrings(all, cursor)
		if start < len(all) && all[start] == cursor {
			start++
		}
	}
	if start >= len(all) {
		return nil, ScanCursorStart, nil
	}

	end := start + int(count)
	if end > len(all) {
		end = len(all)
	}

	page := all[start:end]
	next := ScanCursorStart
	if int64(len(page)) == count {
		next = page[len(page)-1]
	}
	return page, next, nil
}

func (m *memoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, _ := strconv.ParseInt(string(m.data[key]), 10, 64)
	current++
	m.data[key] = []byte(strconv.FormatInt(current, 10))
	if current == 1 && window > 0 {
		m.expiry[key] = time.Now().Add(window)
	}
	return current, window, nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

func (m *memoryStore) snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string][]byte, len(m.data))
	for key, value := range m.data {
		out[key] = value
	}
	return out
}
