package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFacadeGetOrLoadPopulatesCache(t *testing.T) {
	store := newMemoryStore()
	facade := NewFacade(store)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (string, error) {
		loads++
		return "fresh", nil
	}

	value, err := GetOrLoad(ctx, facade, "school:s1:detail", time.Minute, loader)
	require.NoError(t, err)
	require.Equal(t, "fresh", value)
	require.Equal(t, 1, loads)

	// Second read is served from cache without invoking the loader.
	value, err = GetOrLoad(ctx, facade, "school:s1:detail", time.Minute, loader)
	require.NoError(t, err)
	require.Equal(t, "fresh", value)
	require.Equal(t, 1, loads)
}

func TestFacadeDegradesToLoaderOnBackendError(t *testing.T) {
	store := newMemoryStore()
	store.failGet = true
	store.failSet = true
	facade := NewFacade(store)
	ctx := context.Background()

	loads := 0
	value, err := GetOrLoad(ctx, facade, "subject:s1:list", time.Minute, func(context.Context) (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, value)
	require.Equal(t, 1, loads)

	// Every call loads again because nothing could be cached.
	_, err = GetOrLoad(ctx, facade, "subject:s1:list", time.Minute, func(context.Context) (int, error) {
		loads++
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, loads)
}

func TestFacadeNilStoreIsAlwaysMiss(t *testing.T) {
	facade := NewFacade(nil)
	ctx := context.Background()

	require.False(t, facade.Enabled())

	_, found := facade.Get(ctx, "anything")
	require.False(t, found)

	// Set and Evict must be safe no-ops.
	facade.Set(ctx, "anything", []byte("x"), time.Minute)
	facade.Evict(ctx, "anything")

	value, err := GetOrLoad(ctx, facade, "k", time.Minute, func(context.Context) (string, error) {
		return "from-store", nil
	})
	require.NoError(t, err)
	require.Equal(t, "from-store", value)
}

func TestFacadeCacheOptionalCorrectness(t *testing.T) {
	// The same loader behind an enabled and a disabled facade must yield
	// identical results.
	ctx := context.Background()
	loader := func(context.Context) ([]string, error) {
		return []string{"7A", "7B"}, nil
	}

	enabled := NewFacade(newMemoryStore())
	disabled := NewFacade(nil)

	got1, err := GetOrLoad(ctx, enabled, "section:s1:list", time.Minute, loader)
	require.NoError(t, err)
	got2, err := GetOrLoad(ctx, disabled, "section:s1:list", time.Minute, loader)
	require.NoError(t, err)
	require.Equal(t, got1, got2)
}

func TestFacadeLoaderErrorPropagates(t *testing.T) {
	facade := NewFacade(newMemoryStore())

	wantErr := errors.New("store offline")
	_, err := GetOrLoad(context.Background(), facade, "k", time.Minute, func(context.Context) (string, error) {
		return "", wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestFacadeEvictsCorruptEntries(t *testing.T) {
	store := newMemoryStore()
	facade := NewFacade(store)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "teacher:s1:detail:t1", []byte("{not json"), time.Minute))

	type teacherView struct {
		Name string `json:"name"`
	}
	value, err := GetOrLoad(ctx, facade, "teacher:s1:detail:t1", time.Minute, func(context.Context) (teacherView, error) {
		return teacherView{Name: "Pak Budi"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, "Pak Budi", value.Name)

	// The corrupt entry was replaced with the freshly loaded value.
	data, found, err := store.Get(ctx, "teacher:s1:detail:t1")
	require.NoError(t, err)
	require.True(t, found)
	require.JSONEq(t, `{"name":"Pak Budi"}`, string(data))
}
