package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nadiaputeri/campuscore/internal/database/testutil"
)

func seedScope(t *testing.T, store *memoryStore, scope Scope, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		key := scope.Key(fmt.Sprintf("item-%03d", i))
		require.NoError(t, store.Set(context.Background(), key, []byte("v"), time.Minute))
	}
}

func TestInvalidateScopeRemovesOnlyMatchingKeys(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	scoped := NewScope("timetable", "school-1").Narrow("section-1")
	other := NewScope("timetable", "school-1").Narrow("section-2")
	seedScope(t, store, scoped, 5)
	seedScope(t, store, other, 3)

	inv := NewInvalidator(store)
	require.True(t, inv.InvalidateScope(ctx, scoped))

	require.Equal(t, 3, store.len())
	for key := range store.snapshot() {
		require.Contains(t, key, "section-2")
	}
}

func TestInvalidateScopeIsIdempotent(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	scope := NewScope("school", "school-1")
	seedScope(t, store, scope, 4)

	inv := NewInvalidator(store)
	require.True(t, inv.InvalidateScope(ctx, scope))
	after := store.snapshot()

	// A second pass and a pass over an already empty scope change nothing.
	require.True(t, inv.InvalidateScope(ctx, scope))
	require.Equal(t, after, store.snapshot())
	require.True(t, inv.InvalidateScope(ctx, NewScope("school", "missing")))
	require.Equal(t, after, store.snapshot())
}

func TestInvalidateScopeIteratesInBoundedBatches(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	scope := NewScope("subject", "school-1")
	seedScope(t, store, scope, int(scanBatchSize)*2+10)

	inv := NewInvalidator(store)
	require.True(t, inv.InvalidateScope(ctx, scope))

	require.Equal(t, 0, store.len())
	// Three partial batches plus the final empty scan confirming completion.
	require.GreaterOrEqual(t, store.scans, 3)
}

func TestInvalidateScopeClearsDatabaseStore(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := NewDatabaseStore(db)
	ctx := context.Background()

	scope := NewScope("subject", "school-1")
	total := int(scanBatchSize)*2 + 10
	for i := 0; i < total; i++ {
		key := scope.Key(fmt.Sprintf("item-%04d", i))
		require.NoError(t, store.Set(ctx, key, []byte("v"), time.Minute))
	}

	inv := NewInvalidator(store)
	require.True(t, inv.InvalidateScope(ctx, scope))

	keys, next, err := store.Scan(ctx, scope.Pattern(), ScanCursorStart, scanBatchSize)
	require.NoError(t, err)
	require.Empty(t, keys)
	require.Equal(t, ScanCursorStart, next)
}

func TestInvalidateScopeSurvivesDeleteFailure(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	scope := NewScope("teacher", "school-1")
	seedScope(t, store, scope, 3)
	store.failDelete = true

	inv := NewInvalidator(store)
	// Best-effort: reports incomplete but does not panic or abort.
	require.False(t, inv.InvalidateScope(ctx, scope))
}

func TestInvalidateScopeScanFailureIsBestEffort(t *testing.T) {
	store := newMemoryStore()
	store.failScan = true

	inv := NewInvalidator(store)
	require.False(t, inv.InvalidateScope(context.Background(), NewScope("school", "s1")))
}

func TestInvalidatorNilStoreIsNoOp(t *testing.T) {
	inv := NewInvalidator(nil)
	require.True(t, inv.InvalidateScope(context.Background(), NewScope("school", "s1")))
}

func TestScopeRendering(t *testing.T) {
	scope := NewScope("timetable", "school-1").Narrow("sec-1:year-1")

	require.Equal(t, "timetable:school-1:sec-1:year-1:", scope.Prefix())
	require.Equal(t, "timetable:school-1:sec-1:year-1:*", scope.Pattern())
	require.Equal(t, "timetable:school-1:sec-1:year-1:view", scope.Key("view"))

	tenantWide := NewScope("school", "school-1")
	require.Equal(t, "school:school-1:*", tenantWide.Pattern())
}
