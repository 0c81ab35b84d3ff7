package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisclient "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/superbill/pos-api/pkg/models"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redisclient.NewClient(&redisclient.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewStore(client), mr
}

func testLines() []models.CartLine {
	return []models.CartLine{
		{InventoryItem: models.InventoryItem{ProductID: "P1", ProductName: "Rice", SellingPrice: "95", SellingPriceValue: 95}, Quantity: 2},
		{InventoryItem: models.InventoryItem{ProductID: "P2", ProductName: "Oil", SellingPrice: "160", SellingPriceValue: 160}, Quantity: 1},
	}
}

func TestVendorEmail_RoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	_, err := store.GetVendorEmail(ctx)
	assert.ErrorIs(t, err, ErrVendorEmailNotSet)

	require.NoError(t, store.SetVendorEmail(ctx, "vendor@shop.test"))
	email, err := store.GetVendorEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "vendor@shop.test", email)

	// Overwritten unconditionally, no expiry.
	require.NoError(t, store.SetVendorEmail(ctx, "other@shop.test"))
	email, err = store.GetVendorEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "other@shop.test", email)
}

func TestCart_SaveLoadRoundTrip(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	lines := testLines()
	require.NoError(t, store.SaveCart(ctx, "session1", lines))

	loaded, err := store.LoadCart(ctx, "session1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "P1", string(loaded[0].ProductID))
	assert.Equal(t, 2, loaded[0].Quantity)
	assert.Equal(t, "P2", string(loaded[1].ProductID))

	// Derived prices are re-parsed on load, not persisted.
	assert.InDelta(t, 95.0, loaded[0].SellingPriceValue, 1e-9)
	assert.InDelta(t, 160.0, loaded[1].SellingPriceValue, 1e-9)
}

func TestCart_PreservesInsertionOrder(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	lines := []models.CartLine{
		{InventoryItem: models.InventoryItem{ProductID: "Z"}, Quantity: 1},
		{InventoryItem: models.InventoryItem{ProductID: "A"}, Quantity: 1},
		{InventoryItem: models.InventoryItem{ProductID: "M"}, Quantity: 1},
	}
	require.NoError(t, store.SaveCart(ctx, "session1", lines))

	loaded, err := store.LoadCart(ctx, "session1")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "Z", string(loaded[0].ProductID))
	assert.Equal(t, "A", string(loaded[1].ProductID))
	assert.Equal(t, "M", string(loaded[2].ProductID))
}

func TestCart_MissingLoadsEmpty(t *testing.T) {
	store, _ := setupTestStore(t)

	loaded, err := store.LoadCart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCart_SaveEmptyClears(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, "session1", testLines()))
	require.NoError(t, store.SaveCart(ctx, "session1", nil))

	loaded, err := store.LoadCart(ctx, "session1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCart_Clear(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, "session1", testLines()))
	require.NoError(t, store.ClearCart(ctx, "session1"))

	loaded, err := store.LoadCart(ctx, "session1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCart_ExpiresWithSession(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCart(ctx, "session1", testLines()))
	mr.FastForward(cartTTL + time.Minute)

	loaded, err := store.LoadCart(ctx, "session1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func testSnapshot() *models.BillingSnapshot {
	return &models.BillingSnapshot{
		BillID:    "bill-1",
		Items:     testLines(),
		Total:     412.82,
		Date:      "29/08/2026",
		Time:      "10:30:00 AM",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestSnapshot_TakeIsOneShot(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSnapshot(ctx, testSnapshot()))

	snap, err := store.TakeSnapshot(ctx, "bill-1")
	require.NoError(t, err)
	assert.Equal(t, "bill-1", snap.BillID)
	assert.InDelta(t, 412.82, snap.Total, 1e-9)
	require.Len(t, snap.Items, 2)

	_, err = store.TakeSnapshot(ctx, "bill-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshot_MissingIsNotFound(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.TakeSnapshot(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestPendingBill_SurvivesUntilDeleted(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutPendingBill(ctx, testSnapshot()))

	// Unlike the snapshot, the pending copy can be read repeatedly.
	for i := 0; i < 2; i++ {
		snap, err := store.GetPendingBill(ctx, "bill-1")
		require.NoError(t, err)
		assert.Equal(t, "bill-1", snap.BillID)
	}

	require.NoError(t, store.DeletePendingBill(ctx, "bill-1"))
	_, err := store.GetPendingBill(ctx, "bill-1")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSubmitLock(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	acquired, err := store.AcquireSubmitLock(ctx, "bill-1")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = store.AcquireSubmitLock(ctx, "bill-1")
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, store.ReleaseSubmitLock(ctx, "bill-1"))
	acquired, err = store.AcquireSubmitLock(ctx, "bill-1")
	require.NoError(t, err)
	assert.True(t, acquired)

	// The lock frees itself if a submitter crashes without releasing.
	mr.FastForward(submitLockTTL + time.Second)
	acquired, err = store.AcquireSubmitLock(ctx, "bill-1")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestPing(t *testing.T) {
	store, mr := setupTestStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
