package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalapexmediation/auctionengine/internal/eventlog"
	"github.com/rivalapexmediation/auctionengine/internal/ids"
	"github.com/rivalapexmediation/auctionengine/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Minute)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	log := eventlog.New()
	auctionID := ids.New()
	bidder := ids.New()

	_, err := log.Append(auctionID, types.Now(), types.NewAuctionStarted(auctionID, types.Now(), "first_price"))
	require.NoError(t, err)
	bid := types.NewBid(bidder, decimal.RequireFromString("10"), 1, types.Now(), nil)
	_, err = log.Append(auctionID, types.Now(), types.NewBidSubmitted(auctionID, types.Now(), bid))
	require.NoError(t, err)

	require.NoError(t, store.Snapshot(ctx, log, auctionID))

	restored, err := store.Restore(ctx, auctionID)
	require.NoError(t, err)
	require.Len(t, restored, 2)

	original := log.QueryByAuction(auctionID)
	for i := range original {
		assert.Equal(t, original[i].EntryID, restored[i].EntryID)
		assert.Equal(t, original[i].AuctionID, restored[i].AuctionID)
		assert.Equal(t, original[i].EventHash, restored[i].EventHash)
		assert.Equal(t, original[i].PreviousHash, restored[i].PreviousHash)
		assert.Equal(t, original[i].Event.Kind(), restored[i].Event.Kind())
	}

	started, ok := restored[0].Event.(types.AuctionStartedEvent)
	require.True(t, ok)
	assert.Equal(t, "first_price", started.TypeTag)

	submitted, ok := restored[1].Event.(types.BidSubmittedEvent)
	require.True(t, ok)
	assert.True(t, submitted.Bid.Amount.Equal(decimal.RequireFromString("10")))
}

func TestRestoreMissingSnapshotReturnsErrNoSnapshot(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Restore(context.Background(), ids.New())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestDeleteRemovesSnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	log := eventlog.New()
	auctionID := ids.New()
	_, err := log.Append(auctionID, types.Now(), types.NewAuctionCancelled(auctionID, types.Now(), "test"))
	require.NoError(t, err)

	require.NoError(t, store.Snapshot(ctx, log, auctionID))
	require.NoError(t, store.Delete(ctx, auctionID))

	_, err = store.Restore(ctx, auctionID)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
