package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kara-india/boliapp/internal/market"
	"github.com/kara-india/boliapp/internal/model"
)

type memStore struct {
	mu       sync.Mutex
	listings []*model.Listing
	wallet   *model.Wallet
	failSave bool
}

func (m *memStore) SaveListings(_ context.Context, listings []*model.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("store unavailable")
	}
	m.listings = listings
	return nil
}

func (m *memStore) LoadListings(_ context.Context) ([]*model.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listings == nil {
		return nil, errors.New("no listings state")
	}
	return m.listings, nil
}

func (m *memStore) SaveWallet(_ context.Context, wallet model.Wallet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("store unavailable")
	}
	m.wallet = &wallet
	return nil
}

func (m *memStore) LoadWallet(_ context.Context) (model.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wallet == nil {
		return model.Wallet{}, errors.New("no wallet state")
	}
	return *m.wallet, nil
}

type recordingHub struct {
	mu     sync.Mutex
	events []*model.WSEvent
}

func (r *recordingHub) Broadcast(event *model.WSEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingHub) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestNewMarketService_FallsBackToSeed(t *testing.T) {
	svc := NewMarketService(context.Background(), &memStore{}, nil)

	assert.Equal(t, int64(500_000), svc.Balance())
	assert.Len(t, svc.Listings(), 3)
}

func TestNewMarketService_RestoresStoredState(t *testing.T) {
	store := &memStore{
		listings: []*model.Listing{{
			ID:          "stored-1",
			Title:       "Stored flat",
			BuyNowPrice: 9_000_000,
			Status:      model.ListingStatusActive,
		}},
		wallet: &model.Wallet{Balance: 42_000},
	}

	svc := NewMarketService(context.Background(), store, nil)

	assert.Equal(t, int64(42_000), svc.Balance())
	listings := svc.Listings()
	require.Len(t, listings, 1)
	assert.Equal(t, "stored-1", listings[0].ID)
}

func TestMarketService_PlaceBidPersistsAndBroadcasts(t *testing.T) {
	store := &memStore{}
	hub := &recordingHub{}
	svc := NewMarketService(context.Background(), store, hub)

	listingID := svc.Listings()[0].ID
	bid, err := svc.PlaceBid(context.Background(), listingID, "buyer-demo", 20_000_000)
	require.NoError(t, err)
	assert.Equal(t, int64(400_000), bid.EMD)

	require.NotNil(t, store.wallet)
	assert.Equal(t, int64(100_000), store.wallet.Balance)
	require.NotEmpty(t, store.listings)
	assert.Len(t, store.listings[0].Bids, 1)
	assert.Equal(t, []string{"bid_placed"}, hub.types())
}

func TestMarketService_FailedValidationDoesNotPersist(t *testing.T) {
	store := &memStore{}
	hub := &recordingHub{}
	svc := NewMarketService(context.Background(), store, hub)

	listingID := svc.Listings()[0].ID
	_, err := svc.PlaceBid(context.Background(), listingID, "buyer-demo", 30_000_000)
	assert.ErrorIs(t, err, market.ErrAmountNotBelowBuyNow)

	assert.Nil(t, store.listings)
	assert.Nil(t, store.wallet)
	assert.Empty(t, hub.types())
}

func TestMarketService_BuyNowBroadcastsSale(t *testing.T) {
	store := &memStore{}
	hub := &recordingHub{}
	svc := NewMarketService(context.Background(), store, hub)

	listingID := svc.Listings()[0].ID
	sale, err := svc.BuyNow(context.Background(), listingID, "buyer-demo")
	require.NoError(t, err)
	assert.Equal(t, int64(25_000_000), sale.Price)

	assert.Equal(t, []string{"listing_sold"}, hub.types())
	assert.Equal(t, model.ListingStatusSold, store.listings[0].Status)
}

func TestMarketService_SaveFailureDoesNotUnwindDecision(t *testing.T) {
	store := &memStore{failSave: true}
	svc := NewMarketService(context.Background(), store, nil)

	listingID := svc.Listings()[0].ID
	bid, err := svc.PlaceBid(context.Background(), listingID, "buyer-demo", 20_000_000)
	require.NoError(t, err)
	require.NotNil(t, bid)

	// The engine committed even though the snapshot save failed.
	assert.Equal(t, int64(100_000), svc.Balance())
	listing, err := svc.Listing(listingID)
	require.NoError(t, err)
	assert.Len(t, listing.Bids, 1)
}

func TestMarketService_TopUp(t *testing.T) {
	store := &memStore{}
	hub := &recordingHub{}
	svc := NewMarketService(context.Background(), store, hub)

	balance, err := svc.TopUp(context.Background(), 100_000)
	require.NoError(t, err)
	assert.Equal(t, int64(600_000), balance)
	require.NotNil(t, store.wallet)
	assert.Equal(t, int64(600_000), store.wallet.Balance)
	assert.Equal(t, []string{"wallet_topup"}, hub.types())

	_, err = svc.TopUp(context.Background(), -5)
	assert.ErrorIs(t, err, market.ErrInvalidAmount)
}
