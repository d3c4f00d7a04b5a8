package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/kara-india/boliapp/internal/market"
	"github.com/kara-india/boliapp/internal/model"
)

// SnapshotStore persists the engine's state. The store is opaque to the
// engine; the service owns when snapshots are taken.
type SnapshotStore interface {
	SaveListings(ctx context.Context, listings []*model.Listing) error
	LoadListings(ctx context.Context) ([]*model.Listing, error)
	SaveWallet(ctx context.Context, wallet model.Wallet) error
	LoadWallet(ctx context.Context) (model.Wallet, error)
}

// Broadcaster pushes marketplace events to connected browsers.
type Broadcaster interface {
	Broadcast(event *model.WSEvent)
}

// MarketService sits between the HTTP layer and the bidding engine. The
// engine's decision is always finalized before persistence runs; a failed
// snapshot save is logged and never unwinds a committed sale or bid.
type MarketService struct {
	engine *market.BiddingEngine
	store  SnapshotStore
	hub    Broadcaster
}

// NewMarketService restores engine state from the store. Listings and the
// wallet load independently; either falls back to the seed state when its
// snapshot is absent or cannot be decoded.
func NewMarketService(ctx context.Context, store SnapshotStore, hub Broadcaster) *MarketService {
	seed := market.SeedState()

	listings, err := store.LoadListings(ctx)
	if err != nil || len(listings) == 0 {
		log.Printf("No usable listings snapshot (%v), seeding sample listings", err)
		listings = seed.Listings
	}

	wallet, err := store.LoadWallet(ctx)
	if err != nil {
		log.Printf("No usable wallet snapshot (%v), seeding balance %d", err, seed.Wallet.Balance)
		wallet = seed.Wallet
	}

	engine := market.Restore(&market.Snapshot{Listings: listings, Wallet: wallet})
	return &MarketService{engine: engine, store: store, hub: hub}
}

func (s *MarketService) Listings() []*model.Listing {
	return s.engine.Listings()
}

func (s *MarketService) Listing(id string) (*model.Listing, error) {
	return s.engine.Listing(id)
}

func (s *MarketService) Balance() int64 {
	return s.engine.Balance()
}

func (s *MarketService) CreateListing(ctx context.Context, req *model.CreateListingRequest, seller model.Seller) (*model.Listing, error) {
	listing, err := s.engine.CreateListing(req, seller)
	if err != nil {
		return nil, err
	}

	s.saveListings(ctx)
	s.notify("listing_created", listing)
	return listing, nil
}

func (s *MarketService) PlaceBid(ctx context.Context, listingID, bidder string, amount int64) (*model.Bid, error) {
	bid, err := s.engine.PlaceBid(listingID, bidder, amount)
	if err != nil {
		return nil, err
	}

	s.saveListings(ctx)
	s.saveWallet(ctx)
	s.notify("bid_placed", map[string]any{"listing_id": listingID, "bid": bid})
	return bid, nil
}

func (s *MarketService) BuyNow(ctx context.Context, listingID, buyer string) (*model.Sale, error) {
	sale, err := s.engine.BuyNow(listingID, buyer)
	if err != nil {
		return nil, err
	}

	s.saveListings(ctx)
	s.saveWallet(ctx)
	s.notify("listing_sold", map[string]any{"listing_id": listingID, "sale": sale})
	return sale, nil
}

func (s *MarketService) AcceptBid(ctx context.Context, listingID, bidID string) (*model.Sale, error) {
	sale, err := s.engine.AcceptBid(listingID, bidID)
	if err != nil {
		return nil, err
	}

	s.saveListings(ctx)
	s.saveWallet(ctx)
	s.notify("listing_sold", map[string]any{"listing_id": listingID, "sale": sale})
	return sale, nil
}

func (s *MarketService) TopUp(ctx context.Context, amount int64) (int64, error) {
	balance, err := s.engine.TopUp(amount)
	if err != nil {
		return 0, err
	}

	s.saveWallet(ctx)
	s.notify("wallet_topup", map[string]any{"balance": balance})
	return balance, nil
}

func (s *MarketService) saveListings(ctx context.Context) {
	if err := s.store.SaveListings(ctx, s.engine.Listings()); err != nil {
		log.Printf("[MARKET] save listings snapshot: %v", err)
	}
}

func (s *MarketService) saveWallet(ctx context.Context) {
	if err := s.store.SaveWallet(ctx, model.Wallet{Balance: s.engine.Balance()}); err != nil {
		log.Printf("[MARKET] save wallet snapshot: %v", err)
	}
}

func (s *MarketService) notify(eventType string, payload any) {
	if s.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.hub.Broadcast(&model.WSEvent{Type: eventType, Data: data})
}
